package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"servana/models"
	"servana/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func availabilityCacheKey(providerID, serviceID, date string) string {
	return fmt.Sprintf("%s%s:%s:%s", utils.AvailabilityCachePrefix, providerID, serviceID, date)
}

// GetAvailability returns the provider's slot grid for a date with occupancy
// applied, serving from cache when warm. Cache failures degrade to a fresh
// computation, never to an error.
func (s *DefaultBookingService) GetAvailability(ctx context.Context, providerID, serviceID, date string) ([]models.AvailabilitySlot, error) {
	key := availabilityCacheKey(providerID, serviceID, date)
	logger := utils.GetLogger()

	if s.Cache != nil {
		data, err := s.Cache.Get(ctx, key).Result()
		if err == nil {
			var slots []models.AvailabilitySlot
			if jerr := json.Unmarshal([]byte(data), &slots); jerr == nil {
				return slots, nil
			}
			logger.Warn("corrupt availability cache entry, recomputing", zap.String("key", key))
		} else if err != redis.Nil {
			logger.Warn("availability cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	slots, err := s.computeAvailability(ctx, providerID, date)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if data, jerr := json.Marshal(slots); jerr == nil {
			if serr := s.Cache.Set(ctx, key, data, utils.AvailabilityCacheTTL).Err(); serr != nil {
				logger.Warn("availability cache write failed", zap.String("key", key), zap.Error(serr))
			}
		}
	}
	return slots, nil
}

// computeAvailability builds the grid from the provider's working hours for
// the date's weekday (default window when unconfigured) and marks every
// slot that overlaps an occupying booking or a blocked interval.
func (s *DefaultBookingService) computeAvailability(ctx context.Context, providerID, date string) ([]models.AvailabilitySlot, error) {
	day, err := time.ParseInLocation("2006-01-02", date, time.Local)
	if err != nil {
		return nil, NewBadRequest(fmt.Sprintf("invalid date %q: must be YYYY-MM-DD", date))
	}

	provider, err := s.Providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if provider == nil {
		return nil, NewNotFound("provider not found")
	}

	open, close := GridWindow(provider, int(day.Weekday()))
	slots, err := GenerateTimeSlots(open, close)
	if err != nil {
		return nil, asBadRequest(err)
	}

	bookings, err := s.Bookings.FindOccupying(ctx, providerID, date, "")
	if err != nil {
		return nil, asBadRequest(err)
	}
	blocks, err := s.Blocked.GetByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return nil, asBadRequest(err)
	}

	for i := range slots {
		slotStart, _ := TimeToMinutes(slots[i].StartTime)
		slotEnd := slotStart + SlotStepMinutes

		for _, b := range bookings {
			if Overlaps(slotStart, slotEnd, b.StartMinute, b.StartMinute+b.DurationMinutes) {
				slots[i].Available = false
				break
			}
		}
		if !slots[i].Available {
			continue
		}
		for _, bl := range blocks {
			blockStart, serr := TimeToMinutes(bl.StartTime)
			blockEnd, eerr := TimeToMinutes(bl.EndTime)
			if serr != nil || eerr != nil {
				continue
			}
			if Overlaps(slotStart, slotEnd, blockStart, blockEnd) {
				slots[i].Available = false
				break
			}
		}
	}
	return slots, nil
}

// invalidateAvailability drops every cached grid for the provider on the
// date, across all service ids. Runs before the mutating call returns so no
// caller can read a stale grid afterwards.
func (s *DefaultBookingService) invalidateAvailability(ctx context.Context, providerID, date string) {
	if s.Cache == nil {
		return
	}
	pattern := fmt.Sprintf("%s%s:*:%s", utils.AvailabilityCachePrefix, providerID, date)
	keys, err := s.Cache.Keys(ctx, pattern).Result()
	if err != nil {
		utils.GetLogger().Warn("availability invalidation scan failed",
			zap.String("pattern", pattern), zap.Error(err))
		return
	}
	if len(keys) > 0 {
		if err := s.Cache.Del(ctx, keys...).Err(); err != nil {
			utils.GetLogger().Warn("availability invalidation failed",
				zap.String("pattern", pattern), zap.Error(err))
		}
	}
}

// refreshAvailability invalidates the cached grids for a date, recomputes
// the current grid and pushes it to availability subscribers. The recompute
// and broadcast are best-effort; invalidation is not.
func (s *DefaultBookingService) refreshAvailability(ctx context.Context, providerID, serviceID, date string) {
	s.invalidateAvailability(ctx, providerID, date)

	slots, err := s.GetAvailability(ctx, providerID, serviceID, date)
	if err != nil {
		utils.GetLogger().Warn("availability refresh failed",
			zap.String("providerID", providerID), zap.String("date", date), zap.Error(err))
		return
	}
	s.fireAndForget(func(bg context.Context) {
		_ = s.Notifier.NotifyAvailabilityChange(bg, providerID, date, slots)
	})
}
