package booking

import (
	"fmt"

	"servana/models"
)

const (
	// DefaultDayStart/DefaultDayEnd bound the bookable grid when a provider
	// has no configured hours for the weekday.
	DefaultDayStart = "09:00"
	DefaultDayEnd   = "18:00"

	// SlotStepMinutes is the grid increment.
	SlotStepMinutes = 30
)

// TimeToMinutes parses "HH:MM" into minutes since midnight.
func TimeToMinutes(t string) (int, error) {
	var hours, minutes int
	if _, err := fmt.Sscanf(t, "%2d:%2d", &hours, &minutes); err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", t, err)
	}
	if len(t) != 5 || t[2] != ':' || hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q: must be HH:MM", t)
	}
	return hours*60 + minutes, nil
}

// MinutesToTime renders minutes since midnight as zero-padded "HH:MM",
// wrapping past midnight.
func MinutesToTime(m int) string {
	m = ((m % 1440) + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// CalculateEndTime returns start + duration as "HH:MM". Hours wrap with
// zero-padding; day rollover is not modeled, so callers enforce that a
// booking ends within the provider's day.
func CalculateEndTime(start string, durationMinutes int) (string, error) {
	startMin, err := TimeToMinutes(start)
	if err != nil {
		return "", err
	}
	return MinutesToTime(startMin + durationMinutes), nil
}

// GenerateTimeSlots produces the bookable grid between open and close in
// SlotStepMinutes increments, every slot defaulted available before
// occupancy is applied.
func GenerateTimeSlots(open, close string) ([]models.AvailabilitySlot, error) {
	openMin, err := TimeToMinutes(open)
	if err != nil {
		return nil, err
	}
	closeMin, err := TimeToMinutes(close)
	if err != nil {
		return nil, err
	}

	var slots []models.AvailabilitySlot
	for start := openMin; start+SlotStepMinutes <= closeMin; start += SlotStepMinutes {
		slots = append(slots, models.AvailabilitySlot{
			StartTime: MinutesToTime(start),
			EndTime:   MinutesToTime(start + SlotStepMinutes),
			Available: true,
		})
	}
	return slots, nil
}

// GridWindow resolves the open/close window for a provider on a weekday:
// the provider's configured hours when present, the default window
// otherwise.
func GridWindow(provider *models.Provider, weekday int) (string, string) {
	if provider != nil {
		if wh, ok := provider.HoursFor(weekday); ok {
			return wh.Open, wh.Close
		}
	}
	return DefaultDayStart, DefaultDayEnd
}
