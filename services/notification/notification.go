package notification

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

// NotificationService publishes booking and availability events to the
// realtime layer. All methods are best-effort: callers treat a failed
// publish as a logged degradation, never as an operation failure.
type NotificationService interface {
	NotifyAvailabilityChange(ctx context.Context, providerID, date string, slots []models.AvailabilitySlot) error
	NotifyNewBooking(ctx context.Context, booking models.BookingResult, providerUserID string) error
	NotifyBookingCancelled(ctx context.Context, bookingID, customerID, providerUserID, reason string) error
	NotifyBookingStatusChange(ctx context.Context, bookingID string, status models.BookingStatus, customerID, providerUserID string) error
}

// RedisNotificationService fans events out over Redis pub/sub channels.
// Subscribers (websocket gateways, mobile push workers) pick them up from
// the per-user and per-provider channels.
type RedisNotificationService struct {
	Client *redis.Client
}

func NewRedisNotificationService(client *redis.Client) *RedisNotificationService {
	return &RedisNotificationService{Client: client}
}

type event struct {
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

func userChannel(userID string) string {
	return "events:user:" + userID
}

func providerChannel(providerUserID string) string {
	return "events:provider:" + providerUserID
}

func availabilityChannel(providerID, date string) string {
	return fmt.Sprintf("events:availability:%s:%s", providerID, date)
}

func (s *RedisNotificationService) publish(ctx context.Context, channel string, ev event) error {
	ev.Timestamp = time.Now()
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", ev.Type, err)
	}
	if err := s.Client.Publish(ctx, channel, data).Err(); err != nil {
		utils.GetLogger().Warn("event publish failed",
			zap.String("channel", channel),
			zap.String("type", ev.Type),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *RedisNotificationService) NotifyAvailabilityChange(ctx context.Context, providerID, date string, slots []models.AvailabilitySlot) error {
	return s.publish(ctx, availabilityChannel(providerID, date), event{
		Type: "availability.changed",
		Payload: map[string]interface{}{
			"providerId": providerID,
			"date":       date,
			"slots":      slots,
		},
	})
}

func (s *RedisNotificationService) NotifyNewBooking(ctx context.Context, booking models.BookingResult, providerUserID string) error {
	return s.publish(ctx, providerChannel(providerUserID), event{
		Type:    "booking.created",
		Payload: booking,
	})
}

func (s *RedisNotificationService) NotifyBookingCancelled(ctx context.Context, bookingID, customerID, providerUserID, reason string) error {
	payload := map[string]interface{}{
		"bookingId": bookingID,
		"reason":    reason,
	}
	ev := event{Type: "booking.cancelled", Payload: payload}
	err := s.publish(ctx, userChannel(customerID), ev)
	if perr := s.publish(ctx, providerChannel(providerUserID), ev); err == nil {
		err = perr
	}
	return err
}

func (s *RedisNotificationService) NotifyBookingStatusChange(ctx context.Context, bookingID string, status models.BookingStatus, customerID, providerUserID string) error {
	payload := map[string]interface{}{
		"bookingId": bookingID,
		"status":    status,
	}
	ev := event{Type: "booking.status", Payload: payload}
	err := s.publish(ctx, userChannel(customerID), ev)
	if perr := s.publish(ctx, providerChannel(providerUserID), ev); err == nil {
		err = perr
	}
	return err
}
