package booking

import (
	"encoding/json"
	"time"

	"servana/models"
	"servana/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task types handled by the lifecycle worker.
const (
	TaskBookingExpire   = "booking:expire"
	TaskBookingComplete = "booking:complete"
)

// CompletionGraceMinutes is how long past the scheduled end an in-progress
// booking may run before the sweeper force-completes it.
const CompletionGraceMinutes = 30

// LifecycleTaskPayload is the payload shared by both lifecycle task types.
type LifecycleTaskPayload struct {
	BookingID string `json:"bookingId"`
}

func NewExpireTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(LifecycleTaskPayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingExpire, payload), nil
}

func NewCompleteTask(bookingID string) (*asynq.Task, error) {
	payload, err := json.Marshal(LifecycleTaskPayload{BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBookingComplete, payload), nil
}

// scheduleLifecycleTasks enqueues the deferred sweeps for a new booking:
// expire it at its start time if still unpaid, and force-complete it once
// the scheduled end plus grace has passed. Enqueue failures are logged,
// never surfaced; the periodic sweep in the worker is the backstop.
func (s *DefaultBookingService) scheduleLifecycleTasks(booking *models.Booking, startAt time.Time) {
	if s.Tasks == nil {
		return
	}
	logger := utils.GetLogger()

	expire, err := NewExpireTask(booking.ID)
	if err == nil {
		_, err = s.Tasks.Enqueue(expire, asynq.ProcessAt(startAt))
	}
	if err != nil {
		logger.Warn("failed to enqueue expire task", zap.String("bookingID", booking.ID), zap.Error(err))
	}

	endAt := startAt.Add(time.Duration(booking.DurationMinutes+CompletionGraceMinutes) * time.Minute)
	complete, err := NewCompleteTask(booking.ID)
	if err == nil {
		_, err = s.Tasks.Enqueue(complete, asynq.ProcessAt(endAt))
	}
	if err != nil {
		logger.Warn("failed to enqueue complete task", zap.String("bookingID", booking.ID), zap.Error(err))
	}
}
