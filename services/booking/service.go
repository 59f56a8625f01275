package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"servana/config"
	auditRepo "servana/database/repository/audit"
	blockedRepo "servana/database/repository/blocked"
	bookingRepo "servana/database/repository/booking"
	catalogRepo "servana/database/repository/catalog"
	"servana/models"
	"servana/services/notification"
	"servana/services/payments"
	"servana/utils"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// StartWindowMinutes bounds how far from the scheduled start a provider may
// move a confirmed booking into progress, in either direction.
const StartWindowMinutes = 15

// BookingService defines the booking lifecycle operations.
type BookingService interface {
	CreateBooking(ctx context.Context, customerID string, input models.CreateBookingInput) (*models.BookingResult, error)
	CancelBooking(ctx context.Context, customerID string, input models.CancelBookingInput) (*models.BookingResult, error)
	RescheduleBooking(ctx context.Context, customerID string, input models.RescheduleBookingInput) (*models.BookingResult, error)
	ListCustomerBookings(ctx context.Context, customerID string) ([]models.BookingResult, error)

	ConfirmBooking(ctx context.Context, providerID, bookingID string) error
	StartBooking(ctx context.Context, providerID, bookingID string) error
	CompleteBooking(ctx context.Context, providerID, bookingID string) error
	CancelByProvider(ctx context.Context, providerID, bookingID, reason string) (*models.BookingResult, error)

	GetAvailability(ctx context.Context, providerID, serviceID, date string) ([]models.AvailabilitySlot, error)
	CreateBlockedTime(ctx context.Context, providerID string, block *models.BlockedTime) error
	ListBlockedTimes(ctx context.Context, providerID string) ([]models.BlockedTime, error)
	DeleteBlockedTime(ctx context.Context, providerID, blockID string) error

	MarkBookingPaid(ctx context.Context, bookingID string) error
	ExpirePending(ctx context.Context, bookingID string) error
	CompleteOverdue(ctx context.Context, bookingID string) error
	SweepLifecycle(ctx context.Context) error
}

// DefaultBookingService implements BookingService with injected
// dependencies.
type DefaultBookingService struct {
	Bookings  bookingRepo.BookingRepository
	Blocked   blockedRepo.BlockedTimeRepository
	Services  catalogRepo.ServiceRepository
	Providers catalogRepo.ProviderRepository
	Audit     auditRepo.AuditRepository
	Notifier  notification.NotificationService
	Payments  payments.PaymentProcessor
	Cache     *redis.Client
	Tasks     *asynq.Client
}

// CreateBooking validates the request, detects conflicts, snapshots pricing
// and persists the booking as pending, then refreshes availability and
// fires the downstream effects.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, customerID string, input models.CreateBookingInput) (*models.BookingResult, error) {
	svc, err := s.Services.GetByID(ctx, input.ServiceID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if svc == nil || !svc.Active {
		return nil, NewNotFound("service not found")
	}
	if svc.ProviderID != input.ProviderID {
		return nil, NewBadRequest("service does not belong to the requested provider")
	}

	provider, err := s.Providers.GetByID(ctx, input.ProviderID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if provider == nil || !provider.Active {
		return nil, NewBadRequest("provider is not accepting bookings")
	}

	startMin, err := TimeToMinutes(input.StartTime)
	if err != nil {
		return nil, NewBadRequest(err.Error())
	}
	endMin := startMin + svc.DurationMinutes
	if endMin > 24*60 {
		return nil, NewBadRequest("booking cannot extend past midnight")
	}

	startAt, err := parseLocalDateTime(input.BookingDate, input.StartTime)
	if err != nil {
		return nil, NewBadRequest(err.Error())
	}
	now := time.Now()
	if !startAt.After(now) {
		return nil, NewBadRequest("booking must be in the future")
	}
	maxAdvance := config.AppConfig.MaxAdvanceDays
	if maxAdvance > 0 && startAt.After(now.AddDate(0, 0, maxAdvance)) {
		return nil, NewBadRequest(fmt.Sprintf("bookings can be made at most %d days in advance", maxAdvance))
	}

	detector := &ConflictDetector{Bookings: s.Bookings}
	available, err := detector.IsSlotAvailable(ctx, input.ProviderID, input.BookingDate, startMin, endMin, "")
	if err != nil {
		return nil, asBadRequest(err)
	}
	if !available {
		return nil, NewConflict("time slot is no longer available")
	}
	blocked, err := s.isBlocked(ctx, input.ProviderID, input.BookingDate, startMin, endMin)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if blocked {
		return nil, NewConflict("provider is unavailable at that time")
	}

	total := svc.PriceCents
	fee := platformFeeCents(total)
	booking := &models.Booking{
		ID:                    uuid.NewString(),
		CustomerID:            customerID,
		ProviderID:            input.ProviderID,
		ServiceID:             input.ServiceID,
		Date:                  input.BookingDate,
		StartTime:             input.StartTime,
		EndTime:               MinutesToTime(endMin),
		DurationMinutes:       svc.DurationMinutes,
		StartMinute:           startMin,
		EndMinute:             endMin,
		TotalAmountCents:      total,
		PlatformFeeCents:      fee,
		ProviderEarningsCents: total - fee,
		Status:                models.StatusPending,
		PaymentStatus:         "pending",
		Notes:                 input.Notes,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.Bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, NewConflict("time slot is no longer available")
		}
		return nil, asBadRequest(err)
	}

	if s.Payments != nil {
		intentID, perr := s.Payments.CreateIntent(ctx, booking)
		if perr != nil {
			utils.GetLogger().Warn("payment intent creation failed",
				zap.String("bookingID", booking.ID), zap.Error(perr))
		} else {
			booking.PaymentIntentID = intentID
			if uerr := s.Bookings.SetPaymentIntent(ctx, booking.ID, intentID); uerr != nil {
				utils.GetLogger().Warn("failed to record payment intent",
					zap.String("bookingID", booking.ID), zap.Error(uerr))
			}
		}
	}

	s.refreshAvailability(ctx, booking.ProviderID, booking.ServiceID, booking.Date)

	booking.Provider = provider
	booking.Service = svc
	result := ToBookingResult(booking)

	s.fireAndForget(func(bg context.Context) {
		_ = s.Notifier.NotifyNewBooking(bg, result, provider.UserID)
	})
	s.audit(ctx, customerID, "booking.create",
		fmt.Sprintf("booked %s with %s on %s %s", svc.Name, provider.BusinessName, booking.Date, booking.StartTime))
	s.scheduleLifecycleTasks(booking, startAt)

	return &result, nil
}

// CancelBooking cancels a customer's own booking. Customers may only cancel
// while more than the configured cutoff (24h by default) remains before the
// start, which by construction lands in the full-refund tier.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, customerID string, input models.CancelBookingInput) (*models.BookingResult, error) {
	b, err := s.Bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if b == nil || b.CustomerID != customerID {
		return nil, NewNotFound("booking not found")
	}
	if b.Status == models.StatusCancelled {
		return nil, NewBadRequest("booking is already cancelled")
	}
	if b.Status == models.StatusCompleted || b.Status == models.StatusInProgress {
		return nil, NewBadRequest("booking can no longer be cancelled")
	}

	startAt, err := parseLocalDateTime(b.Date, b.StartTime)
	if err != nil {
		return nil, asBadRequest(err)
	}
	hoursUntil := time.Until(startAt).Hours()
	cutoff := float64(config.AppConfig.CancellationCutoffHr)
	if cutoff <= 0 {
		cutoff = 24
	}
	if hoursUntil < cutoff {
		return nil, NewForbidden(fmt.Sprintf("bookings can only be cancelled at least %.0f hours in advance", cutoff))
	}

	refundCents := RefundAmountCents(hoursUntil, b.TotalAmountCents)
	return s.cancel(ctx, b, customerID, input.Reason, refundCents)
}

// CancelByProvider cancels on the provider's behalf. No cutoff applies; the
// refund follows the time-based tier table.
func (s *DefaultBookingService) CancelByProvider(ctx context.Context, providerID, bookingID, reason string) (*models.BookingResult, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if b == nil || b.ProviderID != providerID {
		return nil, NewNotFound("booking not found")
	}
	if b.Status == models.StatusCancelled {
		return nil, NewBadRequest("booking is already cancelled")
	}
	if b.Status == models.StatusCompleted || b.Status == models.StatusInProgress {
		return nil, NewBadRequest("booking can no longer be cancelled")
	}

	startAt, err := parseLocalDateTime(b.Date, b.StartTime)
	if err != nil {
		return nil, asBadRequest(err)
	}
	refundCents := RefundAmountCents(time.Until(startAt).Hours(), b.TotalAmountCents)
	return s.cancel(ctx, b, providerID, reason, refundCents)
}

// cancel is the shared tail of both cancellation paths: persist, refund the
// payment when one was captured, refresh availability and notify.
func (s *DefaultBookingService) cancel(ctx context.Context, b *models.Booking, actorID, reason string, refundCents int64) (*models.BookingResult, error) {
	notes := appendNote(b.Notes, reason)
	if err := s.Bookings.Cancel(ctx, b.ID, refundCents, notes); err != nil {
		return nil, asBadRequest(err)
	}
	b.Status = models.StatusCancelled
	b.RefundAmountCents = refundCents
	b.Notes = notes

	if refundCents > 0 && b.PaymentStatus == "paid" && s.Payments != nil {
		if err := s.Payments.Refund(ctx, b.PaymentIntentID, refundCents); err != nil {
			utils.GetLogger().Error("refund failed, requires manual follow-up",
				zap.String("bookingID", b.ID),
				zap.Int64("refundCents", refundCents),
				zap.Error(err))
		}
	}

	s.refreshAvailability(ctx, b.ProviderID, b.ServiceID, b.Date)
	s.loadRelations(ctx, b)

	providerUser := providerUserID(b)
	s.fireAndForget(func(bg context.Context) {
		_ = s.Notifier.NotifyBookingCancelled(bg, b.ID, b.CustomerID, providerUser, reason)
	})
	s.audit(ctx, actorID, "booking.cancel",
		fmt.Sprintf("cancelled booking %s, refund %d cents", b.ID, refundCents))

	result := ToBookingResult(b)
	return &result, nil
}

// RescheduleBooking moves a pending or confirmed booking to a new slot. The
// stored status is preserved so the booking keeps occupying its (new) slot;
// subscribers get a rescheduled event instead.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, customerID string, input models.RescheduleBookingInput) (*models.BookingResult, error) {
	b, err := s.Bookings.GetByID(ctx, input.BookingID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if b == nil || b.CustomerID != customerID {
		return nil, NewNotFound("booking not found")
	}
	if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
		return nil, NewBadRequest("only pending or confirmed bookings can be rescheduled")
	}

	startMin, err := TimeToMinutes(input.NewStartTime)
	if err != nil {
		return nil, NewBadRequest(err.Error())
	}
	endMin := startMin + b.DurationMinutes
	if endMin > 24*60 {
		return nil, NewBadRequest("booking cannot extend past midnight")
	}

	startAt, err := parseLocalDateTime(input.NewBookingDate, input.NewStartTime)
	if err != nil {
		return nil, NewBadRequest(err.Error())
	}
	now := time.Now()
	if !startAt.After(now) {
		return nil, NewBadRequest("booking must be in the future")
	}
	maxAdvance := config.AppConfig.MaxAdvanceDays
	if maxAdvance > 0 && startAt.After(now.AddDate(0, 0, maxAdvance)) {
		return nil, NewBadRequest(fmt.Sprintf("bookings can be made at most %d days in advance", maxAdvance))
	}

	detector := &ConflictDetector{Bookings: s.Bookings}
	available, err := detector.IsSlotAvailable(ctx, b.ProviderID, input.NewBookingDate, startMin, endMin, b.ID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if !available {
		return nil, NewConflict("time slot is no longer available")
	}
	blocked, err := s.isBlocked(ctx, b.ProviderID, input.NewBookingDate, startMin, endMin)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if blocked {
		return nil, NewConflict("provider is unavailable at that time")
	}

	oldDate := b.Date
	b.Date = input.NewBookingDate
	b.StartTime = input.NewStartTime
	b.EndTime = MinutesToTime(endMin)
	b.StartMinute = startMin
	b.EndMinute = endMin
	b.Notes = appendNote(b.Notes, input.Notes)

	if err := s.Bookings.Reschedule(ctx, b.ID, b); err != nil {
		if errors.Is(err, bookingRepo.ErrSlotTaken) {
			return nil, NewConflict("time slot is no longer available")
		}
		return nil, asBadRequest(err)
	}

	s.refreshAvailability(ctx, b.ProviderID, b.ServiceID, oldDate)
	if b.Date != oldDate {
		s.refreshAvailability(ctx, b.ProviderID, b.ServiceID, b.Date)
	}
	s.loadRelations(ctx, b)

	providerUser := providerUserID(b)
	s.fireAndForget(func(bg context.Context) {
		_ = s.Notifier.NotifyBookingStatusChange(bg, b.ID, models.StatusRescheduled, b.CustomerID, providerUser)
	})
	s.audit(ctx, customerID, "booking.reschedule",
		fmt.Sprintf("moved booking %s from %s to %s %s", b.ID, oldDate, b.Date, b.StartTime))

	result := ToBookingResult(b)
	return &result, nil
}

func (s *DefaultBookingService) ListCustomerBookings(ctx context.Context, customerID string) ([]models.BookingResult, error) {
	bookings, err := s.Bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	results := make([]models.BookingResult, 0, len(bookings))
	for i := range bookings {
		results = append(results, ToBookingResult(&bookings[i]))
	}
	return results, nil
}

// ConfirmBooking is the provider accepting a pending booking.
func (s *DefaultBookingService) ConfirmBooking(ctx context.Context, providerID, bookingID string) error {
	b, err := s.providerBooking(ctx, providerID, bookingID)
	if err != nil {
		return err
	}
	if b.Status != models.StatusPending {
		return NewBadRequest("only pending bookings can be confirmed")
	}
	if err := s.Bookings.UpdateStatus(ctx, b.ID, models.StatusConfirmed); err != nil {
		return asBadRequest(err)
	}
	s.notifyStatus(ctx, b, models.StatusConfirmed)
	s.audit(ctx, providerID, "booking.confirm", fmt.Sprintf("confirmed booking %s", b.ID))
	return nil
}

// StartBooking transitions a confirmed booking into progress, allowed only
// within StartWindowMinutes of the scheduled start.
func (s *DefaultBookingService) StartBooking(ctx context.Context, providerID, bookingID string) error {
	b, err := s.providerBooking(ctx, providerID, bookingID)
	if err != nil {
		return err
	}
	if b.Status != models.StatusConfirmed {
		return NewBadRequest("only confirmed bookings can be started")
	}
	startAt, err := parseLocalDateTime(b.Date, b.StartTime)
	if err != nil {
		return asBadRequest(err)
	}
	if math.Abs(time.Until(startAt).Minutes()) > StartWindowMinutes {
		return NewBadRequest(fmt.Sprintf("booking can only be started within %d minutes of the scheduled start", StartWindowMinutes))
	}
	if err := s.Bookings.UpdateStatus(ctx, b.ID, models.StatusInProgress); err != nil {
		return asBadRequest(err)
	}
	s.notifyStatus(ctx, b, models.StatusInProgress)
	s.audit(ctx, providerID, "booking.start", fmt.Sprintf("started booking %s", b.ID))
	return nil
}

// CompleteBooking finishes an in-progress booking and frees the remainder
// of its slot.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, providerID, bookingID string) error {
	b, err := s.providerBooking(ctx, providerID, bookingID)
	if err != nil {
		return err
	}
	if b.Status != models.StatusInProgress {
		return NewBadRequest("only in-progress bookings can be completed")
	}
	if err := s.Bookings.UpdateStatus(ctx, b.ID, models.StatusCompleted); err != nil {
		return asBadRequest(err)
	}
	s.refreshAvailability(ctx, b.ProviderID, b.ServiceID, b.Date)
	s.notifyStatus(ctx, b, models.StatusCompleted)
	s.audit(ctx, providerID, "booking.complete", fmt.Sprintf("completed booking %s", b.ID))
	return nil
}

// MarkBookingPaid reacts to a successful payment: the pending booking
// becomes confirmed with payment_status paid. Invoked from the payment
// webhook.
func (s *DefaultBookingService) MarkBookingPaid(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return asBadRequest(err)
	}
	if b == nil {
		return NewNotFound("booking not found")
	}
	if b.Status != models.StatusPending {
		// Payment landed after an expiry or cancellation; flag for follow-up.
		utils.GetLogger().Warn("payment received for non-pending booking",
			zap.String("bookingID", b.ID), zap.String("status", string(b.Status)))
		return nil
	}
	if err := s.Bookings.MarkPaid(ctx, b.ID); err != nil {
		return asBadRequest(err)
	}
	s.notifyStatus(ctx, b, models.StatusConfirmed)
	s.audit(ctx, b.CustomerID, "booking.paid", fmt.Sprintf("payment captured for booking %s", b.ID))
	return nil
}

// CreateBlockedTime records a provider unavailability window and refreshes
// the affected date.
func (s *DefaultBookingService) CreateBlockedTime(ctx context.Context, providerID string, block *models.BlockedTime) error {
	startMin, err := TimeToMinutes(block.StartTime)
	if err != nil {
		return NewBadRequest(err.Error())
	}
	endMin, err := TimeToMinutes(block.EndTime)
	if err != nil {
		return NewBadRequest(err.Error())
	}
	if endMin <= startMin {
		return NewBadRequest("end time must be after start time")
	}

	block.ID = uuid.NewString()
	block.ProviderID = providerID
	block.CreatedAt = time.Now()
	if block.Date != "" {
		day, derr := time.ParseInLocation("2006-01-02", block.Date, time.Local)
		if derr != nil {
			return NewBadRequest(fmt.Sprintf("invalid date %q: must be YYYY-MM-DD", block.Date))
		}
		block.Weekday = int(day.Weekday())
	} else if !block.Recurring {
		return NewBadRequest("date is required for one-off blocks")
	}

	if err := s.Blocked.Create(ctx, block); err != nil {
		return asBadRequest(err)
	}
	if block.Date != "" {
		s.refreshAvailability(ctx, providerID, "", block.Date)
	}
	s.audit(ctx, providerID, "blocked_time.create",
		fmt.Sprintf("blocked %s-%s on %s", block.StartTime, block.EndTime, block.Date))
	return nil
}

func (s *DefaultBookingService) ListBlockedTimes(ctx context.Context, providerID string) ([]models.BlockedTime, error) {
	blocks, err := s.Blocked.ListByProvider(ctx, providerID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	return blocks, nil
}

// DeleteBlockedTime removes a block and refreshes the date it covered.
func (s *DefaultBookingService) DeleteBlockedTime(ctx context.Context, providerID, blockID string) error {
	block, err := s.Blocked.Delete(ctx, blockID, providerID)
	if err != nil {
		return asBadRequest(err)
	}
	if block == nil {
		return NewNotFound("blocked time not found")
	}
	if block.Date != "" {
		s.refreshAvailability(ctx, providerID, "", block.Date)
	}
	s.audit(ctx, providerID, "blocked_time.delete",
		fmt.Sprintf("unblocked %s-%s on %s", block.StartTime, block.EndTime, block.Date))
	return nil
}

// ExpirePending is the deferred sweep for a booking that reached its start
// time still pending and unpaid: it is cancelled without refund so the slot
// frees up.
func (s *DefaultBookingService) ExpirePending(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil || b.Status != models.StatusPending || b.PaymentStatus == "paid" {
		return nil
	}
	startAt, err := parseLocalDateTime(b.Date, b.StartTime)
	if err != nil {
		return err
	}
	if time.Now().Before(startAt) {
		return nil
	}
	if err := s.Bookings.Cancel(ctx, b.ID, 0, appendNote(b.Notes, "expired unpaid")); err != nil {
		return err
	}
	s.refreshAvailability(ctx, b.ProviderID, b.ServiceID, b.Date)
	s.notifyStatus(ctx, b, models.StatusCancelled)
	return nil
}

// CompleteOverdue is the deferred sweep for an in-progress booking whose
// scheduled end plus grace has passed without the provider completing it.
func (s *DefaultBookingService) CompleteOverdue(ctx context.Context, bookingID string) error {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if b == nil || b.Status != models.StatusInProgress {
		return nil
	}
	endAt, err := parseLocalDateTime(b.Date, b.EndTime)
	if err != nil {
		return err
	}
	if time.Now().Before(endAt.Add(CompletionGraceMinutes * time.Minute)) {
		return nil
	}
	if err := s.Bookings.UpdateStatus(ctx, b.ID, models.StatusCompleted); err != nil {
		return err
	}
	s.refreshAvailability(ctx, b.ProviderID, b.ServiceID, b.Date)
	s.notifyStatus(ctx, b, models.StatusCompleted)
	return nil
}

// SweepLifecycle is the periodic backstop behind the deferred tasks: it
// scans for any pending booking past its start without payment and any
// in-progress booking past its end plus grace, and drives each through the
// same per-booking sweeps.
func (s *DefaultBookingService) SweepLifecycle(ctx context.Context) error {
	now := time.Now()
	date := now.Format("2006-01-02")
	minute := now.Hour()*60 + now.Minute()
	logger := utils.GetLogger()

	stale, err := s.Bookings.FindExpiredPending(ctx, date, minute)
	if err != nil {
		return fmt.Errorf("expired-pending scan failed: %w", err)
	}
	for i := range stale {
		if err := s.ExpirePending(ctx, stale[i].ID); err != nil {
			logger.Warn("failed to expire booking", zap.String("bookingID", stale[i].ID), zap.Error(err))
		}
	}

	overdue, err := s.Bookings.FindOverdueInProgress(ctx, date, minute-CompletionGraceMinutes)
	if err != nil {
		return fmt.Errorf("overdue scan failed: %w", err)
	}
	for i := range overdue {
		if err := s.CompleteOverdue(ctx, overdue[i].ID); err != nil {
			logger.Warn("failed to complete overdue booking", zap.String("bookingID", overdue[i].ID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultBookingService) providerBooking(ctx context.Context, providerID, bookingID string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, asBadRequest(err)
	}
	if b == nil || b.ProviderID != providerID {
		return nil, NewNotFound("booking not found")
	}
	return b, nil
}

// loadRelations fills the provider/service relations for the result view.
// Lookup failures leave the relation nil; the transform tolerates that.
func (s *DefaultBookingService) loadRelations(ctx context.Context, b *models.Booking) {
	if b.Provider == nil {
		if p, err := s.Providers.GetByID(ctx, b.ProviderID); err == nil {
			b.Provider = p
		}
	}
	if b.Service == nil {
		if svc, err := s.Services.GetByID(ctx, b.ServiceID); err == nil {
			b.Service = svc
		}
	}
}

func (s *DefaultBookingService) notifyStatus(ctx context.Context, b *models.Booking, status models.BookingStatus) {
	s.loadRelations(ctx, b)
	providerUser := providerUserID(b)
	s.fireAndForget(func(bg context.Context) {
		_ = s.Notifier.NotifyBookingStatusChange(bg, b.ID, status, b.CustomerID, providerUser)
	})
}

// audit records the action best-effort; an audit failure never fails the
// operation.
func (s *DefaultBookingService) audit(ctx context.Context, userID, action, description string) {
	if s.Audit == nil {
		return
	}
	entry := models.AuditEntry{UserID: userID, Action: action, Description: description}
	if err := s.Audit.Log(ctx, entry); err != nil {
		utils.GetLogger().Warn("audit log failed", zap.String("action", action), zap.Error(err))
	}
}

// fireAndForget runs a side effect on its own goroutine with a detached
// timeout context, recovering panics so notification bugs cannot take down
// a request.
func (s *DefaultBookingService) fireAndForget(fn func(ctx context.Context)) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				utils.GetLogger().Error("panic in async side effect", zap.Any("panic", r))
			}
		}()
		bg, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		fn(bg)
	}()
}

func (s *DefaultBookingService) isBlocked(ctx context.Context, providerID, date string, startMin, endMin int) (bool, error) {
	blocks, err := s.Blocked.GetByProviderAndDate(ctx, providerID, date)
	if err != nil {
		return false, fmt.Errorf("failed to fetch blocked times: %w", err)
	}
	for _, bl := range blocks {
		blockStart, serr := TimeToMinutes(bl.StartTime)
		blockEnd, eerr := TimeToMinutes(bl.EndTime)
		if serr != nil || eerr != nil {
			continue
		}
		if Overlaps(startMin, endMin, blockStart, blockEnd) {
			return true, nil
		}
	}
	return false, nil
}

// parseLocalDateTime combines "YYYY-MM-DD" and "HH:MM" in the server's
// local zone, which is treated as provider-local.
func parseLocalDateTime(date, hhmm string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q", date, hhmm)
	}
	return t, nil
}

// platformFeeCents applies the configured fee rate with round-half-up on
// the cent.
func platformFeeCents(totalCents int64) int64 {
	rate := config.AppConfig.PlatformFeeRate
	if rate <= 0 {
		rate = 0.10
	}
	return int64(math.Round(float64(totalCents) * rate))
}

func providerUserID(b *models.Booking) string {
	if b.Provider != nil {
		return b.Provider.UserID
	}
	return ""
}

func appendNote(existing, addition string) string {
	if addition == "" {
		return existing
	}
	if existing == "" {
		return addition
	}
	return existing + " | " + addition
}
