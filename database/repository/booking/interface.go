package bookingRepo

import (
	"context"
	"errors"

	"servana/models"
)

// ErrSlotTaken is returned by Create when the candidate interval collides
// with an occupying booking at write time (transactional re-check or
// unique-index violation).
var ErrSlotTaken = errors.New("time slot already taken")

// BookingRepository defines the interface for booking data access.
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	// FindOccupying returns bookings for a provider on a date whose status
	// holds a time slot (pending, confirmed, in_progress), optionally
	// excluding one booking id.
	FindOccupying(ctx context.Context, providerID, date, excludeBookingID string) ([]models.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error)
	// FindExpiredPending returns unpaid pending bookings whose start is at or
	// before the given date and minute-of-day.
	FindExpiredPending(ctx context.Context, date string, minuteOfDay int) ([]models.Booking, error)
	// FindOverdueInProgress returns in-progress bookings whose end is at or
	// before the given date and minute-of-day.
	FindOverdueInProgress(ctx context.Context, date string, minuteOfDay int) ([]models.Booking, error)
	// Create inserts the booking inside a transaction that re-checks the
	// interval against occupying bookings; returns ErrSlotTaken on collision.
	Create(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	// Cancel transitions to cancelled, records the refund and appends the
	// reason to the booking notes.
	Cancel(ctx context.Context, id string, refundCents int64, notes string) error
	// Reschedule moves the booking to a new date/time.
	Reschedule(ctx context.Context, id string, booking *models.Booking) error
	// SetPaymentIntent attaches the Stripe payment intent id after creation.
	SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error
	// MarkPaid flips payment_status to paid and confirms the booking.
	MarkPaid(ctx context.Context, id string) error
}
