package models

import "time"

// BookingStatus enumerates the lifecycle states of a booking.
type BookingStatus string

const (
	StatusPending     BookingStatus = "pending"
	StatusConfirmed   BookingStatus = "confirmed"
	StatusInProgress  BookingStatus = "in_progress"
	StatusCompleted   BookingStatus = "completed"
	StatusCancelled   BookingStatus = "cancelled"
	StatusRescheduled BookingStatus = "rescheduled"
)

// OccupyingStatuses are the statuses that hold a time slot for conflict purposes.
var OccupyingStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusInProgress}

// Booking represents one reservation of a provider's time by a customer.
// Price and duration are snapshotted from the service at booking time so
// later service edits never alter existing bookings.
type Booking struct {
	ID         string `bson:"id" json:"id"`
	CustomerID string `bson:"customer_id" json:"customer_id"`
	ProviderID string `bson:"provider_id" json:"provider_id"`
	ServiceID  string `bson:"service_id" json:"service_id"`

	Date            string `bson:"date" json:"date"`             // "YYYY-MM-DD", provider-local
	StartTime       string `bson:"start_time" json:"start_time"` // "HH:MM"
	EndTime         string `bson:"end_time" json:"end_time"`
	DurationMinutes int    `bson:"duration_minutes" json:"duration_minutes"`

	// Minute-of-day projections of StartTime/EndTime, kept on the document
	// so overlap checks run inside the database.
	StartMinute int `bson:"start_minute" json:"-"`
	EndMinute   int `bson:"end_minute" json:"-"`

	// Money is tracked in integer cents to avoid floating-point drift.
	TotalAmountCents      int64 `bson:"total_amount_cents" json:"total_amount_cents"`
	PlatformFeeCents      int64 `bson:"platform_fee_cents" json:"platform_fee_cents"`
	ProviderEarningsCents int64 `bson:"provider_earnings_cents" json:"provider_earnings_cents"`
	RefundAmountCents     int64 `bson:"refund_amount_cents,omitempty" json:"refund_amount_cents,omitempty"`

	Status          BookingStatus `bson:"status" json:"status"`
	PaymentStatus   string        `bson:"payment_status" json:"payment_status"` // "pending", "paid", "refunded"
	PaymentIntentID string        `bson:"payment_intent_id,omitempty" json:"payment_intent_id,omitempty"`

	Notes string `bson:"notes,omitempty" json:"notes,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`

	// Eagerly resolved relations for display; may be nil on partial loads.
	Provider *Provider `bson:"provider,omitempty" json:"provider,omitempty"`
	Service  *Service  `bson:"service,omitempty" json:"service,omitempty"`
}

// BookingResult is the flat DTO returned by all lifecycle operations.
// It tolerates partially-loaded relations: nested fields fall back to
// empty string / zero, while the id fields always come from the booking's
// own foreign keys.
type BookingResult struct {
	ID                    string        `json:"id"`
	BookingDate           string        `json:"bookingDate"`
	StartTime             string        `json:"startTime"`
	EndTime               string        `json:"endTime"`
	DurationMinutes       int           `json:"durationMinutes"`
	Status                BookingStatus `json:"status"`
	PaymentStatus         string        `json:"paymentStatus"`
	TotalAmountCents      int64         `json:"totalAmountCents"`
	PlatformFeeCents      int64         `json:"platformFeeCents"`
	ProviderEarningsCents int64         `json:"providerEarningsCents"`
	RefundAmountCents     int64         `json:"refundAmountCents,omitempty"`
	Notes                 string        `json:"notes,omitempty"`

	Provider BookingResultProvider `json:"provider"`
	Service  BookingResultService  `json:"service"`
}

// BookingResultProvider is the minimal nested provider view on a BookingResult.
type BookingResultProvider struct {
	ID              string `json:"id"`
	BusinessName    string `json:"businessName"`
	BusinessAddress string `json:"businessAddress"`
	BusinessPhone   string `json:"businessPhone"`
}

// BookingResultService is the minimal nested service view on a BookingResult.
type BookingResultService struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
}

// CreateBookingInput is the external input contract for booking creation.
type CreateBookingInput struct {
	ProviderID  string `json:"providerId" binding:"required"`
	ServiceID   string `json:"serviceId" binding:"required"`
	BookingDate string `json:"bookingDate" binding:"required"` // "YYYY-MM-DD"
	StartTime   string `json:"startTime" binding:"required"`   // "HH:MM"
	Notes       string `json:"notes,omitempty"`
}

// CancelBookingInput is the external input contract for cancellation.
type CancelBookingInput struct {
	BookingID string `json:"bookingId" binding:"required"`
	Reason    string `json:"reason,omitempty"`
}

// RescheduleBookingInput is the external input contract for rescheduling.
type RescheduleBookingInput struct {
	BookingID      string `json:"bookingId" binding:"required"`
	NewBookingDate string `json:"newBookingDate" binding:"required"`
	NewStartTime   string `json:"newStartTime" binding:"required"`
	Notes          string `json:"notes,omitempty"`
}
