package booking

import (
	"context"

	"servana/models"

	"github.com/stretchr/testify/mock"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	args := m.Called(ctx, id)
	var b *models.Booking
	if v := args.Get(0); v != nil {
		b = v.(*models.Booking)
	}
	return b, args.Error(1)
}

func (m *mockBookingRepo) FindOccupying(ctx context.Context, providerID, date, excludeBookingID string) ([]models.Booking, error) {
	args := m.Called(ctx, providerID, date, excludeBookingID)
	var bs []models.Booking
	if v := args.Get(0); v != nil {
		bs = v.([]models.Booking)
	}
	return bs, args.Error(1)
}

func (m *mockBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	args := m.Called(ctx, customerID)
	var bs []models.Booking
	if v := args.Get(0); v != nil {
		bs = v.([]models.Booking)
	}
	return bs, args.Error(1)
}

func (m *mockBookingRepo) FindExpiredPending(ctx context.Context, date string, minuteOfDay int) ([]models.Booking, error) {
	args := m.Called(ctx, date, minuteOfDay)
	var bs []models.Booking
	if v := args.Get(0); v != nil {
		bs = v.([]models.Booking)
	}
	return bs, args.Error(1)
}

func (m *mockBookingRepo) FindOverdueInProgress(ctx context.Context, date string, minuteOfDay int) ([]models.Booking, error) {
	args := m.Called(ctx, date, minuteOfDay)
	var bs []models.Booking
	if v := args.Get(0); v != nil {
		bs = v.([]models.Booking)
	}
	return bs, args.Error(1)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookingRepo) Cancel(ctx context.Context, id string, refundCents int64, notes string) error {
	return m.Called(ctx, id, refundCents, notes).Error(0)
}

func (m *mockBookingRepo) Reschedule(ctx context.Context, id string, booking *models.Booking) error {
	return m.Called(ctx, id, booking).Error(0)
}

func (m *mockBookingRepo) SetPaymentIntent(ctx context.Context, id, paymentIntentID string) error {
	return m.Called(ctx, id, paymentIntentID).Error(0)
}

func (m *mockBookingRepo) MarkPaid(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockBlockedRepo struct{ mock.Mock }

func (m *mockBlockedRepo) GetByProviderAndDate(ctx context.Context, providerID, date string) ([]models.BlockedTime, error) {
	args := m.Called(ctx, providerID, date)
	var bs []models.BlockedTime
	if v := args.Get(0); v != nil {
		bs = v.([]models.BlockedTime)
	}
	return bs, args.Error(1)
}

func (m *mockBlockedRepo) ListByProvider(ctx context.Context, providerID string) ([]models.BlockedTime, error) {
	args := m.Called(ctx, providerID)
	var bs []models.BlockedTime
	if v := args.Get(0); v != nil {
		bs = v.([]models.BlockedTime)
	}
	return bs, args.Error(1)
}

func (m *mockBlockedRepo) Create(ctx context.Context, block *models.BlockedTime) error {
	return m.Called(ctx, block).Error(0)
}

func (m *mockBlockedRepo) Delete(ctx context.Context, id, providerID string) (*models.BlockedTime, error) {
	args := m.Called(ctx, id, providerID)
	var b *models.BlockedTime
	if v := args.Get(0); v != nil {
		b = v.(*models.BlockedTime)
	}
	return b, args.Error(1)
}

type mockServiceRepo struct{ mock.Mock }

func (m *mockServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	args := m.Called(ctx, id)
	var s *models.Service
	if v := args.Get(0); v != nil {
		s = v.(*models.Service)
	}
	return s, args.Error(1)
}

type mockProviderRepo struct{ mock.Mock }

func (m *mockProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	args := m.Called(ctx, id)
	var p *models.Provider
	if v := args.Get(0); v != nil {
		p = v.(*models.Provider)
	}
	return p, args.Error(1)
}

func (m *mockProviderRepo) Search(ctx context.Context, filter models.SearchFilter) ([]models.ProviderSearchHit, int64, error) {
	args := m.Called(ctx, filter)
	var hits []models.ProviderSearchHit
	if v := args.Get(0); v != nil {
		hits = v.([]models.ProviderSearchHit)
	}
	return hits, args.Get(1).(int64), args.Error(2)
}

// stubNotifier is a no-op notification sink. Notifications fire on their
// own goroutines, so a stateless stub avoids racing the test's assertions.
type stubNotifier struct{}

func (stubNotifier) NotifyAvailabilityChange(ctx context.Context, providerID, date string, slots []models.AvailabilitySlot) error {
	return nil
}

func (stubNotifier) NotifyNewBooking(ctx context.Context, booking models.BookingResult, providerUserID string) error {
	return nil
}

func (stubNotifier) NotifyBookingCancelled(ctx context.Context, bookingID, customerID, providerUserID, reason string) error {
	return nil
}

func (stubNotifier) NotifyBookingStatusChange(ctx context.Context, bookingID string, status models.BookingStatus, customerID, providerUserID string) error {
	return nil
}
