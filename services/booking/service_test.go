package booking

import (
	"context"
	"os"
	"testing"
	"time"

	"servana/config"
	bookingRepo "servana/database/repository/booking"
	"servana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	config.AppConfig = config.Config{
		PlatformFeeRate:      0.10,
		MaxAdvanceDays:       90,
		CancellationCutoffHr: 24,
	}
	os.Exit(m.Run())
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// dateTimeAt splits an instant into the date/time strings bookings use.
func dateTimeAt(t time.Time) (string, string) {
	return t.Format("2006-01-02"), t.Format("15:04")
}

func fixtureService() *models.Service {
	return &models.Service{
		ID:              "svc-1",
		ProviderID:      "prov-1",
		Name:            "Deep Clean",
		PriceCents:      10000,
		DurationMinutes: 90,
		Active:          true,
	}
}

func fixtureProvider() *models.Provider {
	return &models.Provider{
		ID:           "prov-1",
		UserID:       "user-prov-1",
		BusinessName: "Sparkle Co",
		Active:       true,
	}
}

func newTestService(br *mockBookingRepo, bl *mockBlockedRepo, sr *mockServiceRepo, pr *mockProviderRepo) *DefaultBookingService {
	return &DefaultBookingService{
		Bookings:  br,
		Blocked:   bl,
		Services:  sr,
		Providers: pr,
		Notifier:  stubNotifier{},
	}
}

func TestCreateBookingSuccess(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	date := futureDate(7)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	br.On("FindOccupying", mock.Anything, "prov-1", date, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", date).Return([]models.BlockedTime{}, nil)

	var persisted *models.Booking
	br.On("Create", mock.Anything, mock.AnythingOfType("*models.Booking")).
		Run(func(args mock.Arguments) { persisted = args.Get(1).(*models.Booking) }).
		Return(nil)

	result, err := svc.CreateBooking(context.Background(), "cust-1", models.CreateBookingInput{
		ProviderID:  "prov-1",
		ServiceID:   "svc-1",
		BookingDate: date,
		StartTime:   "10:00",
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, models.StatusPending, result.Status)
	assert.Equal(t, "10:00", result.StartTime)
	assert.Equal(t, "11:30", result.EndTime)
	assert.Equal(t, 90, result.DurationMinutes)
	assert.Equal(t, int64(10000), result.TotalAmountCents)
	assert.Equal(t, int64(1000), result.PlatformFeeCents)
	assert.Equal(t, int64(9000), result.ProviderEarningsCents)
	assert.Equal(t, "Sparkle Co", result.Provider.BusinessName)
	assert.Equal(t, "Deep Clean", result.Service.Name)

	require.NotNil(t, persisted)
	assert.Equal(t, 600, persisted.StartMinute)
	assert.Equal(t, 690, persisted.EndMinute)
	assert.Equal(t, "pending", persisted.PaymentStatus)
	assert.NotEmpty(t, persisted.ID)
}

func TestCreateBookingConflict(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	date := futureDate(7)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	// existing 10:00-11:30 booking collides with the requested 10:00 start
	br.On("FindOccupying", mock.Anything, "prov-1", date, "").Return([]models.Booking{
		{ID: "other", StartMinute: 600, DurationMinutes: 90, Status: models.StatusConfirmed},
	}, nil)

	_, err := svc.CreateBooking(context.Background(), "cust-1", models.CreateBookingInput{
		ProviderID:  "prov-1",
		ServiceID:   "svc-1",
		BookingDate: date,
		StartTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	br.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBookingLosesWriteRace(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	date := futureDate(7)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	br.On("FindOccupying", mock.Anything, "prov-1", date, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", date).Return([]models.BlockedTime{}, nil)
	// the pre-check passed but another request won the transactional insert
	br.On("Create", mock.Anything, mock.Anything).Return(bookingRepo.ErrSlotTaken)

	_, err := svc.CreateBooking(context.Background(), "cust-1", models.CreateBookingInput{
		ProviderID:  "prov-1",
		ServiceID:   "svc-1",
		BookingDate: date,
		StartTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestCreateBookingBlockedTime(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	date := futureDate(7)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	br.On("FindOccupying", mock.Anything, "prov-1", date, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", date).Return([]models.BlockedTime{
		{StartTime: "11:00", EndTime: "12:00"},
	}, nil)

	_, err := svc.CreateBooking(context.Background(), "cust-1", models.CreateBookingInput{
		ProviderID:  "prov-1",
		ServiceID:   "svc-1",
		BookingDate: date,
		StartTime:   "10:00",
	})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	br.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBookingValidation(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*models.CreateBookingInput)
		service  func() *models.Service
		wantKind Kind
	}{
		{
			name:     "unknown service",
			service:  func() *models.Service { return nil },
			wantKind: KindNotFound,
		},
		{
			name: "inactive service",
			service: func() *models.Service {
				s := fixtureService()
				s.Active = false
				return s
			},
			wantKind: KindNotFound,
		},
		{
			name: "service of another provider",
			service: func() *models.Service {
				s := fixtureService()
				s.ProviderID = "prov-other"
				return s
			},
			wantKind: KindBadRequest,
		},
		{
			name: "past date",
			mutate: func(in *models.CreateBookingInput) {
				in.BookingDate = time.Now().AddDate(0, 0, -1).Format("2006-01-02")
			},
			wantKind: KindBadRequest,
		},
		{
			name: "beyond the advance window",
			mutate: func(in *models.CreateBookingInput) {
				in.BookingDate = futureDate(120)
			},
			wantKind: KindBadRequest,
		},
		{
			name: "malformed start time",
			mutate: func(in *models.CreateBookingInput) {
				in.StartTime = "25:99"
			},
			wantKind: KindBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			br, bl := new(mockBookingRepo), new(mockBlockedRepo)
			sr, pr := new(mockServiceRepo), new(mockProviderRepo)
			svc := newTestService(br, bl, sr, pr)

			service := fixtureService()
			if tc.service != nil {
				service = tc.service()
			}
			sr.On("GetByID", mock.Anything, "svc-1").Return(service, nil)
			pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)

			input := models.CreateBookingInput{
				ProviderID:  "prov-1",
				ServiceID:   "svc-1",
				BookingDate: futureDate(7),
				StartTime:   "10:00",
			}
			if tc.mutate != nil {
				tc.mutate(&input)
			}

			_, err := svc.CreateBooking(context.Background(), "cust-1", input)
			require.Error(t, err)
			assert.Equal(t, tc.wantKind, KindOf(err))
			br.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func ownedBookingAt(start time.Time) *models.Booking {
	date, hhmm := dateTimeAt(start)
	startMin, _ := TimeToMinutes(hhmm)
	return &models.Booking{
		ID:               "bk-1",
		CustomerID:       "cust-1",
		ProviderID:       "prov-1",
		ServiceID:        "svc-1",
		Date:             date,
		StartTime:        hhmm,
		EndTime:          MinutesToTime(startMin + 90),
		DurationMinutes:  90,
		StartMinute:      startMin,
		EndMinute:        startMin + 90,
		TotalAmountCents: 10000,
		Status:           models.StatusPending,
		PaymentStatus:    "pending",
	}
}

func TestCancelBookingInsideCutoff(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	br.On("GetByID", mock.Anything, "bk-1").Return(ownedBookingAt(time.Now().Add(5*time.Hour)), nil)

	_, err := svc.CancelBooking(context.Background(), "cust-1", models.CancelBookingInput{BookingID: "bk-1"})
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
	br.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBookingFullRefund(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	booking := ownedBookingAt(time.Now().Add(48 * time.Hour))
	br.On("GetByID", mock.Anything, "bk-1").Return(booking, nil)
	br.On("Cancel", mock.Anything, "bk-1", int64(10000), mock.AnythingOfType("string")).Return(nil)
	br.On("FindOccupying", mock.Anything, "prov-1", booking.Date, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", booking.Date).Return([]models.BlockedTime{}, nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)

	result, err := svc.CancelBooking(context.Background(), "cust-1", models.CancelBookingInput{
		BookingID: "bk-1",
		Reason:    "change of plans",
	})
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, result.Status)
	assert.Equal(t, int64(10000), result.RefundAmountCents)
	br.AssertCalled(t, "Cancel", mock.Anything, "bk-1", int64(10000), mock.AnythingOfType("string"))
}

func TestCancelBookingNotOwner(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	br.On("GetByID", mock.Anything, "bk-1").Return(ownedBookingAt(time.Now().Add(48*time.Hour)), nil)

	_, err := svc.CancelBooking(context.Background(), "someone-else", models.CancelBookingInput{BookingID: "bk-1"})
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCancelByProviderHalfRefund(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	booking := ownedBookingAt(time.Now().Add(5 * time.Hour))
	br.On("GetByID", mock.Anything, "bk-1").Return(booking, nil)
	br.On("Cancel", mock.Anything, "bk-1", int64(5000), mock.AnythingOfType("string")).Return(nil)
	br.On("FindOccupying", mock.Anything, "prov-1", booking.Date, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", booking.Date).Return([]models.BlockedTime{}, nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)

	result, err := svc.CancelByProvider(context.Background(), "prov-1", "bk-1", "equipment failure")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), result.RefundAmountCents)
}

func TestRescheduleExcludesOwnBooking(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	booking := ownedBookingAt(time.Now().Add(48 * time.Hour))
	oldDate := booking.Date
	newDate := futureDate(10)

	br.On("GetByID", mock.Anything, "bk-1").Return(booking, nil)
	// the conflict check must exclude the booking being moved
	br.On("FindOccupying", mock.Anything, "prov-1", newDate, "bk-1").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", newDate).Return([]models.BlockedTime{}, nil)
	br.On("Reschedule", mock.Anything, "bk-1", mock.AnythingOfType("*models.Booking")).Return(nil)
	// availability refresh for both dates
	br.On("FindOccupying", mock.Anything, "prov-1", oldDate, "").Return([]models.Booking{}, nil)
	br.On("FindOccupying", mock.Anything, "prov-1", newDate, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", oldDate).Return([]models.BlockedTime{}, nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)

	result, err := svc.RescheduleBooking(context.Background(), "cust-1", models.RescheduleBookingInput{
		BookingID:      "bk-1",
		NewBookingDate: newDate,
		NewStartTime:   "14:00",
	})
	require.NoError(t, err)
	assert.Equal(t, newDate, result.BookingDate)
	assert.Equal(t, "14:00", result.StartTime)
	assert.Equal(t, "15:30", result.EndTime)
	// the stored status survives so the booking keeps holding its slot
	assert.Equal(t, models.StatusPending, result.Status)
}

func TestRescheduleWrongStatus(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	booking := ownedBookingAt(time.Now().Add(48 * time.Hour))
	booking.Status = models.StatusCompleted
	br.On("GetByID", mock.Anything, "bk-1").Return(booking, nil)

	_, err := svc.RescheduleBooking(context.Background(), "cust-1", models.RescheduleBookingInput{
		BookingID:      "bk-1",
		NewBookingDate: futureDate(10),
		NewStartTime:   "14:00",
	})
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, KindOf(err))
	br.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartBookingWindow(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	near := ownedBookingAt(time.Now().Add(5 * time.Minute))
	near.Status = models.StatusConfirmed
	br.On("GetByID", mock.Anything, "bk-1").Return(near, nil)
	br.On("UpdateStatus", mock.Anything, "bk-1", models.StatusInProgress).Return(nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)

	require.NoError(t, svc.StartBooking(context.Background(), "prov-1", "bk-1"))
	br.AssertCalled(t, "UpdateStatus", mock.Anything, "bk-1", models.StatusInProgress)

	far := ownedBookingAt(time.Now().Add(2 * time.Hour))
	far.ID = "bk-2"
	far.Status = models.StatusConfirmed
	br.On("GetByID", mock.Anything, "bk-2").Return(far, nil)

	err := svc.StartBooking(context.Background(), "prov-1", "bk-2")
	require.Error(t, err)
	assert.Equal(t, KindBadRequest, KindOf(err))
}

func TestMarkBookingPaid(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	booking := ownedBookingAt(time.Now().Add(48 * time.Hour))
	br.On("GetByID", mock.Anything, "bk-1").Return(booking, nil)
	br.On("MarkPaid", mock.Anything, "bk-1").Return(nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)

	require.NoError(t, svc.MarkBookingPaid(context.Background(), "bk-1"))
	br.AssertCalled(t, "MarkPaid", mock.Anything, "bk-1")

	// payment landing after cancellation is swallowed, not an error
	cancelled := ownedBookingAt(time.Now().Add(48 * time.Hour))
	cancelled.ID = "bk-2"
	cancelled.Status = models.StatusCancelled
	br.On("GetByID", mock.Anything, "bk-2").Return(cancelled, nil)

	require.NoError(t, svc.MarkBookingPaid(context.Background(), "bk-2"))
	br.AssertNotCalled(t, "MarkPaid", mock.Anything, "bk-2")
}

func TestExpirePending(t *testing.T) {
	br, bl := new(mockBookingRepo), new(mockBlockedRepo)
	sr, pr := new(mockServiceRepo), new(mockProviderRepo)
	svc := newTestService(br, bl, sr, pr)

	stale := ownedBookingAt(time.Now().Add(-1 * time.Hour))
	br.On("GetByID", mock.Anything, "bk-1").Return(stale, nil)
	br.On("Cancel", mock.Anything, "bk-1", int64(0), mock.AnythingOfType("string")).Return(nil)
	br.On("FindOccupying", mock.Anything, "prov-1", stale.Date, "").Return([]models.Booking{}, nil)
	bl.On("GetByProviderAndDate", mock.Anything, "prov-1", stale.Date).Return([]models.BlockedTime{}, nil)
	pr.On("GetByID", mock.Anything, "prov-1").Return(fixtureProvider(), nil)
	sr.On("GetByID", mock.Anything, "svc-1").Return(fixtureService(), nil)

	require.NoError(t, svc.ExpirePending(context.Background(), "bk-1"))
	br.AssertCalled(t, "Cancel", mock.Anything, "bk-1", int64(0), mock.AnythingOfType("string"))

	// a paid booking never expires
	paid := ownedBookingAt(time.Now().Add(-1 * time.Hour))
	paid.ID = "bk-2"
	paid.PaymentStatus = "paid"
	br.On("GetByID", mock.Anything, "bk-2").Return(paid, nil)

	require.NoError(t, svc.ExpirePending(context.Background(), "bk-2"))
	br.AssertNotCalled(t, "Cancel", mock.Anything, "bk-2", mock.Anything, mock.Anything)
}
