package booking

import (
	"context"
	"testing"

	"servana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"identical", 600, 690, 600, 690, true},
		{"partial front", 570, 630, 600, 690, true},
		{"partial back", 660, 720, 600, 690, true},
		{"contained", 620, 650, 600, 690, true},
		{"containing", 540, 720, 600, 690, true},
		{"adjacent before does not overlap", 540, 600, 600, 690, false},
		{"adjacent after does not overlap", 690, 750, 600, 690, false},
		{"disjoint", 480, 510, 600, 690, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// symmetry
			assert.Equal(t, tc.want, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestIsSlotAvailable(t *testing.T) {
	repo := new(mockBookingRepo)
	repo.On("FindOccupying", mock.Anything, "prov-1", "2026-09-07", "").
		Return([]models.Booking{
			{ID: "b1", StartMinute: 600, DurationMinutes: 90}, // 10:00-11:30
		}, nil)

	d := &ConflictDetector{Bookings: repo}

	ok, err := d.IsSlotAvailable(context.Background(), "prov-1", "2026-09-07", 630, 660, "")
	require.NoError(t, err)
	assert.False(t, ok, "interval inside an occupying booking must conflict")

	ok, err = d.IsSlotAvailable(context.Background(), "prov-1", "2026-09-07", 690, 750, "")
	require.NoError(t, err)
	assert.True(t, ok, "interval starting exactly at the booked end must be free")
}
