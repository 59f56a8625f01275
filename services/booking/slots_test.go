package booking

import (
	"testing"

	"servana/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeToMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"09:05", 545, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := TimeToMinutes(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestMinutesToTimeZeroPads(t *testing.T) {
	assert.Equal(t, "00:00", MinutesToTime(0))
	assert.Equal(t, "09:05", MinutesToTime(545))
	assert.Equal(t, "23:30", MinutesToTime(1410))
	// wraps past midnight
	assert.Equal(t, "00:30", MinutesToTime(1470))
}

func TestCalculateEndTime(t *testing.T) {
	end, err := CalculateEndTime("10:00", 90)
	require.NoError(t, err)
	assert.Equal(t, "11:30", end)

	end, err = CalculateEndTime("09:15", 45)
	require.NoError(t, err)
	assert.Equal(t, "10:00", end)

	_, err = CalculateEndTime("not-a-time", 30)
	assert.Error(t, err)
}

func TestGenerateTimeSlots(t *testing.T) {
	slots, err := GenerateTimeSlots("09:00", "18:00")
	require.NoError(t, err)
	require.Len(t, slots, 18)
	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[0].EndTime)
	assert.Equal(t, "17:30", slots[17].StartTime)
	assert.Equal(t, "18:00", slots[17].EndTime)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestGenerateTimeSlotsDropsPartialTail(t *testing.T) {
	// 09:00-10:45 fits three full slots; the trailing 15 minutes is not
	// offered.
	slots, err := GenerateTimeSlots("09:00", "10:45")
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, "10:30", slots[2].EndTime)
}

func TestGridWindow(t *testing.T) {
	provider := &models.Provider{
		WorkingHours: []models.WorkingHours{
			{Weekday: 1, Open: "08:00", Close: "16:00"},
		},
	}

	open, close := GridWindow(provider, 1)
	assert.Equal(t, "08:00", open)
	assert.Equal(t, "16:00", close)

	// unconfigured weekday falls back to the default window
	open, close = GridWindow(provider, 3)
	assert.Equal(t, DefaultDayStart, open)
	assert.Equal(t, DefaultDayEnd, close)

	open, close = GridWindow(nil, 0)
	assert.Equal(t, DefaultDayStart, open)
	assert.Equal(t, DefaultDayEnd, close)
}
