package booking

import (
	"context"
	"fmt"

	bookingRepo "servana/database/repository/booking"
)

// Overlaps reports whether the half-open intervals [aStart,aEnd) and
// [bStart,bEnd) intersect. Adjacent intervals do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ConflictDetector answers whether a candidate interval collides with an
// occupying booking for a provider on a date.
type ConflictDetector struct {
	Bookings bookingRepo.BookingRepository
}

// IsSlotAvailable fetches the provider's occupying bookings for the date
// (optionally excluding one booking id, used during reschedule) and tests
// the candidate [startMin,endMin) against each booked interval. Blocked
// times are a separate check; callers of the creation path check both.
func (d *ConflictDetector) IsSlotAvailable(ctx context.Context, providerID, date string, startMin, endMin int, excludeBookingID string) (bool, error) {
	existing, err := d.Bookings.FindOccupying(ctx, providerID, date, excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch bookings for conflict check: %w", err)
	}
	for _, b := range existing {
		if Overlaps(startMin, endMin, b.StartMinute, b.StartMinute+b.DurationMinutes) {
			return false, nil
		}
	}
	return true, nil
}
