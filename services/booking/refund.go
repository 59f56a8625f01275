package booking

// RefundAmountCents maps the time remaining before a booking to the refund
// owed on cancellation:
//
//	>= 24h  full refund
//	2h-24h  50%
//	< 2h    none
//
// Both boundaries are inclusive to the more generous tier.
func RefundAmountCents(hoursUntilBooking float64, totalAmountCents int64) int64 {
	switch {
	case hoursUntilBooking >= 24:
		return totalAmountCents
	case hoursUntilBooking >= 2:
		return totalAmountCents / 2
	default:
		return 0
	}
}
