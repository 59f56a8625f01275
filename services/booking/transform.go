package booking

import "servana/models"

// ToBookingResult flattens a booking into the DTO returned by every
// lifecycle operation. Nested provider/service views degrade gracefully
// when relations were not loaded: their id fields always come from the
// booking's own foreign keys.
func ToBookingResult(b *models.Booking) models.BookingResult {
	result := models.BookingResult{
		ID:                    b.ID,
		BookingDate:           b.Date,
		StartTime:             b.StartTime,
		EndTime:               b.EndTime,
		DurationMinutes:       b.DurationMinutes,
		Status:                b.Status,
		PaymentStatus:         b.PaymentStatus,
		TotalAmountCents:      b.TotalAmountCents,
		PlatformFeeCents:      b.PlatformFeeCents,
		ProviderEarningsCents: b.ProviderEarningsCents,
		RefundAmountCents:     b.RefundAmountCents,
		Notes:                 b.Notes,
		Provider:              models.BookingResultProvider{ID: b.ProviderID},
		Service:               models.BookingResultService{ID: b.ServiceID},
	}

	if b.Provider != nil {
		result.Provider.BusinessName = b.Provider.BusinessName
		result.Provider.BusinessAddress = b.Provider.BusinessAddress
		result.Provider.BusinessPhone = b.Provider.BusinessPhone
	}
	if b.Service != nil {
		result.Service.Name = b.Service.Name
		result.Service.DurationMinutes = b.Service.DurationMinutes
		result.Service.PriceCents = b.Service.PriceCents
	}
	return result
}
