package handlers

import (
	"net/http"

	"servana/models"

	"github.com/gin-gonic/gin"
)

// CreateBookingHandler books a slot for the authenticated customer.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	custID, ok := customerID(c)
	if !ok {
		return
	}
	var input models.CreateBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := hb.BookingSvc.CreateBooking(c.Request.Context(), custID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// CancelBookingHandler cancels the customer's own booking.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	custID, ok := customerID(c)
	if !ok {
		return
	}
	input := models.CancelBookingInput{BookingID: c.Param("id")}
	// Body is optional; it may carry a cancellation reason.
	_ = c.ShouldBindJSON(&input)
	input.BookingID = c.Param("id")

	result, err := hb.BookingSvc.CancelBooking(c.Request.Context(), custID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RescheduleBookingHandler moves the customer's booking to a new slot.
func (hb *HandlerBundle) RescheduleBookingHandler(c *gin.Context) {
	custID, ok := customerID(c)
	if !ok {
		return
	}
	var input models.RescheduleBookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	input.BookingID = c.Param("id")

	result, err := hb.BookingSvc.RescheduleBooking(c.Request.Context(), custID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListMyBookingsHandler returns the customer's bookings, newest first.
func (hb *HandlerBundle) ListMyBookingsHandler(c *gin.Context) {
	custID, ok := customerID(c)
	if !ok {
		return
	}
	results, err := hb.BookingSvc.ListCustomerBookings(c.Request.Context(), custID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": results})
}

// GetAvailabilityHandler returns the slot grid for a provider/service/date.
func (hb *HandlerBundle) GetAvailabilityHandler(c *gin.Context) {
	provID := c.Param("providerId")
	serviceID := c.Query("serviceId")
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date is required"})
		return
	}
	slots, err := hb.BookingSvc.GetAvailability(c.Request.Context(), provID, serviceID, date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providerId": provID, "date": date, "slots": slots})
}

// ConfirmBookingHandler is the provider accepting a pending booking.
func (hb *HandlerBundle) ConfirmBookingHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	if err := hb.BookingSvc.ConfirmBooking(c.Request.Context(), provID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

// StartBookingHandler moves a confirmed booking into progress.
func (hb *HandlerBundle) StartBookingHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	if err := hb.BookingSvc.StartBooking(c.Request.Context(), provID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "in_progress"})
}

// CompleteBookingHandler finishes an in-progress booking.
func (hb *HandlerBundle) CompleteBookingHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	if err := hb.BookingSvc.CompleteBooking(c.Request.Context(), provID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// ProviderCancelBookingHandler cancels on the provider's behalf; the refund
// follows the time-based tiers.
func (hb *HandlerBundle) ProviderCancelBookingHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	result, err := hb.BookingSvc.CancelByProvider(c.Request.Context(), provID, c.Param("id"), body.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
