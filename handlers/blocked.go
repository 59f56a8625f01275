package handlers

import (
	"net/http"

	"servana/models"

	"github.com/gin-gonic/gin"
)

// CreateBlockedTimeHandler records a provider unavailability window.
func (hb *HandlerBundle) CreateBlockedTimeHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	var block models.BlockedTime
	if err := c.ShouldBindJSON(&block); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := hb.BookingSvc.CreateBlockedTime(c.Request.Context(), provID, &block); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, block)
}

// ListBlockedTimesHandler returns the provider's unavailability windows.
func (hb *HandlerBundle) ListBlockedTimesHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	blocks, err := hb.BookingSvc.ListBlockedTimes(c.Request.Context(), provID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blockedTimes": blocks})
}

// DeleteBlockedTimeHandler removes a provider unavailability window.
func (hb *HandlerBundle) DeleteBlockedTimeHandler(c *gin.Context) {
	provID, ok := providerID(c)
	if !ok {
		return
	}
	if err := hb.BookingSvc.DeleteBlockedTime(c.Request.Context(), provID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
