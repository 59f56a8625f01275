package handlers

import (
	"net/http"

	"servana/services/booking"
	"servana/services/search"

	"github.com/gin-gonic/gin"
)

// HandlerBundle carries the wired services for all HTTP handlers.
type HandlerBundle struct {
	BookingSvc booking.BookingService
	SearchSvc  search.SearchService
}

// Identity headers set by the API gateway after authentication.
const (
	userIDHeader     = "X-User-ID"
	providerIDHeader = "X-Provider-ID"
)

func customerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(userIDHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return "", false
	}
	return id, true
}

func providerID(c *gin.Context) (string, bool) {
	id := c.GetHeader(providerIDHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing provider identity"})
		return "", false
	}
	return id, true
}

// statusForError maps the booking error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	switch booking.KindOf(err) {
	case booking.KindNotFound:
		return http.StatusNotFound
	case booking.KindBadRequest:
		return http.StatusBadRequest
	case booking.KindConflict:
		return http.StatusConflict
	case booking.KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}
