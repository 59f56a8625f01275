package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"servana/config"
	"servana/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"
)

// StripeWebhookHandler verifies and processes Stripe events. A succeeded
// payment intent confirms its booking via the metadata booking id.
func (hb *HandlerBundle) StripeWebhookHandler(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 65536))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	event, err := webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), config.AppConfig.StripeWebhookSecret)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
		return
	}

	logger := utils.GetLogger()
	switch event.Type {
	case "payment_intent.succeeded":
		var intent struct {
			ID       string            `json:"id"`
			Metadata map[string]string `json:"metadata"`
		}
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			logger.Error("failed to decode payment intent event", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}
		bookingID := intent.Metadata["booking_id"]
		if bookingID == "" {
			logger.Warn("payment intent without booking metadata", zap.String("intentID", intent.ID))
			break
		}
		if err := hb.BookingSvc.MarkBookingPaid(c.Request.Context(), bookingID); err != nil {
			logger.Error("failed to confirm paid booking",
				zap.String("bookingID", bookingID), zap.Error(err))
			// Non-2xx makes Stripe retry the delivery.
			c.JSON(http.StatusInternalServerError, gin.H{"error": "booking update failed"})
			return
		}
	default:
		logger.Debug("ignoring stripe event", zap.String("type", string(event.Type)))
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
