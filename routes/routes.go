package routes

import (
	"net/http"
	"time"

	"servana/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the customer-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("", hb.CreateBookingHandler)
		api.GET("", hb.ListMyBookingsHandler)
		api.POST("/:id/cancel", hb.CancelBookingHandler)
		api.POST("/:id/reschedule", hb.RescheduleBookingHandler)
	}
}

// RegisterProviderRoutes registers the provider-side booking management
// endpoints: lifecycle transitions and blocked-time maintenance.
func RegisterProviderRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/provider")
	{
		api.POST("/bookings/:id/confirm", hb.ConfirmBookingHandler)
		api.POST("/bookings/:id/start", hb.StartBookingHandler)
		api.POST("/bookings/:id/complete", hb.CompleteBookingHandler)
		api.POST("/bookings/:id/cancel", hb.ProviderCancelBookingHandler)

		api.POST("/blocked-times", hb.CreateBlockedTimeHandler)
		api.GET("/blocked-times", hb.ListBlockedTimesHandler)
		api.DELETE("/blocked-times/:id", hb.DeleteBlockedTimeHandler)
	}
}

// RegisterSearchRoutes registers provider discovery endpoints.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/search")
	{
		api.GET("/providers", hb.SearchProvidersHandler)
	}
	r.GET("/api/providers/:providerId/availability", hb.GetAvailabilityHandler)
}

// RegisterWebhookRoutes registers payment gateway callbacks. These sit
// outside the rate-limited groups since they are server-to-server.
func RegisterWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/webhooks/stripe", hb.StripeWebhookHandler)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

// CORSConfig is the cross-origin policy applied to the whole router.
func CORSConfig() cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowHeaders = []string{
		"Origin", "Content-Type", "Accept", "Authorization",
		"X-User-ID", "X-Provider-ID", "X-User-Latitude", "X-User-Longitude",
	}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
