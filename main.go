package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servana/config"
	"servana/cron"
	"servana/database"
	auditRepo "servana/database/repository/audit"
	blockedRepo "servana/database/repository/blocked"
	bookingRepoPkg "servana/database/repository/booking"
	catalogRepo "servana/database/repository/catalog"
	"servana/handlers"
	"servana/middleware"
	"servana/routes"
	"servana/services/booking"
	"servana/services/notification"
	"servana/services/payments"
	"servana/services/search"
	"servana/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.New(routes.CORSConfig()))
	router.Use(middleware.RateLimitMiddleware())
	router.Use(middleware.GeolocationMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	blockedTimeRepo := blockedRepo.NewMongoBlockedTimeRepo()
	serviceRepo := catalogRepo.NewMongoServiceRepo()
	providerRepo := catalogRepo.NewMongoProviderRepo()
	auditLogRepo := auditRepo.NewMongoAuditRepo()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := bookingRepo.EnsureIndexes(ctx); err != nil {
			logger.Fatal("failed to ensure booking indexes", zap.Error(err))
		}
		cancel()
	}

	// task queue client for deferred lifecycle sweeps.
	taskClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})
	defer taskClient.Close()

	// services.
	notifier := notification.NewRedisNotificationService(utils.GetCacheClient())

	bookingService := &booking.DefaultBookingService{
		Bookings:  bookingRepo,
		Blocked:   blockedTimeRepo,
		Services:  serviceRepo,
		Providers: providerRepo,
		Audit:     auditLogRepo,
		Notifier:  notifier,
		Payments:  payments.NewStripeProcessor(),
		Cache:     utils.GetCacheClient(),
		Tasks:     taskClient,
	}

	searchService := &search.DefaultSearchService{
		Providers: providerRepo,
		Cache:     utils.GetCacheClient(),
	}

	cron.InitLifecycleWorker(bookingService)

	handlerBundle := &handlers.HandlerBundle{
		BookingSvc: bookingService,
		SearchSvc:  searchService,
	}

	routes.RegisterHealthRoute(router)
	routes.RegisterBookingRoutes(router, handlerBundle)
	routes.RegisterProviderRoutes(router, handlerBundle)
	routes.RegisterSearchRoutes(router, handlerBundle)
	routes.RegisterWebhookRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("port", config.AppConfig.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
