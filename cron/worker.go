package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"servana/config"
	"servana/services/booking"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

// InitLifecycleWorker runs the async worker that sweeps bookings through
// their time-driven transitions: expiring unpaid pendings at their start
// time and force-completing overdue in-progress bookings.
func InitLifecycleWorker(bookingSvc booking.BookingService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(booking.TaskBookingExpire, handleLifecycleTask(bookingSvc.ExpirePending))
	mux.HandleFunc(booking.TaskBookingComplete, handleLifecycleTask(bookingSvc.CompleteOverdue))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Periodic backstop behind the deferred tasks: catches bookings whose
	// enqueue failed or whose task was lost.
	go runPeriodicSweep(bookingSvc)

	// Start async worker with retry logic
	go func() {
		log.Println("[LifecycleWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[LifecycleWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[LifecycleWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleLifecycleTask(sweep func(ctx context.Context, bookingID string) error) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p booking.LifecycleTaskPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			log.Printf("[LifecycleWorker] invalid payload for %s: %v", task.Type(), err)
			return err
		}
		if err := sweep(ctx, p.BookingID); err != nil {
			log.Printf("[LifecycleWorker] %s failed for booking %s: %v", task.Type(), p.BookingID, err)
			return err
		}
		return nil
	}
}

func runPeriodicSweep(bookingSvc booking.BookingService) {
	interval := time.Duration(config.AppConfig.SweepIntervalMin) * time.Minute
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if err := bookingSvc.SweepLifecycle(ctx); err != nil {
			log.Printf("[LifecycleWorker] sweep failed: %v", err)
		}
		cancel()
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[LifecycleWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
