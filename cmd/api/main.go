package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmaxwell/rasterfx/internal/api"
	"github.com/dmaxwell/rasterfx/internal/bridge"
	"github.com/dmaxwell/rasterfx/internal/config"
	"github.com/dmaxwell/rasterfx/internal/queue"
	"github.com/dmaxwell/rasterfx/internal/raster"
	"github.com/dmaxwell/rasterfx/internal/ratelimit"
	"github.com/dmaxwell/rasterfx/internal/storage"
	"github.com/dmaxwell/rasterfx/internal/store"
	"github.com/dmaxwell/rasterfx/internal/telemetry"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.Lmsgprefix)

	if err := godotenv.Load(); err != nil {
		logger.Println("no .env file found")
	}
	cfg := config.Load()

	if err := raster.Startup(); err != nil {
		logger.Fatalf("raster codec startup failed: %v", err)
	}
	defer raster.Shutdown()

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), telemetry.TraceConfig{
		ServiceName:  "rasterfx-api",
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Fatalf("tracing setup failed: %v", err)
	}

	queueClient := queue.NewClient(cfg.Queue.RedisClientOpt(), cfg.Queue.Name)
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Printf("queue client close error: %v", err)
		}
	}()

	var jobStore store.JobStore
	if cfg.Database.DSN != "" {
		pgStore, err := store.NewPostgresJobStore(context.Background(), cfg.Database.DSN)
		if err != nil {
			logger.Printf("postgres unavailable, using in-memory job store: %v", err)
			jobStore = store.NewMemoryJobStore()
		} else {
			defer pgStore.Close()
			jobStore = pgStore
		}
	} else {
		jobStore = store.NewMemoryJobStore()
	}

	var objectStore *storage.Client
	storageClient, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Printf("object storage unavailable: %v", err)
	} else {
		objectStore = storageClient
	}

	var rateLimiter api.RateLimiter
	if cfg.RateLimit.Capacity > 0 {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Queue.RedisAddr,
			Password: cfg.Queue.RedisPassword,
			DB:       cfg.Queue.RedisDB,
		})
		limiter, err := ratelimit.NewRedisTokenBucket(redisClient, cfg.RateLimit.Capacity, cfg.RateLimit.Window, "")
		if err != nil {
			logger.Printf("rate limiter disabled: %v", err)
		} else {
			rateLimiter = limiter
		}
	}

	effectBridge := bridge.New(logger, bridge.Options{
		Workers:    cfg.Bridge.Workers,
		QueueDepth: cfg.Bridge.QueueDepth,
	})
	defer effectBridge.Close()

	app := api.NewServer(logger, effectBridge, queueClient, jobStore, storageOrNil(objectStore), api.Options{
		PresignTTL:    cfg.API.PresignTTL,
		ApplyTimeout:  cfg.API.ApplyTimeout,
		RateLimiter:   rateLimiter,
		EnableTracing: cfg.Telemetry.Exporter != "" && cfg.Telemetry.Exporter != "none",
	})

	httpServer := &http.Server{
		Addr:         cfg.API.Addr,
		Handler:      app.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Printf("listening on %s bridge_workers=%d", cfg.API.Addr, cfg.Bridge.Workers)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Println("shutting down")
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Printf("tracing shutdown failed: %v", err)
	}
}

// storageOrNil keeps a typed nil *storage.Client from masquerading as a
// non-nil interface inside the API server.
func storageOrNil(c *storage.Client) api.ObjectStorage {
	if c == nil {
		return nil
	}
	return c
}
