package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/dmaxwell/rasterfx/internal/config"
	"github.com/dmaxwell/rasterfx/internal/raster"
	"github.com/dmaxwell/rasterfx/internal/storage"
	"github.com/dmaxwell/rasterfx/internal/store"
	"github.com/dmaxwell/rasterfx/internal/telemetry"
	"github.com/dmaxwell/rasterfx/internal/webhook"
	"github.com/dmaxwell/rasterfx/internal/worker"
	"github.com/joho/godotenv"
)

func main() {
	logger := log.New(os.Stdout, "[worker] ", log.LstdFlags|log.Lmsgprefix)

	if err := godotenv.Load(); err != nil {
		logger.Println("no .env file found")
	}
	cfg := config.Load()

	if err := raster.Startup(); err != nil {
		logger.Fatalf("raster codec startup failed: %v", err)
	}
	defer raster.Shutdown()

	shutdownTracing, err := telemetry.SetupTracing(context.Background(), telemetry.TraceConfig{
		ServiceName:  "rasterfx-worker",
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	}, logger)
	if err != nil {
		logger.Fatalf("tracing setup failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Printf("tracing shutdown failed: %v", err)
		}
	}()

	storageClient, err := storage.NewClient(storage.Config{
		Endpoint: cfg.Storage.Endpoint,
		Access:   cfg.Storage.AccessKey,
		Secret:   cfg.Storage.SecretKey,
		Bucket:   cfg.Storage.Bucket,
		UseSSL:   cfg.Storage.UseSSL,
	})
	if err != nil {
		logger.Fatalf("storage client failed: %v", err)
	}

	ensureCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := storageClient.EnsureBucket(ensureCtx); err != nil {
		logger.Printf("ensure bucket failed (continuing): %v", err)
	}
	cancel()

	var jobStore store.JobStore
	var usageStore store.UsageStore
	if cfg.Database.DSN != "" {
		pgStore, err := store.NewPostgresJobStore(context.Background(), cfg.Database.DSN)
		if err != nil {
			logger.Printf("postgres unavailable, using in-memory job store: %v", err)
			jobStore = store.NewMemoryJobStore()
		} else {
			defer pgStore.Close()
			jobStore = pgStore
			usageStore = pgStore
		}
	} else {
		jobStore = store.NewMemoryJobStore()
	}

	webhookClient := webhook.NewClient(webhook.Config{
		SigningSecret:  cfg.Webhook.SigningSecret,
		Timeout:        cfg.Webhook.Timeout,
		MaxAttempts:    cfg.Webhook.MaxAttempts,
		InitialBackoff: cfg.Webhook.InitialBackoff,
		MaxBackoff:     cfg.Webhook.MaxBackoff,
	})

	logger.Printf(
		"starting worker concurrency=%d max_active_jobs=%d bridge_workers=%d queue=%s redis=%s",
		cfg.Worker.Concurrency,
		cfg.Worker.MaxActiveJobs,
		cfg.Bridge.Workers,
		cfg.Queue.Name,
		cfg.Queue.RedisAddr,
	)

	srv, err := worker.NewServer(
		logger,
		cfg.Queue,
		cfg.Worker,
		cfg.Bridge,
		storageClient,
		webhookClient,
		jobStore,
		usageStore,
	)
	if err != nil {
		logger.Fatalf("worker setup failed: %v", err)
	}

	go func() {
		metricsAddr := ":9090"
		logger.Printf("metrics listening on %s", metricsAddr)
		mux := http.NewServeMux()
		mux.Handle("/metrics", srv.MetricsHandler())
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Printf("metrics server failed: %v", err)
		}
	}()

	if err := srv.Run(); err != nil {
		logger.Fatalf("worker failed: %v", err)
	}
}
