package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/appwrite"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/config"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/handlers"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/logging"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/normalizer"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/ratelimit"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/server"
	"github.com/danparkr/nrfcloud-appwrite-webhook/internal/service"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize structured logging
	logger := logging.New(
		logging.ParseLevel(cfg.Logging.Level),
		cfg.Logging.Format,
	).With(logging.Service("nrfcloud-webhook"))
	logging.SetDefault(logger)

	slog.Info("Starting webhook receiver",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Logging.Level),
		slog.String("log_format", cfg.Logging.Format),
	)
	if *configPath != "" {
		slog.Info("Loaded configuration", slog.String("config_path", *configPath))
	}

	// The service still starts without the collection identity; the handler
	// answers HTTP 500 per request until it is configured.
	if err := cfg.Validate(); err != nil {
		slog.Warn("Incomplete store configuration, requests will fail", slog.String("error", err.Error()))
	}
	if cfg.Webhook.Secret != "" {
		slog.Info("Webhook signature verification enforced")
	} else {
		slog.Warn("Webhook signature verification disabled (no secret configured)")
	}

	// Initialize rate limiter
	var rateLimiter ratelimit.RateLimiter
	if cfg.Redis.Enabled && cfg.Ingestion.RateLimitEnabled {
		limiter, err := ratelimit.NewRedisRateLimiter(
			cfg.Redis.URL,
			cfg.Ingestion.RateLimitRequests,
			cfg.Ingestion.RateLimitWindow,
		)
		if err != nil {
			slog.Warn("Failed to initialize Redis rate limiter, continuing without rate limiting",
				slog.String("error", err.Error()))
			rateLimiter = &ratelimit.NoOpRateLimiter{}
		} else {
			rateLimiter = limiter
			slog.Info("Rate limiting enabled",
				slog.Int("requests", cfg.Ingestion.RateLimitRequests),
				slog.String("window", cfg.Ingestion.RateLimitWindow.String()))
		}
	} else {
		rateLimiter = &ratelimit.NoOpRateLimiter{}
	}
	defer rateLimiter.Close()

	// Initialize Appwrite document store client
	store := appwrite.NewClient(appwrite.Config{
		Endpoint:  cfg.Appwrite.Endpoint,
		ProjectID: cfg.Appwrite.ProjectID,
		APIKey:    cfg.Appwrite.APIKey,
		Timeout:   cfg.Appwrite.Timeout,
	})
	slog.Info("Appwrite client configured",
		slog.String("endpoint", cfg.Appwrite.Endpoint),
		slog.String("database_id", cfg.Appwrite.DatabaseID),
		slog.String("collection_id", cfg.Appwrite.CollectionID),
	)

	// Wire the dispatch pipeline and HTTP surface
	dispatcher := service.NewDispatcher(store, normalizer.New(), cfg.Appwrite.DatabaseID, cfg.Appwrite.CollectionID)
	handler := handlers.NewWebhookHandler(dispatcher, rateLimiter, cfg)
	router := server.NewRouter(handler)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		slog.Info("Webhook receiver listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server stopped")
}
