package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/application/services"
	"github.com/DanielPopoola/crpt-document-client/internal/config"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/crpt"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/metrics"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/ratelimit"
	"github.com/DanielPopoola/crpt-document-client/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/crpt-document-client/internal/interfaces/rest/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting document gateway",
		"port", cfg.Server.Port,
		"endpoint", cfg.API.Endpoint,
	)

	limiter, err := ratelimit.New(cfg.Limiter, logger)
	if err != nil {
		logger.Error("failed to create rate limiter", "error", err)
		os.Exit(1)
	}
	logger.Info("rate limiter ready",
		"strategy", cfg.Limiter.Strategy,
		"request_limit", limiter.Limit(),
		"window", limiter.Window(),
	)

	mux := http.NewServeMux()

	var observer application.SubmissionObserver
	if cfg.Metrics.Enabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observer = metrics.New(registry)
		metrics.RegisterPermitsInUse(registry, limiter.InUse)
		mux.Handle("GET "+cfg.Metrics.Path, metrics.Handler(registry))
	}

	documentService := services.NewDocumentService(
		limiter,
		crpt.NewJSONSerializer(),
		crpt.NewDocumentClient(cfg.API),
		observer,
		logger,
	)

	h := handlers.NewHandlers(documentService, logger)
	h.RegisterRoutes(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.RequestTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// Permits still out are released on schedule, or all at once when the
	// timeout hits.
	limiterCtx, cancelLimiter := context.WithTimeout(context.Background(), cfg.Limiter.ShutdownTimeout)
	defer cancelLimiter()

	if err := limiter.Shutdown(limiterCtx); err != nil {
		logger.Warn("rate limiter shutdown cut short", "error", err)
	}

	logger.Info("server exited")
}
