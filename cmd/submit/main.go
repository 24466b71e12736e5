// Command submit sends documents read from JSON or YAML files to the
// registration API, sharing one rate limit across all of them.
//
//	submit [-signature S] [-concurrency N] file...
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/DanielPopoola/crpt-document-client/internal/application"
	"github.com/DanielPopoola/crpt-document-client/internal/application/services"
	"github.com/DanielPopoola/crpt-document-client/internal/config"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/crpt"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/loader"
	"github.com/DanielPopoola/crpt-document-client/internal/infrastructure/ratelimit"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	signature := flag.String("signature", "", "detached signature passed with every document")
	concurrency := flag.Int("concurrency", 0, "documents in flight at once (default submit.concurrency)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return 2
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		return 1
	}
	if *concurrency > 0 {
		cfg.Submit.Concurrency = *concurrency
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	entries, err := loader.LoadFiles(flag.Args())
	if err != nil {
		logger.Error("failed to load documents", "error", err)
		return 1
	}

	limiter, err := ratelimit.New(cfg.Limiter, logger)
	if err != nil {
		logger.Error("failed to create rate limiter", "error", err)
		return 1
	}

	documentService := services.NewDocumentService(
		limiter,
		crpt.NewJSONSerializer(),
		crpt.NewDocumentClient(cfg.API),
		nil,
		logger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("submitting documents",
		"count", len(entries),
		"concurrency", cfg.Submit.Concurrency,
		"request_limit", limiter.Limit(),
		"window", limiter.Window(),
	)

	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(cfg.Submit.Concurrency)

	for _, entry := range entries {
		g.Go(func() error {
			status, err := documentService.Submit(ctx, entry.Document, *signature)
			switch {
			case err != nil:
				failed.Add(1)
				logger.Error("document not submitted",
					"source", entry.String(),
					"outcome", application.CategorizeError(err),
					"error", err,
				)
			case status < 200 || status > 299:
				failed.Add(1)
				logger.Warn("document rejected", "source", entry.String(), "status", status)
			default:
				logger.Info("document accepted", "source", entry.String(), "status", status)
			}
			return nil
		})
	}
	_ = g.Wait()

	// Nothing else will be submitted, so pending releases can be dropped.
	shutdownCtx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = limiter.Shutdown(shutdownCtx)

	if n := failed.Load(); n > 0 {
		logger.Error("batch finished with failures", "failed", n, "total", len(entries))
		return 1
	}

	logger.Info("batch finished", "total", len(entries))
	return 0
}
