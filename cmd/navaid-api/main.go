package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/couchcryptid/navaid-service/internal/adapter/datadir"
	httpadapter "github.com/couchcryptid/navaid-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/navaid-service/internal/adapter/kafka"
	"github.com/couchcryptid/navaid-service/internal/config"
	"github.com/couchcryptid/navaid-service/internal/observability"
	"github.com/couchcryptid/navaid-service/internal/pipeline"
	"github.com/couchcryptid/navaid-service/internal/registry"
	"github.com/couchcryptid/navaid-service/internal/resolve"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	store := registry.NewStore()
	loader := datadir.NewLoader(cfg.DataDir, store, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A failed initial load is not fatal: /readyz stays red until a reload
	// succeeds.
	if _, err := loader.Load(ctx); err != nil {
		logger.Error("initial registry load failed", "dir", cfg.DataDir, "error", err)
	}

	resolver := resolve.New(store)

	srv := httpadapter.NewServer(cfg.HTTPAddr, httpadapter.Deps{
		Resolver:       resolver,
		Registry:       store,
		Reloader:       loader,
		Ready:          loader,
		Metrics:        metrics,
		Logger:         logger,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	var wg sync.WaitGroup

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	if cfg.DataWatch {
		watcher := datadir.NewWatcher(cfg.DataDir, cfg.ReloadDebounce, loader, nil, logger)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := watcher.Run(ctx); err != nil {
				logger.Error("data directory watcher error", "error", err)
			}
		}()
	}

	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(resolver, metrics, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka stream resolution disabled")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	wg.Wait()

	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
