package main

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/adapter/csvfile"
	httpadapter "github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/adapter/http"
	kafkaadapter "github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/adapter/kafka"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/config"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/observability"
	"github.com/ThiagoMachado211/mapa-calor-escolas-mg/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real environment variables take precedence.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Error("failed to read .env", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	loader := csvfile.NewCachedLoader(
		csvfile.NewLoader(logger, metrics),
		cfg.CacheMaxEntries,
		metrics,
		logger,
		csvfile.WithRevalidation(cfg.CacheRevalidateInterval),
	)

	// Selection events are feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.EventPublisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("selection events enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("selection events disabled")
	}

	dash := pipeline.New(loader, cfg.DataPath, publisher, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dash.Warm(ctx); err != nil {
		logger.Error("failed to load dataset", "path", cfg.DataPath, "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg, dash, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
