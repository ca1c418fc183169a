package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"homeledger/internal/amqp"
	"homeledger/internal/config"
	"homeledger/internal/log"
	gsheet "homeledger/internal/sheets/google"
	"homeledger/internal/storage"
	"homeledger/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.Config{
		Level:     log.LevelFromEnv(),
		Component: log.ComponentWorker,
	})
	log.SetDefault(logger)

	logger.Info("Starting homeledger-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	// The worker exists to consume events; unlike the API server it
	// cannot run without a broker.
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	store, err := storage.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sheetsClient, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer events.Close()

	exporter := worker.NewExportWorker(store, sheetsClient, sheetsClient)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.Consume(ctx, exporter)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
