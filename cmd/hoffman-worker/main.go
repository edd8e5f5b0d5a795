package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"hoffman/internal/backend"
	"hoffman/internal/cli"
	applog "hoffman/internal/log"
	"hoffman/internal/worker"
)

// hoffman-worker mirrors every stored ledger entry into the spreadsheet.
func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT")).
		WithComponent(applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	b, err := backend.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err)
		os.Exit(1)
	}
	if b.AMQP == nil {
		logger.Error("Broker unreachable", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		b.Close()
		os.Exit(1)
	}

	writer, err := backend.NewLedgerWriter(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize ledger mirror", "error", err)
		b.Close()
		os.Exit(1)
	}
	mirror := worker.NewMirrorWorker(b.Store, writer)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	logger.Info("Starting hoffman-worker",
		applog.FieldOperation, applog.OpStartup,
		"queue", cfg.AMQPQueue,
		"spreadsheet", cfg.GoogleSpreadsheetID != "")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return b.AMQP.ConsumeLedgerEvents(gctx, mirror.HandleLedgerEvent)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Ledger event consumption failed", "error", err)
		b.Close()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	if err := b.Close(); err != nil {
		logger.Error("Backend close error", "error", err)
	}
	logger.Info("Worker stopped", applog.FieldOperation, applog.OpShutdown)
}
