// Package backend wires storage, messaging and the spreadsheet mirror from
// application configuration.
package backend

import (
	"context"
	"errors"
	"fmt"

	"hoffman/internal/amqp"
	"hoffman/internal/config"
	applog "hoffman/internal/log"
	"hoffman/internal/services"
	"hoffman/internal/sheets"
	gsheet "hoffman/internal/sheets/google"
	"hoffman/internal/sheets/memory"
	"hoffman/internal/storage"
)

// Backend holds the long-lived resources shared by handlers and workers.
type Backend struct {
	Store *storage.Store
	// AMQP is nil when AMQP_URL is unset or the broker was unreachable.
	AMQP *amqp.Client
}

// StoreConfig maps application configuration to storage configuration.
func StoreConfig(cfg *config.Config) storage.Config {
	return storage.Config{
		Dialect: storage.Dialect(cfg.DataBackend),
		DSN:     cfg.DSN(),
	}
}

// Open connects to the database and, when configured, the broker. A broker
// failure is logged and the backend continues without publishing.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*Backend, error) {
	if cfg == nil {
		return nil, errors.New("app config is nil")
	}
	logger = logger.WithComponent(applog.ComponentStorage)

	store, err := storage.Open(ctx, StoreConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DataBackend, err)
	}
	logger.Info("Storage ready", "backend", cfg.DataBackend)

	b := &Backend{Store: store}
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without ledger events", "error", err)
		} else {
			logger.Info("Initialized AMQP client", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
			b.AMQP = client
		}
	}
	return b, nil
}

// Publisher returns the ledger event publisher, or nil when messaging is off.
func (b *Backend) Publisher() services.LedgerPublisher {
	if b.AMQP == nil {
		return nil
	}
	return b.AMQP
}

// Ready reports whether the database answers.
func (b *Backend) Ready(ctx context.Context) error {
	return b.Store.Ping(ctx)
}

func (b *Backend) Close() error {
	var errs []error
	if b.AMQP != nil {
		errs = append(errs, b.AMQP.Close())
	}
	errs = append(errs, b.Store.Close())
	return errors.Join(errs...)
}

// NewLedgerWriter returns the Google Sheets mirror when a spreadsheet id is
// configured, otherwise an in-memory writer.
func NewLedgerWriter(ctx context.Context, cfg *config.Config, logger *applog.Logger) (sheets.LedgerWriter, error) {
	if cfg.GoogleSpreadsheetID == "" {
		logger.Warn("GOOGLE_SPREADSHEET_ID not set, ledger rows are kept in memory only")
		return memory.New(), nil
	}
	client, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
	if err != nil {
		return nil, fmt.Errorf("initialize Google Sheets client: %w", err)
	}
	return client, nil
}
