package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"hoffman/internal/auth"
	"hoffman/internal/backend"
	"hoffman/internal/cli"
	apphttp "hoffman/internal/http"
	applog "hoffman/internal/log"
	"hoffman/internal/services"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	cfg := cli.LoadAndValidateConfig(logger)

	b, err := backend.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	srv, err := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Auth:               services.NewAuthService(auth.NewPasswordProvider(b.Store, 0), b.Store),
		Sessions:           auth.NewSessionManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies),
		Settings:           services.NewSettingsService(b.Store),
		Ledger:             services.NewLedgerService(b.Store, b.Publisher()),
		Panel:              services.NewPanelService(b.Store),
		Family:             services.NewFamilyService(b.Store),
		Ready:              b.Ready,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		PanelCacheTTL:      cfg.PanelCacheTTL,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", "error", err)
		b.Close()
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := b.Close(); err != nil {
			logger.Error("Backend close error", "error", err)
		}
	})

	logger.Info("Starting hoffman server",
		applog.FieldOperation, applog.OpStartup,
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"ledger_events", b.AMQP != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully", applog.FieldOperation, applog.OpShutdown)
}
