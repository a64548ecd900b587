// Package cli provides process bootstrap helpers for cmd/khaatabook.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"khaatabook/internal/config"
	applog "khaatabook/internal/log"
	"khaatabook/internal/sheets"
	"khaatabook/internal/sheets/google"
)

// SetupLogger initializes structured logging at the given level and sets it
// as the default logger. Unknown levels fall back to info.
func SetupLogger(level string) *applog.Logger {
	cfg := applog.DefaultConfig()
	cfg.Component = applog.ComponentApp
	if lvl, err := applog.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fields := applog.NewFields().
			WithError(err).
			WithErrorType(applog.ErrorTypeConfiguration)
		logger.WithComponent(applog.ComponentConfig).Error("Configuration validation failed", fields.ToSlice()...)
		os.Exit(1)
	}
	return cfg
}

// InitPublisher builds the Google Sheets publisher when a spreadsheet is
// configured. It returns nil when publishing is disabled.
func InitPublisher(ctx context.Context, cfg *config.Config, logger *applog.Logger) (sheets.LedgerPublisher, error) {
	if !cfg.SheetsEnabled() {
		logger.Info("Google Sheets publishing disabled")
		return nil, nil
	}
	client, err := google.New(ctx, google.Config{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		SheetName:       cfg.GoogleSheetName,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	}, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("Google Sheets publishing enabled", "spreadsheet_id", cfg.GoogleSpreadsheetID, "sheet", cfg.GoogleSheetName)
	return client, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
