// Package cli provides common initialization shared by cmd/autopay and
// cmd/renewal-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"autopay/internal/config"
	"autopay/internal/storage"
)

// SetupLogger initializes structured logging with default settings and sets
// it as the default logger.
func SetupLogger() *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitKV opens the durable key-value store, exiting the process on failure.
func InitKV(logger *slog.Logger, dbPath string) *storage.KV {
	kv, err := storage.NewKV(dbPath)
	if err != nil {
		logger.Error("Failed to initialize durable store", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return kv
}
