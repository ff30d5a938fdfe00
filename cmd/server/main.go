// Package main is the entry point for the review hub API server.
//
// MAIN PACKAGE IN GO:
// main() stays minimal. Its job is to:
// 1. Read configuration (.env file, then environment variables)
// 2. Create the process-wide dependencies (logger, object store)
// 3. Start the server
//
// All actual logic lives in internal/: config, server, handler, service,
// access, repository, storage.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/sakif/review-hub/internal/config"
	"github.com/sakif/review-hub/internal/server"
	"github.com/sakif/review-hub/internal/storage"
	"github.com/sakif/review-hub/internal/storage/disk"
	"github.com/sakif/review-hub/internal/storage/s3"
)

func main() {
	// A missing .env is normal in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// === LOGGING ===
	// Human-readable text while developing, JSON in production so the log
	// pipeline can index every attribute.
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	// === DATABASE DIRECTORY ===
	// sqlite creates the file but not its parent directory.
	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create database directory",
				slog.String("dir", dir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
	}

	// === OBJECT STORE ===
	files, err := newObjectStore(context.Background(), cfg)
	if err != nil {
		logger.Error("failed to set up object storage",
			slog.String("driver", cfg.StorageDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	srv, err := server.New(cfg, logger, files)
	if err != nil {
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until SIGINT/SIGTERM.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.IsProd() {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func newObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, error) {
	switch cfg.StorageDriver {
	case config.StorageS3:
		return s3.New(ctx, s3.Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return disk.New(cfg.StorageDir, cfg.PublicBaseURL+"/files")
	}
}
