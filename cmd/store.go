package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/smdata-dev/smdata/internal/config"
	"github.com/smdata-dev/smdata/internal/logger"
	"github.com/smdata-dev/smdata/internal/storage"
)

// openStore opens the submission store selected by cfg. The returned close
// function releases the underlying database handle.
func openStore(ctx context.Context, cfg *config.AppConfig, sysLogger *slog.Logger) (storage.SubmissionStore, func(), error) {
	if cfg.UsesPostgres() {
		pool, err := storage.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("opening postgres: %w", err)
		}
		sysLogger.Info("using postgres submission store")
		return storage.NewPostgresSubmissionStore(pool), pool.Close, nil
	}

	if err := os.MkdirAll(cfg.DataDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating data directory %s: %w", cfg.DataDir, err)
	}
	db, fresh, err := storage.NewSQLiteDB(cfg.SQLitePath())
	if err != nil {
		return nil, nil, fmt.Errorf("opening sqlite: %w", err)
	}
	sysLogger.Info("using sqlite submission store", "path", cfg.SQLitePath(), "fresh", fresh)
	return storage.NewSQLiteSubmissionStore(db), func() { _ = db.Close() }, nil
}

// cliLogger returns the logger used by short-lived commands: the system log
// when it can be opened, otherwise a discarding logger.
func cliLogger(cfg *config.AppConfig) *slog.Logger {
	l, err := newSystemLogger(cfg)
	if err != nil {
		return logger.NewDiscard()
	}
	return l
}

func newSystemLogger(cfg *config.AppConfig, mirrors ...slog.Handler) (*slog.Logger, error) {
	return logger.NewSystemLogger(cfg.LogDir(), logger.Options{
		Level:   cfg.SlogLevel(),
		Stdout:  cfg.LogStdout,
		Mirrors: mirrors,
	})
}
