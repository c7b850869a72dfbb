// Package logger provides the structured slog logger used across the
// application. All logs are written in JSON format.
//
// Log files are organized as:
//
//	<logDir>/system.log         application-level events, rotated by size
//	<logDir>/system-<ts>.log.gz rotated backups
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options tunes the system log writer.
type Options struct {
	Level slog.Level
	// Stdout mirrors every record to stdout as well as the log file.
	Stdout bool
	// MaxSizeMB is the size at which system.log is rotated. Zero means 50.
	MaxSizeMB int
	// MaxBackups is the number of rotated files kept. Zero means 5.
	MaxBackups int
	// Mirrors receive every record the file handler accepts (e.g. an
	// OpenTelemetry log bridge).
	Mirrors []slog.Handler
}

// NewSystemLogger creates a JSON slog.Logger that writes to <logDir>/system.log.
// The directory is created if it does not exist.
func NewSystemLogger(logDir string, opts Options) (*slog.Logger, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	var w io.Writer = newRotatingFile(filepath.Join(logDir, "system.log"), opts)
	if opts.Stdout {
		w = io.MultiWriter(w, os.Stdout)
	}

	var handler slog.Handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level})
	if len(opts.Mirrors) > 0 {
		handlers := []slog.Handler{handler}
		gate := minLevel(opts.Level)
		for _, m := range opts.Mirrors {
			handlers = append(handlers, slogmulti.Pipe(gate).Handler(m))
		}
		handler = slogmulti.Fanout(handlers...)
	}
	return slog.New(handler), nil
}

// minLevel keeps records below level away from a mirror so the file
// handler's level applies to every destination.
func minLevel(level slog.Level) slogmulti.Middleware {
	return slogmulti.NewEnabledInlineMiddleware(
		func(ctx context.Context, l slog.Level, next func(context.Context, slog.Level) bool) bool {
			return l >= level && next(ctx, l)
		},
	)
}

// NewDiscard returns a logger that drops every record. Used by CLI commands
// that do not need a log file.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newRotatingFile(path string, opts Options) *lumberjack.Logger {
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 50
	}
	maxBackups := opts.MaxBackups
	if maxBackups <= 0 {
		maxBackups = 5
	}
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     30,
		Compress:   true,
	}
}
