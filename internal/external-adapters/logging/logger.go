// Package logging adapts the domain Logger port onto log/slog, with optional
// rotating-file output for long-lived host processes.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/ochairo/cellar/internal/domain/interfaces"
	"gopkg.in/natefinch/lumberjack.v2"
)

// RotationConfig controls the optional log file sink.
type RotationConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Logger implements interfaces.Logger on top of slog.
type Logger struct {
	slog *slog.Logger
}

// New creates a text logger at the given level writing to w.
func New(w io.Writer, level slog.Level) *Logger {
	return &Logger{
		slog: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})),
	}
}

// NewRotating creates a logger that writes to stderr and to a
// size-rotated log file.
func NewRotating(cfg RotationConfig, level slog.Level) *Logger {
	sink := io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	})
	return New(sink, level)
}

// Debug logs debug-level messages
func (l *Logger) Debug(msg string, fields ...interfaces.Field) {
	l.slog.Debug(msg, attrs(fields)...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, fields ...interfaces.Field) {
	l.slog.Info(msg, attrs(fields)...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, fields ...interfaces.Field) {
	l.slog.Warn(msg, attrs(fields)...)
}

// Error logs error messages
func (l *Logger) Error(msg string, fields ...interfaces.Field) {
	l.slog.Error(msg, attrs(fields)...)
}

func attrs(fields []interfaces.Field) []any {
	out := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		out = append(out, f.Key, f.Value)
	}
	return out
}
