// Package logging builds slog loggers that carry request scoped attributes
// stored in a context.Context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type ctxKey string

const slogFields ctxKey = "slog_fields"

// ContextHandler adds the attributes stored by AppendCtx to every record
type ContextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx returns a copy of parent carrying attrs in addition to any
// attributes already stored
func AppendCtx(parent context.Context, attrs ...slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}
	var merged []slog.Attr
	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		merged = append(merged, v...)
	}
	merged = append(merged, attrs...)
	return context.WithValue(parent, slogFields, merged)
}

// Logger creates a text or JSON logger writing to w at the given level
func Logger(w io.Writer, json bool, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if json {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(ContextHandler{h})
}

// ParseLevel parses DEBUG, INFO, WARN or ERROR, case-insensitively
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(s))))
	return level, err
}

// Config selects the level, format and optional rotating file sink
type Config struct {
	Level      string `yaml:"level"`
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New builds a logger from cfg writing to out and, when cfg.File is set, to a
// size rotated file as well. The returned closer releases the file.
func New(out io.Writer, cfg Config) (*slog.Logger, io.Closer) {
	level := slog.LevelInfo
	var err error
	if cfg.Level != "" {
		if level, err = ParseLevel(cfg.Level); err != nil {
			level = slog.LevelInfo
		}
	}
	w := out
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		w = io.MultiWriter(out, lj)
		closer = lj
	}
	logger := Logger(w, cfg.JSON, level)
	if err != nil {
		logger.Warn("Invalid log level, defaulting to INFO", "level", cfg.Level, "error", err)
	}
	return logger, closer
}
