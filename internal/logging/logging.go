// Package logging provides structured logging for the simulator.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds logging configuration.
type Config struct {
	Level      string
	Dir        string
	Console    bool
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultConfig returns sensible logging defaults.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Console:    false,
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 28,
	}
}

// New creates a zerolog logger per the given config. When cfg.Dir is set
// logs rotate under <dir>/optionsim.log via lumberjack; console output is
// added on top when cfg.Console is true.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var writers []io.Writer
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o755); err == nil {
			writers = append(writers, &lumberjack.Logger{
				Filename:   filepath.Join(cfg.Dir, "optionsim.log"),
				MaxSize:    cfg.MaxSizeMB,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAgeDays,
				Compress:   true,
			})
		}
	}
	if cfg.Console || len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		})
	}

	var out io.Writer
	if len(writers) == 1 {
		out = writers[0]
	} else {
		out = zerolog.MultiLevelWriter(writers...)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

// WithSymbol returns a child logger tagged with the underlying symbol.
func WithSymbol(l zerolog.Logger, symbol string) zerolog.Logger {
	return l.With().Str("symbol", symbol).Logger()
}

// WithOrderID returns a child logger tagged with an order ID.
func WithOrderID(l zerolog.Logger, orderID string) zerolog.Logger {
	return l.With().Str("order_id", orderID).Logger()
}

// LogOrder records an order lifecycle event.
func LogOrder(l zerolog.Logger, orderID, symbol, action, status string, price float64) {
	l.Info().
		Str("order_id", orderID).
		Str("symbol", symbol).
		Str("action", action).
		Str("status", status).
		Float64("price", price).
		Msg("order")
}

// LogTrade records a realized trade with its P&L.
func LogTrade(l zerolog.Logger, orderID, symbol string, quantity int, price, pnl float64) {
	l.Info().
		Str("order_id", orderID).
		Str("symbol", symbol).
		Int("quantity", quantity).
		Float64("price", price).
		Float64("pnl", pnl).
		Msg("trade")
}
