package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Kytol/tuplausApi/internal/config"
)

// Setup builds a logger for cfg writing to stdout, installs it as slog's
// default and returns it.
func Setup(cfg config.LogConfig) *slog.Logger {
	logger := New(os.Stdout, cfg)
	slog.SetDefault(logger)

	return logger
}

// New returns a JSON logger, or a text logger when cfg.Format is "text".
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	if strings.EqualFold(cfg.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
