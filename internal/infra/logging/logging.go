package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/fastprodman/redpacket/internal/config"
)

// New returns a logger writing to w in the configured format. Unknown
// formats fall back to JSON.
func New(w io.Writer, cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level}

	if cfg.Format == config.LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}

	return slog.New(slog.NewJSONHandler(w, opts))
}

// Setup installs a logger on stdout as slog's default and returns it.
func Setup(cfg config.LogConfig) *slog.Logger {
	logger := New(os.Stdout, cfg)
	slog.SetDefault(logger)

	return logger
}

// SetupJSON sets slog's default logger to use JSON output at the given level.
func SetupJSON(level slog.Level) {
	Setup(config.LogConfig{Level: level, Format: config.LogFormatJSON})
}
