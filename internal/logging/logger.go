// Package logging builds the slog loggers used across corefer
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/ppiankov/corefer/internal/model"
)

// ParseLevel maps a config level name to a slog level. Unknown names map
// to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New creates a logger writing to out. With format "auto" the pretty
// handler is used when out is a terminal and JSON otherwise.
func New(cfg model.LoggingConfig, out io.Writer) *slog.Logger {
	opts := slog.HandlerOptions{Level: ParseLevel(cfg.Level)}

	pretty := cfg.Format == "pretty"
	if cfg.Format == "auto" || cfg.Format == "" {
		if f, ok := out.(*os.File); ok {
			pretty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}

	if pretty {
		return slog.New(NewPrettyHandler(out, PrettyHandlerOptions{SlogOpts: opts}))
	}
	return slog.New(slog.NewJSONHandler(out, &opts))
}

// Discard returns a logger that drops everything
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
