package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// Options selects the level and encoding of a logger
type Options struct {
	Level  string // zerolog level name, "info" when empty
	Format string // auto, json or console
}

// New builds a logger writing to out. Format auto picks the console writer
// when out is a terminal and JSON otherwise.
func New(opts Options, out io.Writer) (zerolog.Logger, error) {
	levelName := strings.ToLower(opts.Level)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level '%s': %w", opts.Level, err)
	}

	var console bool
	switch strings.ToLower(opts.Format) {
	case "", "auto":
		console = isTerminal(out)
	case "console":
		console = true
	case "json":
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format '%s'", opts.Format)
	}

	if console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

// WithLogger stores logger in ctx for commands to pick up via FromContext
func WithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger carried by ctx, or a disabled logger
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
