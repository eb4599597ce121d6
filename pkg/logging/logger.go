// Package logging provides structured logging for the modelscout pipeline
// using zerolog. It offers human-readable console output during development
// and structured JSON output for production, with loggers carried through
// context so every sync stage logs with its source and stage fields attached.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("source", "huggingface").Int("models", 42).Msg("Fetched")
//
//	ctx := logging.WithLogger(context.Background(), log)
//	logging.FromContext(ctx).Debug().Msg("Using logger from context")
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	// defaultLogger is the global logger instance.
	defaultLogger zerolog.Logger

	// Nop logger for discarding output.
	Nop = zerolog.Nop()
)

func init() {
	defaultLogger = createDefaultLogger()
}

// createDefaultLogger creates a logger with default settings.
func createDefaultLogger() zerolog.Logger {
	var writer io.Writer = os.Stderr

	// Console writer for terminals unless JSON output is forced
	if isTerminal() && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := levelFromEnv()
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()

	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}

	return logger
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger // Also update zerolog's global logger
}

// New creates a new logger with the given writer.
func New(w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(zerolog.GlobalLevel()).
		With().
		Timestamp().
		Logger()
}

// NewConsole creates a new console logger for human-readable output.
func NewConsole() zerolog.Logger {
	return New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.Kitchen,
		NoColor:    os.Getenv("NO_COLOR") != "",
	})
}

// NewJSON creates a new JSON logger for structured output.
func NewJSON(w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return New(w)
}

// SetLevel sets the global log level by name (trace, debug, info, warn,
// error). Unknown names leave the level unchanged.
func SetLevel(name string) {
	if level, err := zerolog.ParseLevel(strings.ToLower(name)); err == nil {
		zerolog.SetGlobalLevel(level)
		defaultLogger = defaultLogger.Level(level)
	}
}

// levelFromEnv reads LOG_LEVEL, defaulting to info.
func levelFromEnv() zerolog.Level {
	if name := os.Getenv("LOG_LEVEL"); name != "" {
		if level, err := zerolog.ParseLevel(strings.ToLower(name)); err == nil {
			return level
		}
	}
	return zerolog.InfoLevel
}

// isTerminal reports whether stderr is attached to a terminal.
func isTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// Convenience functions using the default logger.

// Debug starts a debug-level event on the default logger.
func Debug() *zerolog.Event { return defaultLogger.Debug() }

// Info starts an info-level event on the default logger.
func Info() *zerolog.Event { return defaultLogger.Info() }

// Warn starts a warn-level event on the default logger.
func Warn() *zerolog.Event { return defaultLogger.Warn() }

// Error starts an error-level event on the default logger.
func Error() *zerolog.Event { return defaultLogger.Error() }
