// Package logging provides structured logging for playermap using zerolog.
// Terminal sessions get human-readable console output; anything else (cron,
// supervisors, containers) gets JSON lines.
//
// Example usage:
//
//	ctx := logging.WithStage(context.Background(), "merge")
//	logging.FromContext(ctx).Info().Int("new", 3).Msg("Merged provider snapshot")
package logging

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/agentstation/playermap/pkg/errors"
)

var defaultLogger = fromEnvironment()

// fromEnvironment builds the process logger from LOG_LEVEL, LOG_FORMAT and
// NO_COLOR before any configuration has been loaded.
func fromEnvironment() zerolog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	if os.Getenv("LOG_LEVEL") == "" && os.Getenv("DEBUG") != "" {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	logger := zerolog.New(stderrWriter(os.Getenv("LOG_FORMAT"), os.Getenv("NO_COLOR") != "", time.Kitchen)).
		Level(level).
		With().
		Timestamp().
		Logger()
	if level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// Default returns the process logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process logger and zerolog's global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Debug starts a debug event on the process logger.
func Debug() *zerolog.Event {
	return defaultLogger.Debug()
}

// Info starts an info event on the process logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the process logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

// Error starts an error event on the process logger.
func Error() *zerolog.Event {
	return defaultLogger.Error()
}

// DataQuality logs a non-fatal registry finding at warn level.
func DataQuality(logger *zerolog.Logger, w *errors.DataQualityWarning) {
	event := logger.Warn().Str("kind", string(w.Kind))
	if w.Code != "" {
		event = event.Str("code", w.Code)
	}
	if w.Name != "" {
		event = event.Str("name", w.Name)
	}
	event.Msg(w.Message)
}

// stderrIsTerminal reports whether stderr is attached to a terminal.
func stderrIsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
