package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/playermap/pkg/constants"
)

// Config selects level, format and destination of the CLI logger.
type Config struct {
	// Level is trace, debug, info, warn, error or off.
	Level string

	// Format is auto, json or console. Auto means console on a terminal.
	Format string

	// Output is stderr, stdout, discard or a file path (appended to).
	Output string

	// TimeFormat is kitchen, rfc3339, unix or a Go layout.
	TimeFormat string

	// NoColor disables ANSI colors in console output.
	NoColor bool

	// AddCaller adds file:line to every event.
	AddCaller bool
}

// DefaultConfig returns info-level auto-format logging to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "auto",
		Output:     "stderr",
		TimeFormat: "kitchen",
		NoColor:    os.Getenv("NO_COLOR") != "",
	}
}

// NewLoggerFromConfig builds a logger and sets the zerolog global level.
func NewLoggerFromConfig(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	level := parseLevel(cfg.Level)
	zerolog.SetGlobalLevel(level)

	var w io.Writer
	switch strings.ToLower(cfg.Output) {
	case "", "stderr":
		w = stderrWriter(cfg.Format, cfg.NoColor, timeLayout(cfg.TimeFormat))
	case "stdout":
		w = formatWriter(os.Stdout, cfg.Format == "console", cfg.NoColor, timeLayout(cfg.TimeFormat))
	case "discard", "none":
		w = io.Discard
	default:
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, constants.FilePermissions)
		if err != nil {
			w = stderrWriter(cfg.Format, cfg.NoColor, timeLayout(cfg.TimeFormat))
			break
		}
		// Log files are JSON unless console is asked for.
		w = formatWriter(f, cfg.Format == "console", cfg.NoColor, timeLayout(cfg.TimeFormat))
	}

	logger := zerolog.New(w).Level(level).With().Timestamp().Logger()
	if cfg.AddCaller || level <= zerolog.DebugLevel {
		logger = logger.With().Caller().Logger()
	}
	return logger
}

// stderrWriter picks console output for a terminal in auto mode.
func stderrWriter(format string, noColor bool, layout string) io.Writer {
	switch strings.ToLower(format) {
	case "json":
		return os.Stderr
	case "console", "pretty", "text":
		return formatWriter(os.Stderr, true, noColor, layout)
	default:
		return formatWriter(os.Stderr, stderrIsTerminal(), noColor, layout)
	}
}

func formatWriter(out io.Writer, console, noColor bool, layout string) io.Writer {
	if !console {
		return out
	}
	return zerolog.ConsoleWriter{Out: out, TimeFormat: layout, NoColor: noColor}
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "", "info":
		return zerolog.InfoLevel
	case "warning":
		return zerolog.WarnLevel
	case "none", "off":
		return zerolog.Disabled
	}
	if l, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && l != zerolog.NoLevel {
		return l
	}
	return zerolog.InfoLevel
}

func timeLayout(format string) string {
	switch strings.ToLower(format) {
	case "", "kitchen":
		return time.Kitchen
	case "rfc3339":
		return time.RFC3339
	case "unix", "epoch":
		return ""
	}
	if strings.Contains(format, "2006") || strings.Contains(format, "15:04") {
		return format
	}
	return time.Kitchen
}
