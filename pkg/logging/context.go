package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type loggerKey struct{}

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithFields returns ctx whose logger carries every field.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	lc := FromContext(ctx).With()
	for key, value := range fields {
		lc = field(lc, key, value)
	}
	logger := lc.Logger()
	return WithLogger(ctx, &logger)
}

func withField(ctx context.Context, key string, value any) context.Context {
	logger := field(FromContext(ctx).With(), key, value).Logger()
	return WithLogger(ctx, &logger)
}

func field(lc zerolog.Context, key string, value any) zerolog.Context {
	switch v := value.(type) {
	case string:
		return lc.Str(key, v)
	case int:
		return lc.Int(key, v)
	case bool:
		return lc.Bool(key, v)
	case error:
		return lc.AnErr(key, v)
	default:
		return lc.Interface(key, v)
	}
}

// WithStage tags the logger with a pipeline stage (merge, reconcile).
func WithStage(ctx context.Context, stage string) context.Context {
	return withField(ctx, "stage", stage)
}

// WithSeason tags the logger with a season tag such as 2024_25.
func WithSeason(ctx context.Context, season string) context.Context {
	return withField(ctx, "season", season)
}

// WithSource tags the logger with an external source id.
func WithSource(ctx context.Context, source string) context.Context {
	return withField(ctx, "source", source)
}

// WithRegistry tags the logger with the registry file path.
func WithRegistry(ctx context.Context, path string) context.Context {
	return withField(ctx, "registry", path)
}
