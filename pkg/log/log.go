package log

import (
	"context"
	"log/slog"
	"os"
)

// minLevel starts at info, the zero value of slog.LevelVar.
var minLevel slog.LevelVar

// defaultLogger writes JSON lines to stdout.
var defaultLogger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	AddSource: true,
	Level:     &minLevel,
}))

type loggerKey struct{}

// Ctx is the logger attached to ctx by With, or the stdout JSON logger.
func Ctx(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return defaultLogger
}

// With attaches logger to ctx.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithAttrs derives a logger from ctx that adds args to every record.
func WithAttrs(ctx context.Context, args ...any) context.Context {
	return With(ctx, Ctx(ctx).With(args...))
}

// SetDefaultLogLevel drops records below l. Loggers derived from the default
// one follow the change.
func SetDefaultLogLevel(l slog.Level) {
	minLevel.Set(l)
}
