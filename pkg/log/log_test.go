package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtx(t *testing.T) {
	ctx := context.Background()

	assert.Equal(t, defaultLogger, Ctx(ctx), "Ctx should fall back to the default logger")

	custom := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	require.NotEqual(t, defaultLogger, custom)
	assert.Equal(t, custom, Ctx(With(ctx, custom)))
}

func TestWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	ctx := With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx = WithAttrs(ctx, slog.Float64("lat", 4.6))

	Ctx(ctx).InfoContext(ctx, "hello")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, 4.6, record["lat"])
}

func TestSetDefaultLogLevel(t *testing.T) {
	ctx := context.Background()
	defer SetDefaultLogLevel(minLevel.Level())

	SetDefaultLogLevel(slog.LevelError)
	assert.False(t, Ctx(ctx).Enabled(ctx, slog.LevelWarn))
	assert.True(t, Ctx(ctx).Enabled(ctx, slog.LevelError))

	SetDefaultLogLevel(slog.LevelDebug)
	assert.True(t, Ctx(ctx).Enabled(ctx, slog.LevelDebug))
}
