package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextFormat_UsesSlog(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(FormatText, "debug", &buf)
	require.NoError(t, err)
	require.IsType(t, &SlogLogger{}, log)

	ctx := context.Background()
	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	out := buf.String()
	for _, want := range []string{
		"level=DEBUG msg=dbg a=1",
		"level=INFO msg=inf b=2",
		"level=WARN msg=wrn c=3",
		"level=ERROR msg=err d=4",
	} {
		assert.Contains(t, out, want)
	}
}

func TestNew_TextFormat_HonoursLevel(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", "warn", &buf)
	require.NoError(t, err)

	ctx := context.Background()
	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")

	sl := log.(*SlogLogger)
	assert.False(t, sl.Enabled(ctx, slog.LevelInfo))
	assert.True(t, sl.Enabled(ctx, slog.LevelError))
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	log.With("slice", "orders", "op", "orders/createOrder").Info(context.Background(), "submitted", "number", 92532)

	out := buf.String()
	for _, want := range []string{"msg=submitted", "slice=orders", "op=orders/createOrder", "number=92532"} {
		assert.Contains(t, out, want)
	}
}
