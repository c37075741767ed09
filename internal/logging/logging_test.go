package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.False(t, cfg.JSON)
}

func TestDebugConfig(t *testing.T) {
	cfg := DebugConfig()
	assert.Equal(t, slog.LevelDebug, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.True(t, cfg.AddSource)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(" INFO "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("bogus"))
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	t.Run("text_output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelInfo, Output: &buf})

		Info("history committed", KeyCount, 3)
		assert.Contains(t, buf.String(), "history committed")
		assert.Contains(t, buf.String(), "count=3")
		assert.False(t, Debug)
	})

	t.Run("json_output", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelDebug, JSON: true, Output: &buf})

		DebugLog("undo", KeyCommandID, "abc")
		assert.Contains(t, buf.String(), `"command_id":"abc"`)
		assert.True(t, Debug)
	})

	t.Run("level_filters", func(t *testing.T) {
		var buf bytes.Buffer
		Init(Config{Level: slog.LevelError, Output: &buf})

		Warn("ignored")
		assert.Empty(t, buf.String())
		Error("kept")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("nil_output_uses_stderr", func(t *testing.T) {
		Init(Config{Level: slog.LevelInfo})
		assert.NotNil(t, Logger())
	})
}

func TestComponent(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, Output: &buf})

	Component("history").Info("merged")
	assert.Contains(t, buf.String(), "component=history")
}

func TestSessionContext(t *testing.T) {
	t.Cleanup(func() { Init(DefaultConfig()) })

	id := GenerateSessionID()
	assert.Len(t, id, 16)
	assert.NotEqual(t, id, GenerateSessionID())

	ctx := WithSessionID(context.Background(), "s-1")
	assert.Equal(t, "s-1", SessionIDFromContext(ctx))
	assert.Equal(t, "", SessionIDFromContext(context.Background()))
	assert.Equal(t, "", SessionIDFromContext(nil))

	require.NotEmpty(t, SessionIDFromContext(NewSessionContext()))

	var buf bytes.Buffer
	Init(Config{Level: slog.LevelInfo, Output: &buf})
	InfoContext(ctx, "opened")
	assert.Contains(t, buf.String(), "session_id=s-1")
}
