package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "info", Format: "json", Output: &buf}))
	t.Cleanup(func() { _ = Init(Config{Level: "info", Format: "console"}) })

	Info().Str("endpoint", "http://events").Msg("fetched")
	Debug().Msg("hidden")

	out := buf.String()
	assert.Contains(t, out, `"endpoint":"http://events"`)
	assert.Contains(t, out, `"message":"fetched"`)
	assert.NotContains(t, out, "hidden")
}

func TestInit_WritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "user-service.log")

	var buf bytes.Buffer
	require.NoError(t, Init(Config{Level: "debug", Format: "console", File: path, Output: &buf}))
	Warn().Msg("downstream unavailable")
	require.NoError(t, Close())
	t.Cleanup(func() { _ = Init(Config{Level: "info", Format: "console"}) })

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "downstream unavailable")
	assert.Contains(t, buf.String(), "downstream unavailable")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}

func TestCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { _ = Init(Config{Level: "info", Format: "console"}) })

	ctx := ContextWithRequestID(context.Background(), "req-123")
	Ctx(ctx).Info().Msg("hello")

	assert.True(t, strings.Contains(buf.String(), `"request_id":"req-123"`))
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}

func TestGenerateRequestID_Unique(t *testing.T) {
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}
