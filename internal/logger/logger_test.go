package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture swaps the default logger for the duration of the test
func capture(t *testing.T, cfg Config) *bytes.Buffer {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	InitLoggerWithWriter(cfg, &buf)
	return &buf
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	return entry
}

func TestInitLogger_JSONCarriesDeployment(t *testing.T) {
	buf := capture(t, NewConfig("info", "JSON", "qupot", "1.2.0", "staging"))

	Info("draw settled", "draw_id", "d-1", "count", 6)

	entry := decode(t, buf)
	assert.Equal(t, "qupot", entry[AttrKeyService])
	assert.Equal(t, "1.2.0", entry[AttrKeyVersion])
	assert.Equal(t, "staging", entry[AttrKeyEnvironment])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "d-1", entry["draw_id"])
	assert.Equal(t, float64(6), entry["count"])
	assert.NotContains(t, entry, "source")
}

func TestInitLogger_OmitsEmptyAttributes(t *testing.T) {
	buf := capture(t, Config{Level: "info", Format: FormatJSON, ServiceName: "qupot"})

	Info("hello")

	entry := decode(t, buf)
	assert.Equal(t, "qupot", entry[AttrKeyService])
	assert.NotContains(t, entry, AttrKeyVersion)
	assert.NotContains(t, entry, AttrKeyEnvironment)
}

func TestNewConfig_SourceInDevelopment(t *testing.T) {
	tests := []struct {
		env  string
		want bool
	}{
		{"dev", true},
		{"Development", true},
		{"local", true},
		{"staging", false},
		{"prod", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			assert.Equal(t, tt.want, NewConfig("info", "text", "qupot", "dev", tt.env).AddSource)
		})
	}
}

func TestConfig_LevelFiltering(t *testing.T) {
	tests := []struct {
		level     string
		debugKept bool
		infoKept  bool
		warnKept  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warning", false, false, true},
		{" WARN ", false, false, true},
		{"error", false, false, false},
		{"verbose", false, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := capture(t, Config{Level: tt.level, Format: FormatText})

			Debug("d")
			assert.Equal(t, tt.debugKept, buf.Len() > 0, "debug")
			buf.Reset()
			Info("i")
			assert.Equal(t, tt.infoKept, buf.Len() > 0, "info")
			buf.Reset()
			Warn("w")
			assert.Equal(t, tt.warnKept, buf.Len() > 0, "warn")
			buf.Reset()
			Error("e")
			assert.Positive(t, buf.Len(), "error")
		})
	}
}

func TestFromContext_IncludesRequestID(t *testing.T) {
	buf := capture(t, Config{Level: "debug", Format: FormatJSON})

	ctx := WithRequestID(context.Background(), "req-42")
	FromContext(ctx).Debug("draw started")

	assert.Equal(t, "req-42", decode(t, buf)[AttrKeyRequestID])
	assert.Equal(t, "req-42", GetRequestID(ctx))
}

func TestRequestID_Missing(t *testing.T) {
	_, ok := RequestIDFromContext(context.Background())
	assert.False(t, ok)
	assert.Empty(t, GetRequestID(context.Background()))
	assert.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestGenerateRequestID_Unique(t *testing.T) {
	a, b := GenerateRequestID(), GenerateRequestID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
