package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wardgate/wardgate/internal/shared/config"
)

func TestConditionalSourceHandler(t *testing.T) {
	warnAndError := []slog.Level{slog.LevelWarn, slog.LevelError}
	all := []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

	tests := []struct {
		name       string
		level      slog.Level
		showLevels []slog.Level
		wantSource bool
	}{
		{"info without source", slog.LevelInfo, warnAndError, false},
		{"debug without source", slog.LevelDebug, warnAndError, false},
		{"warn with source", slog.LevelWarn, warnAndError, true},
		{"error with source", slog.LevelError, warnAndError, true},
		{"info in debug mode", slog.LevelInfo, all, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
			log := slog.New(NewConditionalSourceHandler(base, tt.showLevels...))

			log.Log(context.Background(), tt.level, "permission check")

			assert.Equal(t, tt.wantSource, strings.Contains(buf.String(), "source="), buf.String())
		})
	}
}

func TestConditionalSourceHandler_AttrsAndGroups(t *testing.T) {
	var buf bytes.Buffer
	base := slog.NewTextHandler(&buf, nil)
	log := slog.New(NewConditionalSourceHandler(base, slog.LevelError)).
		With("role_id", 7).
		WithGroup("check")

	log.Info("permission check", "code", "patients:read")

	out := buf.String()
	assert.NotContains(t, out, "source=")
	assert.Contains(t, out, "role_id=7")
	assert.Contains(t, out, "check.code=patients:read")
}

func TestConditionalSourceHandler_Enabled(t *testing.T) {
	base := slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})
	h := NewConditionalSourceHandler(base, slog.LevelError)

	assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestInit_JSONFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() {
		Logger = prev
		if prev != nil {
			slog.SetDefault(prev)
		}
	})

	path := filepath.Join(t.TempDir(), "wardgate.log")
	require.NoError(t, Init(&config.LoggerConfig{Level: "warn", Format: "json", OutputPath: path}, "release"))

	NewLogger().Infow("dropped", "role_id", 1)
	NewLogger().Warnw("unknown role in check", "role_id", 99)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "unknown role in check", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.EqualValues(t, 99, rec["role_id"])
	assert.Contains(t, rec, "source")
}
