package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    LogLevel
		wantErr bool
	}{
		{"debug", DEBUG, false},
		{"INFO", INFO, false},
		{"", INFO, false},
		{"warning", WARN, false},
		{"error", ERROR, false},
		{"verbose", INFO, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(Config{Level: WARN, Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "window_days", 30)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "window_days=30")
}

func TestNewLogger_JSONAndFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "logs", "teamgraph.log")
	logger, err := NewLogger(Config{Level: DEBUG, Output: &buf, OutputFile: path, JSONFormat: true})
	require.NoError(t, err)

	logger.With("component", "landscape").Debug("window computed")
	require.NoError(t, logger.Close())

	assert.Contains(t, buf.String(), `"component":"landscape"`)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"window computed"`)
}

func TestRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 64)), 0644))

	logger, err := NewLogger(Config{Output: &bytes.Buffer{}, OutputFile: path, MaxSize: 32})
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path + ".1")
	assert.NoError(t, err, "oversized log should be rotated")
}

func TestInitialize_SetsSlogDefault(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	var buf bytes.Buffer
	require.NoError(t, Initialize(Config{Level: INFO, Output: &buf}))
	defer Close()

	slog.Default().With("component", "git").Info("extraction complete", "repos", 2)
	assert.Contains(t, buf.String(), "component=git")
	assert.Contains(t, buf.String(), "repos=2")
}
