package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Debug("hello", slog.String(FieldLabel, "a.bin"))
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"label":"a.bin"`)
}

func TestNewLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("quiet")
	assert.Empty(t, buf.String())
	logger.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	require.Error(t, err)
}

func TestComponentLogger(t *testing.T) {
	var buf bytes.Buffer
	base, err := New(Options{Format: "json", Output: &buf})
	require.NoError(t, err)

	NewComponentLogger(base, "scan").Info("walk")
	assert.Contains(t, buf.String(), `"component":"scan"`)

	// nil base must not panic
	NewComponentLogger(nil, "scan").Info("dropped")
}

func TestNoop(t *testing.T) {
	logger := NewNop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
	logger.Error("nothing", Error(errors.New("boom")))
}
