package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARNING": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"panic":   zapcore.PanicLevel,
		"fatal":   zapcore.FatalLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestContextHelpers ensures loggers stored in a context carry names and fields.
func TestContextHelpers(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := ToContext(context.Background(), zap.New(core).Sugar())
	ctx = WithName(ctx, "controller")
	ctx = WithKV(ctx, "device", "watch")

	InfoKV(ctx, "Alarm armed", "hour", 7)

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "controller", entries[0].LoggerName)
	require.Equal(t, "Alarm armed", entries[0].Message)
	require.Equal(t, map[string]any{"device": "watch", "hour": int64(7)}, entries[0].ContextMap())

	//nolint:staticcheck // A nil context must fall back to the global logger.
	require.Same(t, Logger(), FromContext(nil))
}

// TestBuildWithFile checks the rotating file sink receives JSON entries.
func TestBuildWithFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "rtc-alarm.log")
	l := Build(Options{Level: zapcore.InfoLevel, File: path})

	// lumberjack writes through without buffering.
	l.Infow("Alarm occurred", "weekday", "mon")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"Alarm occurred"`)
	require.Contains(t, string(data), `"weekday":"mon"`)
}
