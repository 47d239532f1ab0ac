package logger

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, fn func()) string {
	origOut := os.Stdout
	defer func() { os.Stdout = origOut }()

	rOut, wOut, err := os.Pipe()
	require.NoError(t, err, "failed to create stdout pipe")

	os.Stdout = wOut

	fn()

	err = wOut.Close()
	require.NoError(t, err, "failed to close stdout pipe")

	outBytes, err := io.ReadAll(rOut)
	require.NoError(t, err, "failed to read stdout pipe")

	return string(outBytes)
}

func TestLogger_parseLevel(t *testing.T) {
	t.Run("valid values", func(t *testing.T) {
		tests := []struct {
			name     string
			input    string
			expected slog.Level
		}{
			{"Debug level", "DEBUG", slog.LevelDebug},
			{"Debug level lowercase", "debug", slog.LevelDebug},
			{"Info level", "INFO", slog.LevelInfo},
			{"Info level lowercase", "info", slog.LevelInfo},
			{"Warn level", "WARN", slog.LevelWarn},
			{"Warn level lowercase", "warn", slog.LevelWarn},
			{"Error level", "ERROR", slog.LevelError},
			{"Error level lowercase", "error", slog.LevelError},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := parseLevel(tt.input)

				require.NoError(t, err, "parseLevel(%q) should not return an error", tt.input)
				require.Equal(t, tt.expected, got, "parseLevel(%q) should return %v", tt.input, tt.expected)
			})
		}
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := parseLevel("nonsense")
		require.Error(t, err)
	})
}

func TestLogger_New(t *testing.T) {
	t.Run("unknown environment fails", func(t *testing.T) {
		_, err := New("staging", LevelInfo)
		require.Error(t, err)
	})

	t.Run("unknown level fails", func(t *testing.T) {
		_, err := New(EnvDevelopment, "loud")
		require.Error(t, err)
	})

	t.Run("production logs json", func(t *testing.T) {
		out := capture(t, func() {
			l, err := New(EnvProduction, LevelInfo)
			require.NoError(t, err)

			l.Info("hello", "key", "value")
		})

		var record map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &record), "production output should be json. Out: %s", out)
		require.Equal(t, "hello", record["msg"])
		require.Equal(t, "value", record["key"])
	})

	t.Run("development logs text", func(t *testing.T) {
		out := capture(t, func() {
			l, err := New(EnvDevelopment, LevelInfo)
			require.NoError(t, err)

			l.Info("hello", "key", "value")
		})

		require.Contains(t, out, "msg=hello")
		require.Contains(t, out, "key=value")
	})

	t.Run("level filters", func(t *testing.T) {
		out := capture(t, func() {
			l, err := New(EnvDevelopment, LevelWarn)
			require.NoError(t, err)

			l.Debug("too quiet")
			l.Warn("loud enough")
		})

		require.NotContains(t, out, "too quiet")
		require.Contains(t, out, "loud enough")
	})

	t.Run("with adds attributes", func(t *testing.T) {
		out := capture(t, func() {
			l, err := New(EnvDevelopment, LevelInfo)
			require.NoError(t, err)

			l.With("request_id", "abc").Info("hello")
		})

		require.Contains(t, out, "request_id=abc")
	})
}
