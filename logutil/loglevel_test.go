package logutil_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/andyle182810/helpscout/logutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected zerolog.Level
	}{
		{name: "trace level", input: "trace", expected: zerolog.TraceLevel},
		{name: "debug level", input: "debug", expected: zerolog.DebugLevel},
		{name: "info level", input: "info", expected: zerolog.InfoLevel},
		{name: "warn level", input: "warn", expected: zerolog.WarnLevel},
		{name: "warning alias", input: "warning", expected: zerolog.WarnLevel},
		{name: "error level", input: "error", expected: zerolog.ErrorLevel},
		{name: "fatal level", input: "fatal", expected: zerolog.FatalLevel},
		{name: "panic level", input: "panic", expected: zerolog.PanicLevel},
		{name: "upper case", input: "DEBUG", expected: zerolog.DebugLevel},
		{name: "surrounding spaces", input: " error ", expected: zerolog.ErrorLevel},
		{name: "unknown defaults to info", input: "verbose", expected: zerolog.InfoLevel},
		{name: "empty defaults to info", input: "", expected: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, logutil.ParseZerologLevel(tt.input))
		})
	}
}

func TestNewLogger_FiltersBelowLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	logger := logutil.NewLogger("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("path", "mailboxes").Msg("visible")

	var entry map[string]any

	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "visible", entry["message"])
	require.Equal(t, "warn", entry["level"])
	require.Equal(t, "helpscout", entry["component"])
	require.Equal(t, "mailboxes", entry["path"])
	require.Contains(t, entry, "time")
}
