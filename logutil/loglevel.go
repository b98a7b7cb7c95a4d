package logutil

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// ParseZerologLevel maps a config string to a zerolog level, case
// insensitively. Unknown values fall back to info.
func ParseZerologLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

// NewLogger builds a timestamped logger writing JSON to w at the given level.
func NewLogger(level string, w io.Writer) zerolog.Logger {
	return zerolog.New(w).
		Level(ParseZerologLevel(level)).
		With().
		Timestamp().
		Str("component", "helpscout").
		Logger()
}
