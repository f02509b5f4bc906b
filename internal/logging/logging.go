package logging

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultLevel is used when the configured level is empty or unknown
const DefaultLevel = zerolog.WarnLevel

// New creates a console logger writing to w at the given level name
// (trace, debug, info, warn, error). The level applies to this logger
// only; the zerolog global level is left alone.
func New(level string, w io.Writer) zerolog.Logger {
	console := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(console).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Str("app", "flashparse").
		Logger()
}

// ParseLevel maps a level name to a zerolog level, falling back to DefaultLevel
func ParseLevel(level string) zerolog.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return DefaultLevel
	}
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return DefaultLevel
	}
	return parsed
}
