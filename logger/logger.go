package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// L is the process-wide structured logger.
var L zerolog.Logger

func init() {
	L = New("food-delivery-backend")
}

// New builds a service-tagged zerolog logger writing JSON to stderr.
// LOG_LEVEL (debug|info|warn|error) controls verbosity, default info.
func New(service string) zerolog.Logger {
	level := zerolog.InfoLevel
	if lv, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && lv != zerolog.NoLevel {
		level = lv
	}
	return zerolog.New(os.Stderr).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger()
}
