// Package logger builds the zerolog root logger shared by the service
// and worker binaries.
package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a JSON logger tagged with the component name. Output goes
// to stderr so piped stdout stays clean for CLI use.
func New(component string) zerolog.Logger {
	return zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}
