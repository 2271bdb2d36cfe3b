// Package logx provides structured file logging for the TUI.
// The terminal is owned by the UI, so logs go to a file under the
// XDG state directory when enabled and are discarded otherwise.
package logx

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// L is the active logger. It starts disabled; Setup replaces it.
var L = zerolog.Nop()

// Path returns the log file location, honoring XDG_STATE_HOME.
func Path() (string, error) {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, "tewi", "tewi.log"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "tewi", "tewi.log"), nil
}

// Setup enables file logging when requested. The returned closer flushes
// and closes the log file; it is a no-op when logging is disabled.
func Setup(enabled bool) (io.Closer, error) {
	if !enabled {
		L = zerolog.Nop()
		return nopCloser{}, nil
	}

	path, err := Path()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	L = zerolog.New(f).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	return f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
