package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	hclog "github.com/hashicorp/go-hclog"
)

// New opens (appending) the log file at path and returns a logger writing to
// it. The caller owns the returned closer. An empty path discards output.
func New(path, level string) (hclog.Logger, io.Closer, error) {
	if path == "" {
		return Discard(), io.NopCloser(nil), nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := hclog.New(&hclog.LoggerOptions{
		Name:   "mdpomo",
		Output: f,
		Level:  hclog.LevelFromString(level),
	})
	return logger, f, nil
}

// Discard returns a logger that drops everything.
func Discard() hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel})
}
