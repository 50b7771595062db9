package logging

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// ConsoleLogger returns a logger writing human-readable output to stderr.
func ConsoleLogger(level logrus.Level) *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	return logger
}

// FileLogger returns a JSON logger that writes both to stderr and the given
// file, creating parent directories as needed. The caller owns the file
// handle and must close it on shutdown.
func FileLogger(level logrus.Level, path string) (*os.File, *logrus.Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(newTeeWriter(os.Stderr, f))
	return f, logger, nil
}

type teeWriter struct {
	targets []interface{ Write(p []byte) (int, error) }
}

func newTeeWriter(targets ...interface{ Write(p []byte) (int, error) }) *teeWriter {
	return &teeWriter{targets: targets}
}

func (t *teeWriter) Write(p []byte) (int, error) {
	for _, w := range t.targets {
		if _, err := w.Write(p); err != nil {
			return 0, err
		}
	}
	return len(p), nil
}
