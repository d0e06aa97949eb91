package logger

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects where log records go
type Options struct {
	// Debug enables debug records on stderr
	Debug bool
	// File, when set, receives info and above (debug too when Debug is set) through a rotating writer
	File string
	// Stderr overrides os.Stderr, mostly for tests
	Stderr io.Writer
}

// creates a new structured logger; returns a closer for the rotating file, if any
func New(opts Options) (*slog.Logger, io.Closer) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	level := slog.LevelInfo

	if opts.Debug {
		writers = append(writers, stderr)
		level = slog.LevelDebug
	}

	if opts.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,   // megabytes before rotation
			MaxBackups: 3,    // number of backups to keep
			MaxAge:     28,   // days to keep old logs
			Compress:   true, // compress rotated files
		}
		writers = append(writers, rotating)
		closer = rotating
	}

	if len(writers) == 0 {
		// nothing configured: discard all log messages
		return slog.New(slog.DiscardHandler), closer
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler), closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
