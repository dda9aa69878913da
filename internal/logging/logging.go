// Package logging builds the component loggers used by the server and CLI.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log output goes.
type Options struct {
	// File, when set, receives a copy of all output with size-based rotation.
	File string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool

	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// Logs hands out prefixed loggers that share one output.
type Logs struct {
	out    io.Writer
	closer io.Closer
}

// New opens the log destination described by opts.
func New(opts Options) (*Logs, error) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	if opts.File == "" {
		return &Logs{out: stderr}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}

	return &Logs{
		out:    io.MultiWriter(stderr, rotator),
		closer: rotator,
	}, nil
}

// Logger returns a logger whose lines start with "[component] ".
func (l *Logs) Logger(component string) *log.Logger {
	return log.New(l.out, fmt.Sprintf("[%s] ", component), log.LstdFlags)
}

// Close flushes and closes the log file, if any.
func (l *Logs) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
