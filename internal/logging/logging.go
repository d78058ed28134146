// Package logging builds the charmbracelet logger shared by the miniseq
// commands: stderr output, optionally tee'd to an append-only log file, with
// every line prefixed by an RFC3339 timestamp.
package logging

import (
	"bytes"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// timestampWriter prefixes each flushed line with an RFC3339 timestamp.
type timestampWriter struct {
	w   io.Writer
	buf bytes.Buffer
	mu  sync.Mutex
	now func() time.Time
}

// Write buffers bytes until a newline is found; for each full line, write a timestamped
// line to the underlying writer. Partial lines are kept in the buffer.
func (t *timestampWriter) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, _ := t.buf.Write(p)
	for {
		line, err := t.buf.ReadString('\n')
		if err != nil {
			// keep the partial line for the next write
			t.buf.Reset()
			t.buf.WriteString(line)
			break
		}
		ts := t.now().Format(time.RFC3339)
		if _, err := t.w.Write([]byte(ts + " " + line)); err != nil {
			return n, err
		}
	}
	return n, nil
}

// terminalWriter wraps an io.Writer and exposes an Fd method so libraries that
// inspect the file descriptor (for TTY detection) can work with wrapped writers.
type terminalWriter struct {
	w  io.Writer
	fd uintptr
}

func (tw *terminalWriter) Write(p []byte) (int, error) { return tw.w.Write(p) }

// Fd exposes the underlying file descriptor (e.g., os.Stderr.Fd()).
func (tw *terminalWriter) Fd() uintptr { return tw.fd }

// Options controls New.
type Options struct {
	// Level is one of debug, info, warn/warning, error. Empty means info.
	Level string
	// Verbose forces debug level.
	Verbose bool
	// File, when set, is opened for append and receives a copy of the output.
	File string
	// Out defaults to os.Stderr.
	Out io.Writer
}

// New builds a logger. The returned close function releases the log file and
// is always safe to call.
func New(opts Options) (*log.Logger, func() error) {
	out := opts.Out
	fd := os.Stderr.Fd()
	if out == nil {
		out = os.Stderr
	}
	closeFn := func() error { return nil }

	var fileErr error
	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err == nil {
			// write to both stderr and file so running interactively still shows logs
			out = io.MultiWriter(out, f)
			closeFn = f.Close
		} else {
			fileErr = err
		}
	}

	tw := &timestampWriter{w: out, now: time.Now}
	logger := log.New(&terminalWriter{w: tw, fd: fd})

	level, known := ParseLevel(opts.Level)
	if opts.Verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	if !known {
		logger.Warn("unknown log_level in config, defaulting to info", "provided", opts.Level)
	}
	if fileErr != nil {
		logger.Warn("log_file specified but could not be opened; logging to stderr only", "path", opts.File, "err", fileErr)
	}
	return logger, closeFn
}

// ParseLevel maps a config level name to a log level. Unknown names map to
// info and report false.
func ParseLevel(name string) (log.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return log.DebugLevel, true
	case "info", "":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	}
	return log.InfoLevel, false
}
