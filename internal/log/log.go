// Package log is the debug logger shared by every vcprobe package.
//
// Messages written before a destination is chosen are buffered, so the
// config loader can log before the debug flags are known. Choosing a file or
// writer flushes the buffer there; choosing nothing discards it.
package log

import (
	"io"
	"log"
	"os"
	"sync"
)

type sink struct {
	mu      sync.Mutex
	out     io.Writer
	file    *os.File
	buffer  []byte
	discard bool
}

var (
	global    = &sink{}
	stdLogger = log.New(global, "vcprobe: ", log.Lmicroseconds)
)

// Write implements io.Writer.
func (s *sink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.discard {
		return len(p), nil
	}
	if s.out != nil {
		return s.out.Write(p)
	}

	s.buffer = append(s.buffer, p...)
	return len(p), nil
}

// attach installs w as the destination and flushes anything buffered so far.
// Caller holds the lock.
func (s *sink) attach(w io.Writer) {
	s.out = w
	s.discard = false
	if len(s.buffer) > 0 {
		_, _ = w.Write(s.buffer)
		s.buffer = nil
	}
}

func (s *sink) closeFile() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// SetFile appends debug output to the file at path, creating it if needed.
// An empty path discards all buffered and future messages.
func SetFile(path string) error {
	global.mu.Lock()
	defer global.mu.Unlock()

	_ = global.closeFile()

	if path == "" {
		global.out = nil
		global.discard = true
		global.buffer = nil
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		global.out = nil
		global.discard = true
		global.buffer = nil
		return err
	}

	global.file = f
	global.attach(f)
	return nil
}

// SetOutput sends debug output to w. A nil writer behaves like SetFile("").
func SetOutput(w io.Writer) {
	if w == nil {
		_ = SetFile("")
		return
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	_ = global.closeFile()
	global.attach(w)
}

// Enabled reports whether messages currently reach a destination or the buffer.
func Enabled() bool {
	global.mu.Lock()
	defer global.mu.Unlock()
	return !global.discard
}

// Printf writes a formatted debug message.
func Printf(format string, args ...any) {
	stdLogger.Printf(format, args...)
}

// Println writes a debug message.
func Println(v ...any) {
	stdLogger.Println(v...)
}

// Close closes the debug log file if one is open. Later messages are discarded.
func Close() error {
	global.mu.Lock()
	defer global.mu.Unlock()

	global.out = nil
	global.discard = true
	return global.closeFile()
}
