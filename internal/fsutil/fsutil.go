// Package fsutil holds the small read-only filesystem helpers the backends
// parse metadata with.
package fsutil

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
)

// ErrEmpty is returned when a file has no line to offer.
var ErrEmpty = errors.New("empty file")

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// Exists reports whether anything exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ChopNewline removes one trailing "\n" or "\r\n".
func ChopNewline(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// ReadFirstLine returns the first line of the file without its terminator.
// A file whose last line lacks a newline is still read in full.
func ReadFirstLine(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return "", err
	}
	defer f.Close()

	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	if line == "" {
		return "", ErrEmpty
	}
	return ChopNewline(line), nil
}

// ReadLastLine returns the last non-terminator line of the file. Trailing
// newlines at end of file do not count as an empty last line.
func ReadLastLine(path string) (string, error) {
	data, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return "", err
	}

	data = bytes.TrimRight(data, "\r\n")
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if i := bytes.LastIndexByte(data, '\n'); i >= 0 {
		data = data[i+1:]
	}
	return ChopNewline(string(data)), nil
}

// ReadBytes reads exactly n bytes from the start of the file. A shorter file
// yields io.ErrUnexpectedEOF (or io.EOF when empty).
func ReadBytes(path string, n int) ([]byte, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, n)
	if _, err := io.ReadFull(f, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
