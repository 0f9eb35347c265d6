package fsutil

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
	assert.False(t, IsDir(writeFile(t, "x")))
}

func TestReadFirstLine(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		err      error
	}{
		{name: "newline terminated", content: "ref: refs/heads/main\n", expected: "ref: refs/heads/main"},
		{name: "no trailing newline", content: "default", expected: "default"},
		{name: "crlf", content: "trunk\r\nmore\r\n", expected: "trunk"},
		{name: "several lines", content: "one\ntwo\n", expected: "one"},
		{name: "blank first line", content: "\nsecond\n", expected: ""},
		{name: "empty file", content: "", err: ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ReadFirstLine(writeFile(t, tt.content))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, line)
		})
	}

	_, err := ReadFirstLine(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestReadLastLine(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		err      error
	}{
		{name: "single line", content: "1:first\n", expected: "1:first"},
		{name: "several lines", content: "1:first\n2:second\n3:fix-bug\n", expected: "3:fix-bug"},
		{name: "no trailing newline", content: "1:first\n2:second", expected: "2:second"},
		{name: "extra blank lines at end", content: "1:first\n\n\n", expected: "1:first"},
		{name: "empty file", content: "", err: ErrEmpty},
		{name: "only newlines", content: "\n\n", err: ErrEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ReadLastLine(writeFile(t, tt.content))
			if tt.err != nil {
				require.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, line)
		})
	}
}

func TestReadBytes(t *testing.T) {
	path := writeFile(t, "0123456789")

	data, err := ReadBytes(path, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123"), data)

	_, err = ReadBytes(path, 40)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadBytes(writeFile(t, ""), 40)
	assert.ErrorIs(t, err, io.EOF)
}
