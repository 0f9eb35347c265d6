package runner

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(res Result, err error) Func {
	return func(_ context.Context, _, _ string, _ ...string) (Result, error) {
		return res, err
	}
}

func TestExitStatusIs(t *testing.T) {
	tests := []struct {
		name     string
		res      Result
		err      error
		expected bool
	}{
		{name: "exit 1 means differences", res: Result{ExitCode: 1}, expected: true},
		{name: "exit 0 is clean", res: Result{ExitCode: 0}},
		{name: "exit 128 is unknown", res: Result{ExitCode: 128}},
		{name: "signal is unknown", res: Result{ExitCode: -1}},
		{name: "spawn failure", res: Result{ExitCode: -1}, err: errors.New("no such file")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExitStatusIs(context.Background(), fixed(tt.res, tt.err), "/repo", 1, "git", "diff", "--quiet")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHasOutput(t *testing.T) {
	tests := []struct {
		name     string
		res      Result
		err      error
		expected bool
	}{
		{name: "files listed", res: Result{Stdout: "new.txt\n"}, expected: true},
		{name: "no output", res: Result{Stdout: ""}},
		{name: "whitespace only", res: Result{Stdout: " \n"}},
		{name: "output but failed", res: Result{ExitCode: 128, Stdout: "fatal: not a git repository\n"}},
		{name: "spawn failure", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HasOutput(context.Background(), fixed(tt.res, tt.err), "/repo", "git", "ls-files")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestHasLinePrefix(t *testing.T) {
	r := fixed(Result{Stdout: "M       changed.c\n?       new.c\n"}, nil)
	assert.True(t, HasLinePrefix(context.Background(), r, "/wc", "?", "svn", "status"))
	assert.False(t, HasLinePrefix(context.Background(), r, "/wc", "!", "svn", "status"))

	failed := fixed(Result{ExitCode: 1, Stdout: "?       new.c\n"}, nil)
	assert.False(t, HasLinePrefix(context.Background(), failed, "/wc", "?", "svn", "status"))
}

func TestSummaryEndsWith(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		exit     int
		expected bool
	}{
		{name: "modified", stdout: "1234M\n", expected: true},
		{name: "mixed modified", stdout: "4123:4168M", expected: true},
		{name: "clean", stdout: "1234\n"},
		{name: "switched", stdout: "1234MS\n"},
		{name: "empty", stdout: ""},
		{name: "non-zero exit", stdout: "1234M\n", exit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := fixed(Result{ExitCode: tt.exit, Stdout: tt.stdout}, nil)
			got := SummaryEndsWith(context.Background(), r, "/wc", 'M', "svnversion")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExecMissingExecutable(t *testing.T) {
	old := LookupPath
	t.Cleanup(func() { LookupPath = old })
	LookupPath = func(string) (string, error) { return "", exec.ErrNotFound }

	res, err := Exec{}.Run(context.Background(), t.TempDir(), "git", "status")
	require.Error(t, err)
	assert.Equal(t, -1, res.ExitCode)
}

func TestExecReportsExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on sh")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	res, err := Exec{}.Run(context.Background(), t.TempDir(), "sh", "-c", "echo hello; exit 3")
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "hello\n", res.Stdout)

	res, err = Exec{}.Run(context.Background(), t.TempDir(), "sh", "-c", "exit 0")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ExitCode)
}
