package vcs

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chmouel/vcprobe/internal/runner"
)

// fakeRunner answers commands from a table keyed by "name arg1 arg2..." and
// records every invocation.
type fakeRunner struct {
	mu      sync.Mutex
	results map[string]runner.Result
	err     error
	calls   []string
	dirs    []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{results: map[string]runner.Result{}}
}

func (f *fakeRunner) on(command string, res runner.Result) *fakeRunner {
	f.results[command] = res
	return f
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (runner.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	command := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, command)
	f.dirs = append(f.dirs, dir)
	if f.err != nil {
		return runner.Result{ExitCode: -1}, f.err
	}
	return f.results[command], nil
}

func testEnv(r runner.Runner) Env {
	return Env{Runner: r, Commands: DefaultCommands()}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o750))
}
