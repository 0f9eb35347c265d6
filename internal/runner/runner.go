// Package runner spawns the VCS executables used for modification and
// untracked-file checks, and interprets their exit-status conventions.
//
// Every check is fail-closed: a spawn failure, a missing executable or an
// exit status outside the convention answers "no".
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/chmouel/vcprobe/internal/log"
)

// LookupPath is used to find executables in PATH. It's exposed as a package
// variable so tests can avoid depending on installed VCS binaries.
var LookupPath = exec.LookPath

// Result is the observable outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string
}

// Runner runs name with args inside dir and waits for it to exit. A non-zero
// exit status is reported in Result, not as an error; err is reserved for
// processes that could not be started or waited on.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (Result, error)
}

// Func adapts a plain function to the Runner interface.
type Func func(ctx context.Context, dir, name string, args ...string) (Result, error)

// Run calls f.
func (f Func) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	return f(ctx, dir, name, args...)
}

// Exec is the os/exec backed Runner. Stderr is discarded and stdin is empty.
type Exec struct{}

// Run implements Runner.
func (Exec) Run(ctx context.Context, dir, name string, args ...string) (Result, error) {
	path, err := LookupPath(name)
	if err != nil {
		return Result{ExitCode: -1}, fmt.Errorf("lookup %s: %w", name, err)
	}

	// #nosec G204 -- executable names come from the vcprobe config, arguments are fixed
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = dir
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	err = cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return Result{ExitCode: exitErr.ExitCode(), Stdout: stdout.String()}, nil
		}
		return Result{ExitCode: -1}, fmt.Errorf("run %s: %w", name, err)
	}
	return Result{Stdout: stdout.String()}, nil
}

func describe(name string, args []string) string {
	return strings.TrimSpace(name + " " + strings.Join(args, " "))
}

func run(ctx context.Context, r Runner, dir, name string, args []string) (Result, bool) {
	command := describe(name, args)
	log.Printf("run: %s (cwd=%s)", command, dir)

	res, err := r.Run(ctx, dir, name, args...)
	if err != nil {
		log.Printf("error: %s: %v", command, err)
		return res, false
	}
	log.Printf("exit %d: %s", res.ExitCode, command)
	return res, true
}

// ExitStatusIs reports whether the process exited with exactly want.
// This is the quiet-diff convention, where 1 means "differences exist".
func ExitStatusIs(ctx context.Context, r Runner, dir string, want int, name string, args ...string) bool {
	res, ok := run(ctx, r, dir, name, args)
	return ok && res.ExitCode == want
}

// HasOutput reports whether the process exited 0 and printed anything other
// than whitespace.
func HasOutput(ctx context.Context, r Runner, dir, name string, args ...string) bool {
	res, ok := run(ctx, r, dir, name, args)
	return ok && res.ExitCode == 0 && strings.TrimSpace(res.Stdout) != ""
}

// HasLinePrefix reports whether the process exited 0 and printed at least one
// line starting with prefix.
func HasLinePrefix(ctx context.Context, r Runner, dir, prefix, name string, args ...string) bool {
	res, ok := run(ctx, r, dir, name, args)
	if !ok || res.ExitCode != 0 {
		return false
	}
	for _, line := range strings.Split(res.Stdout, "\n") {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// SummaryEndsWith reports whether the process exited 0 and the first line of
// its output, without trailing whitespace, ends in suffix.
func SummaryEndsWith(ctx context.Context, r Runner, dir string, suffix byte, name string, args ...string) bool {
	res, ok := run(ctx, r, dir, name, args)
	if !ok || res.ExitCode != 0 {
		return false
	}
	line, _, _ := strings.Cut(res.Stdout, "\n")
	line = strings.TrimRight(line, " \t\r")
	return line != "" && line[len(line)-1] == suffix
}
