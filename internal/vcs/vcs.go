// Package vcs detects which version-control system manages a directory and
// extracts a short status summary from its on-disk metadata.
//
// Backends are tried in a fixed order (git, hg, svn); the first one whose
// metadata directory is present wins and no results are merged.
package vcs

import (
	"context"

	"github.com/chmouel/vcprobe/internal/models"
	"github.com/chmouel/vcprobe/internal/runner"
)

// WorkingCopy locates the directory being probed relative to the working
// copy that manages it.
type WorkingCopy struct {
	// Root is the directory holding the backend's metadata directory.
	Root string
	// Dir is the directory the probe started from. Subprocesses run here.
	Dir string
	// RelPath is the slash-separated path from Root to Dir, "" when equal.
	RelPath string
}

// Backend is the format-specific logic for one VCS family.
type Backend interface {
	// Name is the short identifier rendered by %n.
	Name() string
	// Applies reports whether dir carries this backend's metadata directory.
	Applies(dir string) bool
	// Extract reads the status of wc. A non-nil error means no status at all;
	// a partially filled record is never returned alongside an error.
	Extract(ctx context.Context, wc WorkingCopy, opts models.Options) (*models.Status, error)
}

// Commands names the executables used for the subprocess checks.
type Commands struct {
	Git        string
	Hg         string
	Svn        string
	SvnVersion string
}

// DefaultCommands returns the executables looked up in PATH by default.
func DefaultCommands() Commands {
	return Commands{
		Git:        "git",
		Hg:         "hg",
		Svn:        "svn",
		SvnVersion: "svnversion",
	}
}

// Env carries what backends need from the caller.
type Env struct {
	Runner   runner.Runner
	Commands Commands
	// IgnoreModified reports whether dir is configured to skip the svn
	// modification and untracked checks. Nil means never.
	IgnoreModified func(dir string) bool
	// NetworkFSCheck enables skipping svn subprocess checks on network mounts.
	NetworkFSCheck bool
}

// DefaultEnv returns an Env that spawns real processes with default names.
func DefaultEnv() Env {
	return Env{
		Runner:         runner.Exec{},
		Commands:       DefaultCommands(),
		NetworkFSCheck: true,
	}
}

func (e Env) ignoresModified(dir string) bool {
	return e.IgnoreModified != nil && e.IgnoreModified(dir)
}
