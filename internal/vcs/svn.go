package vcs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/chmouel/vcprobe/internal/fsutil"
	"github.com/chmouel/vcprobe/internal/log"
	"github.com/chmouel/vcprobe/internal/models"
	"github.com/chmouel/vcprobe/internal/runner"
)

const (
	svnMetadataDir = ".svn"
	svnStoreFile   = "wc.db"
	svnEntriesFile = "entries"
)

// Svn reads either the wc.db store (svn >= 1.7) or the legacy entries file.
type Svn struct {
	env Env
}

// NewSvn returns the subversion backend.
func NewSvn(env Env) *Svn {
	return &Svn{env: env}
}

// Name implements Backend.
func (s *Svn) Name() string { return "svn" }

// Applies implements Backend.
func (s *Svn) Applies(dir string) bool {
	return fsutil.IsDir(filepath.Join(dir, svnMetadataDir))
}

// Extract implements Backend. Branch and revision come from one parse of the
// metadata; if that parse fails nothing is reported.
func (s *Svn) Extract(ctx context.Context, wc WorkingCopy, opts models.Options) (*models.Status, error) {
	info, err := s.readInfo(ctx, wc)
	if err != nil {
		return nil, err
	}

	st := &models.Status{VCS: s.Name(), Root: wc.Root}
	if opts.ShowBranch {
		st.Branch = SimplifyBranch(info.ReposPath)
	}
	if opts.ShowRevision {
		st.Revision = info.Revision
	}

	if !opts.ShowModified && !opts.ShowUnknown {
		return st, nil
	}
	if reason := s.skipStatusChecks(wc); reason != "" {
		log.Printf("skipping svn modified/unknown checks: %s", reason)
		return st, nil
	}

	if opts.ShowModified {
		st.Modified = runner.SummaryEndsWith(ctx, s.env.Runner, wc.Dir, 'M',
			s.env.Commands.SvnVersion, ".")
	}
	if opts.ShowUnknown {
		st.Unknown = runner.HasLinePrefix(ctx, s.env.Runner, wc.Dir, "?",
			s.env.Commands.Svn, "status", "--depth=immediates")
	}

	return st, nil
}

func (s *Svn) readInfo(ctx context.Context, wc WorkingCopy) (svnInfo, error) {
	store := filepath.Join(wc.Root, svnMetadataDir, svnStoreFile)
	if fsutil.Exists(store) {
		log.Printf("reading svn store %s (relpath=%q)", store, wc.RelPath)
		info, err := readStore(ctx, store, wc.RelPath)
		if errors.Is(err, ErrStoreUnavailable) {
			return svnInfo{}, fmt.Errorf("%w: %w", ErrNotApplicable, err)
		}
		return info, err
	}

	return readEntries(filepath.Join(wc.Root, svnMetadataDir, svnEntriesFile))
}

// skipStatusChecks returns a non-empty reason when the subprocess checks
// must not run for wc.
func (s *Svn) skipStatusChecks(wc WorkingCopy) string {
	if dir, ok := modifiedCheckIgnored(wc, s.env.ignoresModified); ok {
		return "ignore_modified is set for " + dir
	}
	if s.env.NetworkFSCheck && networkFS(wc.Dir) {
		return wc.Dir + " is on a network filesystem"
	}
	return ""
}

// modifiedCheckIgnored walks from wc.Dir up to wc.Root, then further up for
// as long as the parent still carries .svn, asking ignored about each
// directory. It returns the first directory for which ignored is true.
func modifiedCheckIgnored(wc WorkingCopy, ignored func(dir string) bool) (string, bool) {
	dir := wc.Dir
	if dir == "" {
		dir = wc.Root
	}

	pastRoot := false
	for {
		if ignored(dir) {
			return dir, true
		}
		if dir == wc.Root {
			pastRoot = true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		if pastRoot && !fsutil.IsDir(filepath.Join(parent, svnMetadataDir)) {
			return "", false
		}
		dir = parent
	}
}
