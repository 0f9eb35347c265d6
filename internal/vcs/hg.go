package vcs

import (
	"bytes"
	"context"
	"encoding/hex"
	"path/filepath"
	"strings"

	"github.com/chmouel/vcprobe/internal/fsutil"
	"github.com/chmouel/vcprobe/internal/log"
	"github.com/chmouel/vcprobe/internal/models"
	"github.com/chmouel/vcprobe/internal/runner"
)

const (
	hgMetadataDir = ".hg"
	hgDefault     = "default"

	// nodeIDLength is the size of a binary changeset id.
	nodeIDLength = 20
	// nodeIDShown is how many leading bytes of a node id are rendered (12 hex digits).
	nodeIDShown = 6

	// dirstate-v2 dockets start with this marker followed by two parents
	// padded to 32 bytes each.
	dirstateV2Marker    = "dirstate-v2\n"
	dirstateV2NodeWidth = 32
)

// Hg reads the bookmark, branch, mq and dirstate files under .hg.
type Hg struct {
	env Env
}

// NewHg returns the mercurial backend.
func NewHg(env Env) *Hg {
	return &Hg{env: env}
}

// Name implements Backend.
func (h *Hg) Name() string { return "hg" }

// Applies implements Backend.
func (h *Hg) Applies(dir string) bool {
	return fsutil.IsDir(filepath.Join(dir, hgMetadataDir))
}

// Extract implements Backend. Missing metadata files only skip the step
// that needs them; mercurial extraction itself never fails.
func (h *Hg) Extract(ctx context.Context, wc WorkingCopy, opts models.Options) (*models.Status, error) {
	hgDir := filepath.Join(wc.Root, hgMetadataDir)
	st := &models.Status{VCS: h.Name(), Root: wc.Root}

	if opts.ShowBranch {
		st.Branch = hgBranch(hgDir)
	}

	if opts.ShowRevision {
		// the name of the topmost applied mq patch is treated as the revision
		if patch, ok := mqPatch(hgDir); ok {
			st.Revision = patch
		} else if rev, ok := dirstateRevision(hgDir); ok {
			st.Revision = rev
		}
	}

	if opts.ShowModified {
		st.Modified = runner.HasOutput(ctx, h.env.Runner, wc.Dir,
			h.env.Commands.Hg, "--quiet", "status", "--modified", "--added", "--removed", "--deleted")
	}
	if opts.ShowUnknown {
		st.Unknown = runner.HasOutput(ctx, h.env.Runner, wc.Dir,
			h.env.Commands.Hg, "--quiet", "status", "--unknown")
	}

	return st, nil
}

// hgBranch prefers the active bookmark, then the named branch, then "default".
func hgBranch(hgDir string) string {
	bookmarks := filepath.Join(hgDir, "bookmarks.current")
	if line, err := fsutil.ReadFirstLine(bookmarks); err == nil && line != "" {
		log.Printf("read first line from %s: %q", bookmarks, line)
		return line
	}

	branchFile := filepath.Join(hgDir, "branch")
	if line, err := fsutil.ReadFirstLine(branchFile); err == nil && line != "" {
		log.Printf("read first line from %s: %q", branchFile, line)
		return line
	}

	log.Printf("failed to read from %s: assuming default branch", branchFile)
	return hgDefault
}

// mqPatch returns the patch name from the last line ("<id>:<name>") of the
// mq status file.
func mqPatch(hgDir string) (string, bool) {
	status := filepath.Join(hgDir, "patches", "status")
	line, err := fsutil.ReadLastLine(status)
	if err != nil {
		log.Printf("failed to read from %s: assuming no mq patch applied", status)
		return "", false
	}
	log.Printf("read last line from %s: %q", status, line)

	_, patch, ok := strings.Cut(line, ":")
	if !ok || patch == "" {
		return "", false
	}
	log.Printf("patch name found: %q", patch)
	return patch, true
}

// dirstateRevision renders the working copy parents recorded in the
// dirstate as "p1" or, during a merge, "p1,p2".
func dirstateRevision(hgDir string) (string, bool) {
	path := filepath.Join(hgDir, "dirstate")

	p1, p2, err := readDirstateParents(path)
	if err != nil {
		log.Printf("failed to read from %s: %v", path, err)
		return "", false
	}
	log.Printf("read nodeids from %s", path)
	return formatParents(p1, p2)
}

func readDirstateParents(path string) ([]byte, []byte, error) {
	header, err := fsutil.ReadBytes(path, len(dirstateV2Marker))
	if err == nil && string(header) == dirstateV2Marker {
		buf, err := fsutil.ReadBytes(path, len(dirstateV2Marker)+2*dirstateV2NodeWidth)
		if err != nil {
			return nil, nil, err
		}
		buf = buf[len(dirstateV2Marker):]
		return buf[:nodeIDLength], buf[dirstateV2NodeWidth : dirstateV2NodeWidth+nodeIDLength], nil
	}

	buf, err := fsutil.ReadBytes(path, 2*nodeIDLength)
	if err != nil {
		return nil, nil, err
	}
	return buf[:nodeIDLength], buf[nodeIDLength:], nil
}

// formatParents renders two binary node ids. An all-zero first parent means
// there is nothing to report.
func formatParents(p1, p2 []byte) (string, bool) {
	if isNullNode(p1) {
		return "", false
	}

	rev := hex.EncodeToString(p1[:nodeIDShown])
	if !isNullNode(p2) {
		rev += "," + hex.EncodeToString(p2[:nodeIDShown])
	}
	return rev, true
}

func isNullNode(id []byte) bool {
	return len(bytes.Trim(id, "\x00")) == 0
}
