package vcs

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/chmouel/vcprobe/internal/fsutil"
	"github.com/chmouel/vcprobe/internal/log"
	"github.com/chmouel/vcprobe/internal/models"
	"github.com/chmouel/vcprobe/internal/runner"
)

const (
	gitHeadPrefix  = "ref: refs/heads/"
	gitDirPrefix   = "gitdir: "
	shortIDLength  = 12
	gitMetadataDir = ".git"
)

// Git reads .git/HEAD and the branch refs directly.
type Git struct {
	env Env
}

// NewGit returns the git backend.
func NewGit(env Env) *Git {
	return &Git{env: env}
}

// Name implements Backend.
func (g *Git) Name() string { return "git" }

// Applies implements Backend. A .git file pointing elsewhere (worktrees,
// submodules) counts as well as a .git directory.
func (g *Git) Applies(dir string) bool {
	path := filepath.Join(dir, gitMetadataDir)
	if fsutil.IsDir(path) {
		return true
	}
	line, err := fsutil.ReadFirstLine(path)
	return err == nil && strings.HasPrefix(line, gitDirPrefix)
}

// Extract implements Backend.
func (g *Git) Extract(ctx context.Context, wc WorkingCopy, opts models.Options) (*models.Status, error) {
	gitDir, err := resolveGitDir(wc.Root)
	if err != nil {
		return nil, unreadable("resolve git dir: %v", err)
	}

	head, err := fsutil.ReadFirstLine(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return nil, unreadable("unable to read %s/HEAD: %v", gitDir, err)
	}

	st := &models.Status{VCS: g.Name(), Root: wc.Root}

	if branch, ok := strings.CutPrefix(head, gitHeadPrefix); ok {
		log.Printf("read a head ref from HEAD: %q", head)
		if opts.ShowBranch {
			st.Branch = branch
		}
		if opts.ShowRevision {
			if id, ok := resolveBranch(gitDir, branch); ok {
				st.Revision = shortID(id)
			} else {
				log.Printf("no ref found for branch %q", branch)
			}
		}
	} else {
		log.Printf("HEAD doesn't look like a head ref: unknown branch")
		if opts.ShowBranch {
			st.Branch = models.UnknownBranch
		}
		if opts.ShowRevision {
			st.Revision = shortID(head)
		}
	}

	if opts.ShowModified {
		st.Modified = runner.ExitStatusIs(ctx, g.env.Runner, wc.Dir, 1,
			g.env.Commands.Git, "diff", "--no-ext-diff", "--quiet", "--exit-code")
	}
	if opts.ShowUnknown {
		st.Unknown = runner.HasOutput(ctx, g.env.Runner, wc.Dir,
			g.env.Commands.Git, "ls-files", "--others", "--exclude-standard")
	}

	return st, nil
}

// resolveGitDir returns the metadata directory for a work tree rooted at
// root, following a "gitdir: <path>" file when .git is not a directory.
func resolveGitDir(root string) (string, error) {
	path := filepath.Join(root, gitMetadataDir)
	if fsutil.IsDir(path) {
		return path, nil
	}

	line, err := fsutil.ReadFirstLine(path)
	if err != nil {
		return "", err
	}
	target, ok := strings.CutPrefix(line, gitDirPrefix)
	if !ok || strings.TrimSpace(target) == "" {
		return "", os.ErrNotExist
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return filepath.Clean(target), nil
}

// commonDir returns the directory holding shared refs. Linked worktrees keep
// HEAD privately and name the shared directory in a "commondir" file.
func commonDir(gitDir string) string {
	line, err := fsutil.ReadFirstLine(filepath.Join(gitDir, "commondir"))
	if err != nil || strings.TrimSpace(line) == "" {
		return gitDir
	}
	line = strings.TrimSpace(line)
	if !filepath.IsAbs(line) {
		line = filepath.Join(gitDir, line)
	}
	return filepath.Clean(line)
}

// resolveBranch finds the commit id of refs/heads/<branch>, checking loose
// refs before packed-refs.
func resolveBranch(gitDir, branch string) (string, bool) {
	ref := "refs/heads/" + branch
	dirs := []string{gitDir}
	if common := commonDir(gitDir); common != gitDir {
		dirs = append(dirs, common)
	}

	for _, dir := range dirs {
		id, err := fsutil.ReadFirstLine(filepath.Join(dir, filepath.FromSlash(ref)))
		if err == nil && id != "" {
			log.Printf("read %s from %s", ref, dir)
			return id, true
		}
	}
	for _, dir := range dirs {
		if id, ok := lookupPackedRef(filepath.Join(dir, "packed-refs"), ref); ok {
			log.Printf("read %s from packed-refs in %s", ref, dir)
			return id, true
		}
	}
	return "", false
}

// lookupPackedRef scans a packed-refs file for "<id> <ref>".
func lookupPackedRef(path, ref string) (string, bool) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return "", false
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		id, name, ok := strings.Cut(line, " ")
		if ok && name == ref {
			return id, true
		}
	}
	return "", false
}

func shortID(id string) string {
	if len(id) > shortIDLength {
		return id[:shortIDLength]
	}
	return id
}
