package vcs

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/chmouel/vcprobe/internal/log"
	"github.com/chmouel/vcprobe/internal/models"
)

// Registry holds the backends in priority order.
type Registry struct {
	backends []Backend
}

// NewRegistry returns the standard git, hg, svn registry.
func NewRegistry(env Env) *Registry {
	return NewRegistryWith(NewGit(env), NewHg(env), NewSvn(env))
}

// NewRegistryWith builds a registry from explicit backends, tried in order.
func NewRegistryWith(backends ...Backend) *Registry {
	return &Registry{backends: append([]Backend(nil), backends...)}
}

// Names lists the backend names in priority order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		names = append(names, b.Name())
	}
	return names
}

// Detect finds the backend managing dir. Each directory from dir up to the
// filesystem root is offered to every backend in order; the first match wins.
func (r *Registry) Detect(dir string) (Backend, WorkingCopy, bool) {
	start, err := filepath.Abs(dir)
	if err != nil {
		log.Printf("cannot resolve %s: %v", dir, err)
		return nil, WorkingCopy{}, false
	}

	for current := start; ; {
		for _, b := range r.backends {
			if b.Applies(current) {
				wc := WorkingCopy{Root: current, Dir: start, RelPath: relPath(current, start)}
				log.Printf("%s applies at %s (relpath=%q)", b.Name(), current, wc.RelPath)
				return b, wc, true
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return nil, WorkingCopy{}, false
		}
		current = parent
	}
}

// Probe detects the backend for dir and extracts its status. It returns nil
// when no backend applies or the matched backend cannot read the working copy.
func (r *Registry) Probe(ctx context.Context, dir string, opts models.Options) *models.Status {
	b, wc, ok := r.Detect(dir)
	if !ok {
		log.Printf("no VCS detected from %s", dir)
		return nil
	}

	st, err := b.Extract(ctx, wc, opts)
	if err != nil {
		log.Printf("%s: %v", b.Name(), err)
		return nil
	}
	return st
}

func relPath(root, dir string) string {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func unreadable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnreadable, fmt.Sprintf(format, args...))
}
