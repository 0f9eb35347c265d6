// Package models defines the data objects shared across vcprobe packages.
package models

// UnknownBranch is reported when a branch was computed but could not be named,
// e.g. a detached git HEAD.
const UnknownBranch = "(unknown)"

// Options selects which optional extraction steps a backend performs.
// Every flag gates exactly one step; nothing is implied by another flag.
type Options struct {
	ShowBranch   bool
	ShowRevision bool
	ShowModified bool
	ShowUnknown  bool
	Debug        bool
}

// Any reports whether at least one extraction step was requested.
func (o Options) Any() bool {
	return o.ShowBranch || o.ShowRevision || o.ShowModified || o.ShowUnknown
}

// Status is the summary extracted from a working copy by one backend.
//
// An empty Branch or Revision means the value was not computed. A computed
// but indeterminate branch is UnknownBranch, never the empty string.
type Status struct {
	VCS      string // backend name: git, hg, svn
	Root     string // working-copy directory the backend matched
	Branch   string
	Revision string // truncated hash, mq patch name or numeric revision
	Modified bool   // only set on an affirmative signal
	Unknown  bool   // untracked files present, same policy as Modified
}
