package vcs

import "errors"

var (
	// ErrNotApplicable means the backend cannot serve this directory.
	ErrNotApplicable = errors.New("backend not applicable")

	// ErrUnreadable means required metadata is missing, truncated or in no
	// known format.
	ErrUnreadable = errors.New("unreadable working copy metadata")

	// ErrStoreUnavailable means vcprobe was built without the embedded
	// store engine needed to read a modern svn working copy.
	ErrStoreUnavailable = errors.New("embedded store support not compiled in")
)
