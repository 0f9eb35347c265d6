//go:build !cgo || nosqlite

package vcs

import "context"

// readStore is unavailable without the sqlite driver.
func readStore(context.Context, string, string) (svnInfo, error) {
	return svnInfo{}, ErrStoreUnavailable
}
