//go:build cgo && !nosqlite

package vcs

import (
	"context"
	"database/sql"
	"errors"
	"net/url"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver

	"github.com/chmouel/vcprobe/internal/log"
)

const (
	revisionQuery  = `SELECT MAX(changed_revision) FROM nodes WHERE local_relpath = ''`
	reposPathQuery = `SELECT n.repos_path FROM nodes n JOIN wcroot w ON w.id = n.wc_id
WHERE n.local_relpath = ? ORDER BY n.op_depth LIMIT 1`
)

// readStore queries a wc.db for the root revision and the repository path
// of relPath. A missing row or a NULL value is a failure.
func readStore(ctx context.Context, path, relPath string) (svnInfo, error) {
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return svnInfo{}, unreadable("open %s: %v", path, err)
	}
	defer db.Close()

	var revision sql.NullString
	if err := db.QueryRowContext(ctx, revisionQuery).Scan(&revision); err != nil {
		return svnInfo{}, unreadable("query revision in %s: %v", path, err)
	}
	if !revision.Valid {
		return svnInfo{}, unreadable("no changed revision recorded in %s", path)
	}

	var reposPath sql.NullString
	err = db.QueryRowContext(ctx, reposPathQuery, relPath).Scan(&reposPath)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return svnInfo{}, unreadable("no node for %q in %s", relPath, path)
	case err != nil:
		return svnInfo{}, unreadable("query repos path in %s: %v", path, err)
	case !reposPath.Valid:
		return svnInfo{}, unreadable("no repository path for %q in %s", relPath, path)
	}

	log.Printf("read svn store: repos path %q, revision %q", reposPath.String, revision.String)
	return svnInfo{ReposPath: reposPath.String, Revision: revision.String}, nil
}
