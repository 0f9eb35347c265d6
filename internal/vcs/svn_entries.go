package vcs

import (
	"bufio"
	"errors"
	"io"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/chmouel/vcprobe/internal/fsutil"
	"github.com/chmouel/vcprobe/internal/log"
)

// Line numbers (1-based) of the numbered entries format written by svn 1.4-1.6.
const (
	entriesURLLine      = 5
	entriesReposLine    = 6
	entriesRevisionLine = 11
)

var (
	xmlRevisionRe = regexp.MustCompile(`revision=[^"]*"([0-9]+)"`)
	xmlURLRe      = regexp.MustCompile(`\burl="([^"]*)"`)
	xmlReposRe    = regexp.MustCompile(`\brepos="([^"]*)"`)
)

// svnInfo is what either svn era yields. ReposPath is relative to the
// repository root and may be empty when the format does not record it.
type svnInfo struct {
	ReposPath string
	Revision  string
}

// readEntries parses a legacy .svn/entries file.
func readEntries(path string) (svnInfo, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return svnInfo{}, unreadable("failed to read from %s: %v", path, err)
	}
	defer f.Close()

	return parseEntries(bufio.NewReader(f))
}

func parseEntries(r *bufio.Reader) (svnInfo, error) {
	first, err := readLine(r)
	if err != nil {
		return svnInfo{}, unreadable("empty entries file")
	}
	if first != "" && first[0] >= '0' && first[0] <= '9' {
		return parseNumberedEntries(r)
	}
	return parseXMLEntries(first, r)
}

// parseNumberedEntries reads the text format after its format-number line.
func parseNumberedEntries(r *bufio.Reader) (svnInfo, error) {
	var entryURL, root, revision string

	for lineNo := 2; lineNo <= entriesRevisionLine; lineNo++ {
		line, err := readLine(r)
		if err != nil {
			return svnInfo{}, unreadable("early EOF reading entries at line %d", lineNo)
		}
		switch lineNo {
		case entriesURLLine:
			entryURL = line
		case entriesReposLine:
			root = line
		case entriesRevisionLine:
			revision = line
		}
	}

	if !strings.HasPrefix(entryURL, root) {
		return svnInfo{}, unreadable("url %q is not inside repository root %q", entryURL, root)
	}

	info := svnInfo{ReposPath: unescapePath(strings.TrimPrefix(entryURL, root)), Revision: revision}
	log.Printf("read svn entries: repos path %q, revision %q", info.ReposPath, info.Revision)
	return info, nil
}

// parseXMLEntries scans the pre-1.4 XML-ish format for the first entry's
// revision attribute, collecting url and repos on the way.
func parseXMLEntries(first string, r *bufio.Reader) (svnInfo, error) {
	var (
		info             svnInfo
		entryURL, root   string
		revisionLineSeen bool
		foundRevision    bool
		err              error
	)
	line := first

	for {
		if m := xmlURLRe.FindStringSubmatch(line); m != nil && entryURL == "" {
			entryURL = m[1]
		}
		if m := xmlReposRe.FindStringSubmatch(line); m != nil && root == "" {
			root = m[1]
		}
		if !revisionLineSeen && strings.Contains(line, "revision=") {
			revisionLineSeen = true
			if m := xmlRevisionRe.FindStringSubmatch(line); m != nil {
				info.Revision = m[1]
				foundRevision = true
			}
		}
		if revisionLineSeen && strings.Contains(line, ">") {
			break
		}

		line, err = readLine(r)
		if err != nil {
			break
		}
	}

	if !revisionLineSeen {
		return svnInfo{}, unreadable("no 'revision=' line found in entries")
	}
	if !foundRevision {
		log.Printf("revision attribute in entries is not numeric")
	}
	if entryURL != "" && root != "" && strings.HasPrefix(entryURL, root) {
		info.ReposPath = unescapePath(strings.TrimPrefix(entryURL, root))
	}
	log.Printf("read svn XML entries: repos path %q, revision %q", info.ReposPath, info.Revision)
	return info, nil
}

// readLine returns the next line without its terminator. A final line with
// no newline is still returned; io.EOF means there was nothing left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return fsutil.ChopNewline(line), nil
		}
		return "", err
	}
	return fsutil.ChopNewline(line), nil
}

func unescapePath(p string) string {
	if unescaped, err := url.PathUnescape(p); err == nil {
		return unescaped
	}
	return p
}
