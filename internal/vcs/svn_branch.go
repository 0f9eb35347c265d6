package vcs

import "strings"

// SimplifyBranch turns a repository-relative path into a short branch label:
//
//	trunk, proj/trunk          -> trunk
//	branches/foo/src           -> foo
//	proj/branches/foo/src      -> proj/foo
//	anything/else              -> anything
func SimplifyBranch(reposPath string) string {
	p := strings.Trim(reposPath, "/")
	if p == "" {
		return ""
	}
	if p == "trunk" || strings.HasSuffix(p, "/trunk") {
		return "trunk"
	}

	segments := strings.Split(p, "/")
	for i, segment := range segments {
		if segment != "branches" || i+1 >= len(segments) {
			continue
		}
		if i == 0 {
			return segments[1]
		}
		return strings.Join(segments[:i], "/") + "/" + segments[i+1]
	}

	return segments[0]
}
