//go:build darwin

package vcs

import (
	"golang.org/x/sys/unix"

	"github.com/chmouel/vcprobe/internal/log"
)

var networkFSTypes = map[string]bool{
	"nfs":    true,
	"smbfs":  true,
	"afpfs":  true,
	"webdav": true,
	"cifs":   true,
}

func isNetworkFS(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		log.Printf("statfs %s: %v", path, err)
		return false
	}

	fsType := unix.ByteSliceToString(st.Fstypename[:])
	if networkFSTypes[fsType] {
		log.Printf("%s is on a network filesystem (%s)", path, fsType)
		return true
	}
	return false
}
