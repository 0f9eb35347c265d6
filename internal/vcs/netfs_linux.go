//go:build linux

package vcs

import (
	"golang.org/x/sys/unix"

	"github.com/chmouel/vcprobe/internal/log"
)

// statfs f_type magic numbers of the network filesystems we know about.
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517B
	smb2SuperMagic = 0xFE534D42
	cifsSuperMagic = 0xFF534D42
	afsSuperMagic  = 0x5346414F
	codaSuperMagic = 0x73757245
	ncpSuperMagic  = 0x564C
)

func isNetworkFS(path string) bool {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		log.Printf("statfs %s: %v", path, err)
		return false
	}

	switch uint32(st.Type) { //nolint:gosec
	case nfsSuperMagic, smbSuperMagic, smb2SuperMagic, cifsSuperMagic,
		afsSuperMagic, codaSuperMagic, ncpSuperMagic:
		log.Printf("%s is on a network filesystem (type 0x%x)", path, uint32(st.Type)) //nolint:gosec
		return true
	}
	return false
}
