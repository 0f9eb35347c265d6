// Package buildinfo holds the build metadata of the vcprobe binary. The
// linker fills variables in cmd/vcprobe, which forwards them with Set.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

// Info is the metadata printed by --version.
type Info struct {
	Version string
	Commit  string
	Date    string
	BuiltBy string
}

var current = Info{
	Version: "dev",
	Commit:  "none",
	Date:    "unknown",
	BuiltBy: "unknown",
}

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// Set stores the linker-injected metadata.
func Set(info Info) { current = info }

// Get returns the stored metadata.
func Get() Info { return current }

// Version returns the build version string.
func Version() string { return current.Version }

// Enrich fills the commit from the embedded VCS revision when it was not
// injected, and the builder from the Go version.
func Enrich() {
	if current.Commit != "none" && current.BuiltBy != "unknown" {
		return
	}

	info, ok := readBuildInfo()
	if !ok {
		return
	}

	if current.Commit == "none" {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.revision" {
				current.Commit = setting.Value
			}
		}
	}
	if current.BuiltBy == "unknown" {
		current.BuiltBy = info.GoVersion
	}
}

// String renders the --version details below the program name.
func (i Info) String() string {
	return fmt.Sprintf("version %s\ncommit: %s\nbuilt at: %s\nbuilt by: %s", i.Version, i.Commit, i.Date, i.BuiltBy)
}
