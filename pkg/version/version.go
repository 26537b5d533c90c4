// Package version holds build-time version information for importcheck.
package version

import "runtime/debug"

// Build metadata, overridden with -ldflags "-X" at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// InitBinaryVersion fills Version and Commit from module build info when
// the binary was not built with ldflags (e.g. `go install`).
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && Commit == "none" {
			Commit = setting.Value
		}
	}
}
