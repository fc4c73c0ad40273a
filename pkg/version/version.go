// Package version holds build metadata injected with -ldflags -X.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build metadata. Defaults apply to plain go build / go install.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const shortCommit = 12

// InitBinaryVersion fills Version and Commit from the module build info when
// they were not injected at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == "none" && setting.Value != "" {
				Commit = setting.Value[:min(len(setting.Value), shortCommit)]
			}
		case "vcs.time":
			if Date == "unknown" && setting.Value != "" {
				Date = setting.Value
			}
		}
	}
}

// String formats the metadata for the version command.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
