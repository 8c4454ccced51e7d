// Package version carries build metadata injected with -ldflags, e.g.
//
//	-X github.com/MrSnakeDoc/solvelog/internal/version.Version=v0.3.0
//
// Commit and BuildDate fall back to the VCS stamp of the binary.
package version

import (
	"runtime"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
	GoVersion = runtime.Version()
)

func init() {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && Commit == "":
				Commit = s.Value[:min(len(s.Value), 12)]
			case s.Key == "vcs.time" && BuildDate == "":
				BuildDate = s.Value
			}
		}
	}
	if Commit == "" {
		Commit = "none"
	}
}

// UserAgent identifies solvelog on outgoing page fetches.
func UserAgent() string {
	return "Mozilla/5.0 (compatible; solvelog/" + Version + ")"
}
