package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/xab-mack/mythx-cli/internal/report"
)

// version is set at build time with -ldflags "-X".
var version = "dev"

// Version returns the release version, annotated with the VCS revision when
// the binary carries build info.
func Version() string {
	rev, modified := "", false
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				rev = s.Value
			case "vcs.modified":
				modified = s.Value == "true"
			}
		}
	}
	if rev == "" {
		return version
	}
	rev = short(rev)
	if modified {
		rev += "-dirty"
	}
	return fmt.Sprintf("%s (commit %s)", version, rev)
}

func short(s string) string {
	if len(s) > 7 {
		return s[:7]
	}
	return s
}

func formatNames() string {
	return strings.Join(report.Names(), "|")
}
