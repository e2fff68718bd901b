// Package version reports the svcwatch build version.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time with
//
//	-ldflags "-X github.com/svcwatch/svcwatch-go/pkg/version.Version=1.2.0"
var (
	Version = "dev"
	Commit  = ""
)

// String returns a one-line description of the running build.
func String() string {
	commit := Commit
	if commit == "" {
		commit = vcsRevision()
	}
	if commit == "" {
		return "svcwatch " + Version
	}
	return fmt.Sprintf("svcwatch %s (%s)", Version, commit)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 12 {
			return s.Value[:12]
		}
	}
	return ""
}
