// Package version reports the build's semantic version and VCS details.
package version

import (
	_ "embed"
	"fmt"
	"runtime/debug"
	"strings"
)

//go:embed VERSION
var versionFile string

// Set via -ldflags "-X github.com/leefowlercu/mhtmlfix/internal/version.gitCommit=VALUE".
var (
	gitCommit string
	buildDate string
)

// Unknown is reported for build details that were not recorded.
const Unknown = "unknown"

// Info describes the running binary.
type Info struct {
	Version   string
	GitCommit string
	BuildDate string
}

// String formats Info for human-readable display.
func (i Info) String() string {
	return fmt.Sprintf("Version:    %s\nGit Commit: %s\nBuild Date: %s",
		i.Version, i.GitCommit, i.BuildDate)
}

// Short returns "mhtmlfix <version>", with the commit appended when known.
func (i Info) Short() string {
	if i.GitCommit == "" || i.GitCommit == Unknown {
		return "mhtmlfix " + i.Version
	}
	return fmt.Sprintf("mhtmlfix %s (%s)", i.Version, i.GitCommit)
}

// Get returns the version information of the running binary.
func Get() Info {
	return Info{
		Version:   strings.TrimSpace(versionFile),
		GitCommit: resolveCommit(gitCommit, readBuildInfo),
		BuildDate: orUnknown(buildDate),
	}
}

// resolveCommit prefers the linker value, then VCS build info.
func resolveCommit(linked string, buildInfo func() (string, bool)) string {
	if linked != "" {
		return linked
	}
	revision, dirty := buildInfo()
	if revision == "" {
		return Unknown
	}
	if dirty {
		return revision + "-dirty"
	}
	return revision
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}

// readBuildInfo returns the VCS revision shortened to 7 characters and
// whether the tree was modified.
func readBuildInfo() (revision string, dirty bool) {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "", false
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}

	return revision, dirty
}
