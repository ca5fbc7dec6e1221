// Package version reports the ecofocus build version.
package version

import "github.com/Masterminds/semver/v3"

// Set at build time via -ldflags "-X github.com/rshade/ecofocus/pkg/version.version=...".
//
//nolint:gochecknoglobals // Overridden by the linker.
var (
	version   = "0.1.0-dev"
	gitCommit = ""
	buildDate = ""
)

// GetVersion returns the semantic version without a leading "v".
func GetVersion() string {
	if v, err := semver.NewVersion(version); err == nil {
		return v.String()
	}
	return version
}

// GetGitCommit returns the commit the binary was built from, if known.
func GetGitCommit() string {
	return gitCommit
}

// GetBuildDate returns the build timestamp, if known.
func GetBuildDate() string {
	return buildDate
}

// String renders the version line shown by --version.
func String() string {
	s := GetVersion()
	if gitCommit != "" {
		s += " (" + gitCommit
		if buildDate != "" {
			s += ", built " + buildDate
		}
		s += ")"
	}
	return s
}
