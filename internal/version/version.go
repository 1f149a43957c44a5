package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is the semantic version of the build.
	Version = "0.1.0"
	// Commit is the short git SHA embedded at build time.
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns the version with commit, build time and toolchain, prefixed by app.
func Full(app string) string {
	return fmt.Sprintf("%s %s (commit %s, built %s, %s %s/%s)",
		app, Version, Commit, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
