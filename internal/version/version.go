// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X zoompan/internal/version.Version=..."
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version for logs and -version output.
func String() string {
	return fmt.Sprintf("zoompan %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
