// Package version holds build metadata for the ice binary.
package version

import "fmt"

// Set at build time via -ldflags "-X".
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// String describes the build on one line.
func String() string {
	return fmt.Sprintf("ice version %s (commit: %s, built: %s)", Version, Commit, Date)
}
