// Package buildinfo carries release metadata stamped in at build time.
package buildinfo

// Set via -ldflags by the release build; the zero values mark a
// from-source development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the version line shown by teller --version.
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
