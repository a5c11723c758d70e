// Package version provides centralized version information for ycg.
// The graph metadata block and the CLI both read from here.
package version

import "strings"

// These variables can be overridden at build time using ldflags:
// go build -ldflags "-X ycg/internal/version.Version=1.3.1 -X ycg/internal/version.Commit=abc123"
var (
	// Version is the semantic version of ycg
	Version = "1.3.0"

	// Commit is the git commit hash (set at build time)
	Commit = "unknown"

	// BuildDate is the build timestamp (set at build time)
	BuildDate = "unknown"
)

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "ycg version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}

// GraphName returns the name stamped into the metadata of every emitted graph,
// e.g. "ycg-v1.3" for version 1.3.0.
func GraphName() string {
	parts := strings.SplitN(Version, ".", 3)
	if len(parts) < 2 {
		return "ycg-v" + Version
	}
	return "ycg-v" + parts[0] + "." + parts[1]
}
