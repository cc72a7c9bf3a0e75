// Package version provides build and version information for vibesync.
package version

// Version is the current release version of the sync engine.
// This can be overridden at build time using:
//
//	go build -ldflags "-X github.com/dkrahn/vibesync/internal/version.Version=x.y.z"
var Version = "1.0.0"
