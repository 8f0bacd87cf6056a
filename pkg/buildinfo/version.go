// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/draddo11/Holiday/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/draddo11/Holiday/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/draddo11/Holiday/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/travelsnap
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3"). The API reports it
	// from /healthz.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Template returns the --version template for cobra.
func Template() string {
	return fmt.Sprintf("{{.Name}} %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
