// Package buildinfo holds release metadata stamped at link time:
//
//	go build -ldflags "-X github.com/cleared-dev/ledgerlab/internal/buildinfo.Version=v0.3.0" ./cmd/ledgerlab
package buildinfo

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)
