// Package version holds the release string, overridden at link time:
//
//	go build -ldflags "-X bcseq/internal/version.Version=v1.2.3" ./cmd/bcseq
package version

var Version = "dev"
