// Package buildinfo exposes version data injected at link time:
//
//	go build -ldflags "-X .../internal/buildinfo.buildVersion=v1.2.3 \
//	    -X .../internal/buildinfo.buildDate=2026-05-01 \
//	    -X .../internal/buildinfo.buildCommit=abc1234"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	buildVersion = "N/A"
	buildDate    = "N/A"
	buildCommit  = "N/A"
)

// PrintBuildData writes the build version, date, and commit to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", buildVersion)
	fmt.Fprintf(w, "Build date: %s\n", buildDate)
	fmt.Fprintf(w, "Build commit: %s\n", buildCommit)
}
