// Package main provides the entry point for the modelscout CLI tool.
package main

import "github.com/modelscout/modelscout/cmd/modelscout/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
