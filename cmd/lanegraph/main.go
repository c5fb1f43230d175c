package main

import (
	"os"

	"github.com/mvollmer/lanegraph/internal/cli"
	"github.com/mvollmer/lanegraph/pkg/buildinfo"
)

func main() {
	cli.SetVersion(buildinfo.Version, buildinfo.Commit, buildinfo.Date)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
