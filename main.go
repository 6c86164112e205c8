package main

import (
	"github.com/jo-hoe/go-request-template/app/command"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	command.Version = version
	command.GitCommit = gitCommit
	command.BuildDate = buildDate

	command.Execute()
}
