package main

import (
	"os"

	"github.com/mwendo/coursedl/cmd"
	"github.com/mwendo/coursedl/pkg/logging"
)

func main() {
	logging.SetupLogger()
	if err := cmd.GetRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
