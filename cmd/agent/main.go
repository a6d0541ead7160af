package main

import (
	"os"

	"github.com/easelgate/easelgate/internal/cli/cmd"
)

var cmdRoot = cmd.NewAgentRootCmd()

func main() {
	cmdRoot.AddCommand(serveCmd)

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}
