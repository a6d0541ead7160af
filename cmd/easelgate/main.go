package main

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/easelgate/easelgate/internal/cli/cmd"
	"github.com/easelgate/easelgate/internal/cli/pretty_print"
)

var cmdRoot = cmd.NewCliRootCmd()

func main() {
	cmdRoot.AddCommand(cmdLogin)
	cmdRoot.AddCommand(cmdLogout)
	cmdRoot.AddCommand(cmdRegister)
	cmdRoot.AddCommand(cmdToken)
	cmdRoot.AddCommand(cmdStatus)

	if err := cmdRoot.Execute(); err != nil {
		// Cobra already printed the error through the configured error
		// functions, so only annotate unexpected ones here.
		if !strings.Contains(err.Error(), "unknown command") {
			pretty_print.PrintErrorMessage(err.Error())
		}
		os.Exit(1)
	}
}

func quiet() bool {
	return viper.GetBool("output.quiet")
}

func editorURL() string {
	return viper.GetString("editor.url")
}

func agentURL() string {
	return viper.GetString("agent.url")
}
