package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
)

var cmdLogout = &cobra.Command{
	Use:     "logout [--quiet|-q]",
	Aliases: []string{"signout"},
	Short:   "End the current editor session",
	Long: `End the current editor session and drop the stored session cookie. The
session cookie is cleared locally even when the server cannot be reached.`,
	Example: `# Sign out
easelgate logout

# Quiet mode (no output)
easelgate logout --quiet`,
	Args:      cobra.ExactArgs(0),
	ValidArgs: []string{},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGate()
		if err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		if err := g.client.Logout(cmd.Context()); err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		if !quiet() {
			pretty_print.PrintOk("You have been signed out")
		}

		return nil
	},
}
