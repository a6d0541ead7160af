package main

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
)

var tokenExpireHours string

func init() {
	cmdToken.Flags().StringVar(&tokenExpireHours, "expire-hours", "24", "token lifetime in whole hours")
}

var cmdToken = &cobra.Command{
	Use:   "token <username> [--expire-hours <int>]",
	Short: "Generate a one-time API token",
	Long: `Generate a legacy API token for scripted access to the editor.

The token is shown exactly once; the server does not store it in a
retrievable form. Generation re-authenticates with username and password and
counts towards the same progressive lockout as sign-in.`,
	Example: `# Generate a token for alice valid for one day
easelgate token alice

# Generate a short-lived token
easelgate token alice --expire-hours 2`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{},
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := newGate()
		if err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		if err := g.waitForLockout(cmd.Context()); err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		password, err := promptPassword("Password")
		if err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		result, err := g.guard.GenerateToken(cmd.Context(), args[0], password, tokenExpireHours)
		if err != nil {
			os.Exit(1)
		}

		if !quiet() {
			hours, _ := strconv.Atoi(tokenExpireHours)
			pretty_print.PrintTokenInformation(result.Token, hours)
		}

		return nil
	},
}
