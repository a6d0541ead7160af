package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
)

var loginAsGuest bool

func init() {
	cmdLogin.Flags().BoolVar(&loginAsGuest, "guest", false, "start an anonymous guest session instead of signing in")
}

var cmdLogin = &cobra.Command{
	Use:     "login [username] [--guest]",
	Aliases: []string{"signin"},
	Short:   "Sign in to the visual editor",
	Long: `Sign in to the visual editor with a username and password, or start an
anonymous guest session with --guest.

Failed attempts count towards a progressive lockout: after 3 failures sign-in
is blocked for 60 seconds, after 6 for 90 seconds and after 9 for 5 minutes.
When a lockout window is active the command waits it out with a countdown
before submitting.`,
	Example: `# Sign in as alice (password is prompted)
easelgate login alice

# Start a guest session
easelgate login --guest`,
	Args:      cobra.MaximumNArgs(1),
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

		if loginAsGuest {
			if _, err := g.guard.GuestLogin(cmd.Context()); err != nil {
				os.Exit(1)
			}
		} else {
			if len(args) == 0 {
				pretty_print.PrintErrorMessage("a username is required unless --guest is given")
				os.Exit(1)
			}

			password, err := promptPassword("Password")
			if err != nil {
				pretty_print.PrintError(err)
				os.Exit(1)
			}

			if _, err := g.guard.Login(cmd.Context(), args[0], password); err != nil {
				os.Exit(1)
			}
		}

		if quiet() {
			return nil
		}

		// Show who the server now sees us as.
		if user, err := g.client.FetchCurrentUser(cmd.Context()); err == nil {
			pretty_print.PrintLoginInformation(user)
		}

		return nil
	},
}
