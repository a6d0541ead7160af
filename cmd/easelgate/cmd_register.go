package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
	"github.com/easelgate/easelgate/pkg/models"
)

var registerAdminUser string

func init() {
	cmdRegister.Flags().StringVar(&registerAdminUser, "admin-user", "",
		"admin account authorizing the registration (omit during first-admin bootstrap)")
}

var cmdRegister = &cobra.Command{
	Use:   "register <username> [--admin-user <string>]",
	Short: "Register a new editor user",
	Long: `Register a new user account on the editor.

Usernames must be at least 3 characters of letters, digits or underscores.
Passwords must be at least 8 characters and contain a digit and a symbol.

Once an admin account exists, registrations must be authorized by an admin:
pass --admin-user and enter that account's password when prompted. The very
first registration bootstraps the admin account and needs no authorization.`,
	Example: `# Bootstrap the first (admin) account
easelgate register alice

# Register bob, authorized by admin alice
easelgate register bob --admin-user alice`,
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

		req := models.RegisterRequest{Username: args[0]}

		req.Password, err = promptPassword("New user password")
		if err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		if registerAdminUser != "" {
			req.AdminUsername = registerAdminUser
			req.AdminPassword, err = promptPassword("Admin password")
			if err != nil {
				pretty_print.PrintError(err)
				os.Exit(1)
			}
		}

		if _, err := g.guard.Register(cmd.Context(), req); err != nil {
			os.Exit(1)
		}

		return nil
	},
}
