package main

import (
	"os"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spf13/cobra"

	"github.com/easelgate/easelgate/internal/cli/async_operation"
	"github.com/easelgate/easelgate/internal/cli/pretty_print"
	"github.com/easelgate/easelgate/pkg/agent"
	"github.com/easelgate/easelgate/pkg/models"
)

var cmdStatus = &cobra.Command{
	Use:   "status",
	Short: "Show the agent's identity, capability and lockout state",
	Long: `Query the local enforcement agent for the identity it is acting on, the
capability decisions derived from the group policy, and the current
progressive-lockout state.`,
	Example: `# Show the current enforcement state
easelgate status`,
	Args:      cobra.ExactArgs(0),
	ValidArgs: []string{},
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner := async_operation.NewSpinner(
			func() (*models.WhoAmIResponse, humane.Error) {
				return doAgentRequest[models.WhoAmIResponse](cmd.Context(), agent.WhoAmIRoute)
			},
			async_operation.WithInProgressMessage("Querying the enforcement agent..."),
			async_operation.WithDoneMessage("Agent reached"),
			async_operation.WithMaxAttempts(3),
			async_operation.WithQuiet(quiet()),
		)

		who, err := spinner.Run(cmd.Context())
		if err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		lk, err := doAgentRequest[models.LockoutStatus](cmd.Context(), agent.LockoutRoute)
		if err != nil {
			pretty_print.PrintError(err)
			os.Exit(1)
		}

		whoami := *who
		if whoami.User != nil {
			pretty_print.PrintLoginInformation(whoami.User)
		} else {
			pretty_print.PrintInfo("No user is signed in; enforcing guest capabilities.")
		}

		pretty_print.PrintCapabilityTable(whoami.Role, whoami.Capabilities)
		pretty_print.PrintLockoutState(lk.FailedAttempts, lk.RemainingSeconds, lk.WaitMessage)

		return nil
	},
}
