package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
	"github.com/easelgate/easelgate/internal/utils"
)

func NewRootCmd() *cobra.Command {
	cobra.OnInitialize(initConfig)

	// rootCmd represents the base command when called without any subcommands
	cmdRoot := cobra.Command{
		Use:   "easelgate",
		Short: "easelgate is the access-control companion for the visual editor",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.InitObservability()
		},
	}

	cmdRoot.AddCommand(newVersionCmd())
	errPrefix := pretty_print.FormatWithOptions(pretty_print.ErrLvl, "Error:", []string{}, pretty_print.WithoutNewline())
	cmdRoot.SetErrPrefix(errPrefix)

	cmdRoot.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		initConfig()
		pretty_print.PrintHelpText(cmd, args)
	})
	cmdRoot.SetUsageFunc(func(cmd *cobra.Command) error {
		initConfig()
		fmt.Println("")
		pretty_print.PrintUsageText(cmd, []string{})
		return nil
	})
	cmdRoot.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		initConfig()
		pretty_print.PrintErrorMessage(err.Error())
		fmt.Println("")
		pretty_print.PrintHelpText(cmd, []string{})
		return nil
	})

	return &cmdRoot
}

func NewCliRootCmd() *cobra.Command {
	cmdRoot := NewRootCmd()
	addClientFlags(cmdRoot)
	cmdRoot.Use = "easelgate [--config|-c <string>] [--debug] [--editor|-s <string>] [--theme|-t <string>]"

	cmdRoot.Long = `easelgate is the access-control companion for the visual editor. It lets you log in (including guest sessions), register users, generate one-time API tokens, and inspect the lockout and capability state with readable, themed output.

### Theming

Control the CLI's look and feel using one of the following:

- Flag: ` + "`--theme`" + ` or ` + "`-t`" + `
- Config: ` + "`theme`" + ` (in config file)
- Environment: ` + "`EASELGATE_THEME`" + `

**Accepted themes**: ascii, dark, dracula, *tokyo-night*, light

### Notes

- Global flags like ` + "`--theme`" + ` are available to subcommands`

	cmdRoot.Example = `# generic dark theme
$ easelgate --theme dark login alice

# light theme
EASELGATE_THEME=light easelgate status

# no theme (useful in non-interactive contexts)
$ easelgate --theme notty login alice
`

	cmdRoot.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		theme := viper.GetString("output.theme")
		if theme == "" {
			theme = "tokyo-night"
		}
		if !slices.Contains(pretty_print.AllThemeNames(), theme) {
			viper.Set("output.theme", pretty_print.TokyoNightStyle)
			return fmt.Errorf("invalid theme: %s", theme)
		}
		return nil
	}

	return cmdRoot
}

func NewAgentRootCmd() *cobra.Command {
	cmdRoot := NewRootCmd()
	addAgentFlags(cmdRoot)
	cmdRoot.Use = "easelgate-agent [--config|-c <string>] [--debug]"
	cmdRoot.Short = "easelgate-agent enforces role capabilities against the visual editor"
	return cmdRoot
}
