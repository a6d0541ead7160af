package cmd

import (
	"time"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
)

var configFileName string

func addCommonFlags(cmd *cobra.Command) {
	viper.SetDefault("otel.endpoint", "")
	viper.SetDefault("otel.insecure", true)
	viper.SetDefault("lockout.stateFile", "")

	cmd.PersistentFlags().StringVarP(&configFileName, "config", "c", "", "Name of the config file")
	_ = cmd.RegisterFlagCompletionFunc("config", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"json", "yaml", "yaml"}, cobra.ShellCompDirectiveDefault
	})

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	viper.SetDefault("debug", false)
	if err := viper.BindPFlag("debug", cmd.PersistentFlags().Lookup("debug")); err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}

	cmd.PersistentFlags().StringP("editor", "s", "http://localhost:8188", "Base URL of the visual editor")
	viper.SetDefault("editor.url", "http://localhost:8188")
	if err := viper.BindPFlag("editor.url", cmd.PersistentFlags().Lookup("editor")); err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}

	cmd.PersistentFlags().BoolP("quiet", "q", false, "Show no output (where available)")
	viper.SetDefault("output.quiet", false)
	if err := viper.BindPFlag("output.quiet", cmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}
}

func addAgentFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)

	viper.SetDefault("agent.readHeaderTimeout", 10*time.Second)

	cmd.PersistentFlags().StringP("listen", "a", ":8321", "listen address of the agent status API")
	viper.SetDefault("agent.addr", ":8321")
	err := viper.BindPFlag("agent.addr", cmd.PersistentFlags().Lookup("listen"))
	if err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}

	cmd.PersistentFlags().Duration("tick", time.Second, "enforcement tick interval")
	viper.SetDefault("agent.tickInterval", time.Second)
	err = viper.BindPFlag("agent.tickInterval", cmd.PersistentFlags().Lookup("tick"))
	if err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}

	cmd.PersistentFlags().Duration("jitter", 100*time.Millisecond, "random delay added to each enforcement tick")
	viper.SetDefault("agent.tickJitter", 100*time.Millisecond)
	err = viper.BindPFlag("agent.tickJitter", cmd.PersistentFlags().Lookup("jitter"))
	if err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}
}

func addClientFlags(cmd *cobra.Command) {
	addCommonFlags(cmd)

	viper.SetDefault("agent.url", "http://localhost:8321")

	cmd.PersistentFlags().StringP("theme", "t", "tokyo-night", "theme to use for the CLI")
	viper.SetDefault("output.theme", "tokyo-night")
	err := viper.BindPFlag("output.theme", cmd.PersistentFlags().Lookup("theme"))
	if err != nil {
		panic(humane.Wrap(err, "fatal binding flag", "check that the flag name matches the viper key")) //nolint:nopanic // flag binding errors are programming errors
	}
	_ = cmd.RegisterFlagCompletionFunc("theme", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return pretty_print.AllThemeNames(), cobra.ShellCompDirectiveDefault
	})
}
