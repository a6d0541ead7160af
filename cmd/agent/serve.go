package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	ginprometheus "github.com/zsais/go-gin-prometheus"
	"go.uber.org/zap"

	"github.com/easelgate/easelgate/pkg/agent"
	"github.com/easelgate/easelgate/pkg/client"
	"github.com/easelgate/easelgate/pkg/enforce"
	"github.com/easelgate/easelgate/pkg/intercept"
	"github.com/easelgate/easelgate/pkg/lockout"
	"github.com/easelgate/easelgate/pkg/notify"
	"github.com/easelgate/easelgate/pkg/policy"
	"github.com/easelgate/easelgate/pkg/surface"
	"github.com/easelgate/easelgate/pkg/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve [--listen|-a <string>] [--tick <duration>] [--jitter <duration>]",
	Short: "Run the enforcement agent",
	Long: `Start the enforcement agent against the configured editor.

This command:

- Polls the editor for the signed-in user and the group capability policy
- Runs the periodic enforcement loop against the UI surface bridge
- Watches the shared lockout state file for changes from other processes
- Serves the agent status API (rule-set, rendered CSS, lockout, whoami)`,
	Example: `# Start the agent with defaults from config and environment
easelgate-agent serve

# Point the agent at a remote editor and a custom listen address
easelgate-agent serve --editor http://editor.lan:8188 --listen :9321

# Slow the enforcement loop down
easelgate-agent serve --tick 5s --jitter 500ms`,
	Args:      cobra.ExactArgs(0),
	ValidArgs: []string{},
	Run: func(cmd *cobra.Command, args []string) {
		if err := runE(cmd, args); err != nil {
			otelzap.L().WithError(err).Fatal("Exiting")
		}

		otelzap.L().Info("Exiting")
	},
}

func configureGinMode(debug bool) {
	if debug {
		gin.SetMode(gin.DebugMode)
		return
	}

	configFileName := viper.GetViper().ConfigFileUsed()
	otelzap.L().Sugar().With("config_file", configFileName).Debug("Config file used")
	gin.SetMode(gin.ReleaseMode)
}

func lockoutStore() (*lockout.FileStore, humane.Error) {
	path := viper.GetString("lockout.stateFile")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, humane.Wrap(err, "could not determine home directory", "set lockout.stateFile explicitly")
		}
		path = filepath.Join(home, ".config", "easelgate", "lockout.json")
	}
	return lockout.NewFileStore(path)
}

func runE(cmd *cobra.Command, _ []string) humane.Error {
	debug := viper.GetBool("debug")
	configureGinMode(debug)

	ctx, cancelFn := context.WithCancelCause(cmd.Context())
	utils.InterruptHandler(ctx, cancelFn)

	notifier := notify.ZapNotifier{}

	// The capability check closes over the policy store declared below so
	// the intercepting transport and the store can share one client.
	var store *policy.Store
	check := func(key policy.Key) bool {
		return store.PolicyMap(ctx).Allows(store.EffectiveRole(ctx), key)
	}

	editor, err := client.New(viper.GetString("editor.url"),
		client.WithTransport(intercept.NewTransport(nil, notifier, check)),
	)
	if err != nil {
		cancelFn(err)
		return err
	}
	store = policy.NewStore(editor)

	fileStore, err := lockoutStore()
	if err != nil {
		cancelFn(err)
		return err
	}
	ctrl := lockout.NewController(fileStore)

	// Pick up lockout state written by other easelgate processes.
	go func() {
		if err := lockout.Watch(ctx, ctrl, fileStore); err != nil {
			otelzap.L().WithError(err).ErrorContext(ctx, "Lockout state watcher stopped")
		}
	}()

	bridge := surface.NewBridge()
	engine := enforce.NewEngine(store, bridge, bridge,
		enforce.WithInterval(viper.GetDuration("agent.tickInterval")),
		enforce.WithJitter(viper.GetDuration("agent.tickJitter")),
	)
	go engine.Run(ctx)

	sharedPrometheus := ginprometheus.NewPrometheus("easelgate")

	srv, err := agent.NewServer(store, ctrl,
		agent.WithDebug(debug),
		agent.WithAddr(viper.GetString("agent.addr")),
		agent.WithPrometheusMiddleware(sharedPrometheus),
	)
	if err != nil {
		cancelFn(err)
		return err
	}

	go func() {
		otelzap.L().InfoContext(ctx, "Starting agent status API", zap.String("addr", viper.GetString("agent.addr")))

		if err := srv.Serve(ctx); err != nil {
			if err.Cause() != nil {
				cancelFn(err.Cause())
			} else {
				cancelFn(err)
			}
			otelzap.L().WithError(err).FatalContext(ctx, "Failed to serve agent status API")
		}
	}()

	// Wait for context done
	<-ctx.Done()
	// No more logging to ctx from here onwards

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	otelzap.L().Info("Shutting down agent...")

	if err := srv.Shutdown(shutdownCtx); err != nil {
		otelzap.L().WithError(err).Error("Failed to shutdown agent status API gracefully")
		return err
	}

	otelzap.L().Info("Agent shut down successfully")

	cause := context.Cause(ctx)
	if cause != nil && !errors.Is(cause, context.Canceled) {
		return humane.Wrap(cause, "agent terminated due to error")
	}

	return nil
}
