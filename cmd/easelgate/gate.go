package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	humane "github.com/sierrasoftworks/humane-errors-go"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/easelgate/easelgate/internal/cli/countdown"
	"github.com/easelgate/easelgate/internal/cli/pretty_print"
	"github.com/easelgate/easelgate/pkg/client"
	"github.com/easelgate/easelgate/pkg/guard"
	"github.com/easelgate/easelgate/pkg/lockout"
)

// gate bundles everything a credential subcommand needs.
type gate struct {
	client *client.Client
	ctrl   *lockout.Controller
	guard  *guard.Guard
}

func newGate() (*gate, humane.Error) {
	editor, err := client.New(editorURL())
	if err != nil {
		return nil, err
	}

	store, err := lockoutStore()
	if err != nil {
		return nil, err
	}

	ctrl := lockout.NewController(store)
	return &gate{
		client: editor,
		ctrl:   ctrl,
		guard:  guard.New(editor, ctrl, cliNotifier{}),
	}, nil
}

// lockoutStore opens the persistent failed-attempt state shared between CLI
// invocations. The path can be overridden via lockout.stateFile.
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

// waitForLockout blocks with a visible countdown when a lockout window is
// active, so the subsequent attempt is actually accepted.
func (g *gate) waitForLockout(ctx context.Context) humane.Error {
	if !g.ctrl.IsLockedOut() {
		return nil
	}
	return countdown.Wait(ctx, g.ctrl.Remaining())
}

// promptPassword reads a password without echo when attached to a terminal
// and falls back to a plain line read otherwise (for piped input in tests
// and scripts).
func promptPassword(label string) (string, humane.Error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		var line string
		if _, err := fmt.Scanln(&line); err != nil {
			return "", humane.Wrap(err, "failed to read password from stdin")
		}
		return line, nil
	}

	_, _ = pretty_print.PrettyPrintWithOptions(pretty_print.InfoLvl, label+": ", []string{}, pretty_print.WithoutNewline())
	raw, err := term.ReadPassword(fd)
	fmt.Println("")
	if err != nil {
		return "", humane.Wrap(err, "failed to read password", "re-run the command and enter the password when prompted")
	}
	return strings.TrimSpace(string(raw)), nil
}

// cliNotifier surfaces guard notifications on the terminal instead of the
// editor's toast area.
type cliNotifier struct{}

func (cliNotifier) Info(message string)    { pretty_print.PrintInfo(message) }
func (cliNotifier) Success(message string) { pretty_print.PrintOk(message) }
func (cliNotifier) Error(message string)   { pretty_print.PrintErrorMessage(message) }

func (cliNotifier) Denied(message string, role string) {
	pretty_print.PrintWarn(message, fmt.Sprintf("role: %s", role))
}
