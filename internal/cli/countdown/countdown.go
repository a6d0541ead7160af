// Package countdown renders a live lockout countdown in the terminal so the
// user can see when the next sign-in attempt will be accepted.
package countdown

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	humane "github.com/sierrasoftworks/humane-errors-go"

	"github.com/easelgate/easelgate/internal/cli/pretty_print"
	"github.com/easelgate/easelgate/pkg/lockout"
)

type tickMsg time.Time

type model struct {
	ctx      context.Context
	deadline time.Time
	done     bool
	aborted  bool
}

// Wait blocks until the lockout window of the given duration has elapsed,
// showing a live countdown when attached to a terminal and a single static
// line otherwise. It returns early when the context is cancelled.
func Wait(ctx context.Context, remaining time.Duration) humane.Error {
	if remaining <= 0 {
		return nil
	}

	if !pretty_print.IsTerminal() {
		return waitPlain(ctx, remaining)
	}

	m := model{
		ctx:      ctx,
		deadline: time.Now().Add(remaining),
	}

	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return humane.Wrap(err, "UI error while waiting for the lockout to expire")
	}

	if final.(model).aborted {
		return humane.New("lockout wait aborted", "wait for the lockout window to expire before retrying")
	}

	return nil
}

func waitPlain(ctx context.Context, remaining time.Duration) humane.Error {
	pretty_print.PrintWarn(fmt.Sprintf("Too many failed attempts. %s", lockout.FormatWait(remaining)))

	select {
	case <-ctx.Done():
		return humane.Wrap(ctx.Err(), "lockout wait interrupted")
	case <-time.After(remaining):
		return nil
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.aborted = true
			return m, tea.Quit
		}

	case tickMsg:
		select {
		case <-m.ctx.Done():
			m.aborted = true
			return m, tea.Quit
		default:
		}

		if time.Now().After(m.deadline) {
			m.done = true
			return m, tea.Quit
		}
		return m, tick()
	}

	return m, nil
}

func (m model) View() string {
	if m.done {
		return pretty_print.FormatOk("Lockout expired. You can try again.")
	}

	remaining := time.Until(m.deadline).Round(time.Second)
	msg := fmt.Sprintf("Too many failed attempts. %s", lockout.FormatWait(remaining))
	return strings.TrimSuffix(
		pretty_print.FormatWithOptions(pretty_print.WarnLvl, msg, []string{}),
		"\n",
	)
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
