package pretty_print

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// PrintCapabilityTable renders the effective capability decisions for a role
// in a stable order so the output is diffable between runs.
func PrintCapabilityTable(role string, capabilities map[string]bool) {
	options := DefaultOptions()

	keys := make([]string, 0, len(capabilities))
	for k := range capabilities {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s %s\n\n",
		boldStyle(options.Theme).Render("Role:"),
		normalStyle(options.Theme).Render(role),
	))

	for _, k := range keys {
		mark := errStyle(options.Theme).Render("✗")
		if capabilities[k] {
			mark = okStyle(options.Theme).Render("✓")
		}
		b.WriteString(fmt.Sprintf("%s %s\n", mark, normalStyle(options.Theme).Render(k)))
	}

	content := strings.TrimSuffix(b.String(), "\n")
	_, _ = fmt.Fprintln(os.Stdout, summaryBox(options.Theme).Render(content))
}

// PrintLockoutState renders the current failed-attempt counter and, when a
// lockout window is active, its remaining duration.
func PrintLockoutState(failedAttempts, remainingSeconds int, waitMessage string) {
	if remainingSeconds > 0 {
		PrintWarn(fmt.Sprintf("Login is locked. %s", waitMessage),
			fmt.Sprintf("failed attempts: %d", failedAttempts))
		return
	}

	if failedAttempts > 0 {
		PrintInfo("Login is not locked.", fmt.Sprintf("failed attempts: %d", failedAttempts))
		return
	}

	PrintOk("Login is not locked.")
}
