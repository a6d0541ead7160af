package pretty_print

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/easelgate/easelgate/pkg/models"
)

// PrintLoginInformation renders the signed-in user as a bordered summary box.
func PrintLoginInformation(user *models.CurrentUser) {
	options := DefaultOptions()

	groups := strings.Join(user.Groups, ", ")
	if groups == "" {
		groups = "-"
	}

	role := user.Role
	if user.IsAdmin {
		role += " (admin)"
	}

	content := fmt.Sprintf("%s %s\n%s %s\n%s %s",
		boldStyle(options.Theme).Render("User:  "), normalStyle(options.Theme).Render(user.Username),
		boldStyle(options.Theme).Render("Role:  "), normalStyle(options.Theme).Render(role),
		boldStyle(options.Theme).Render("Groups:"), normalStyle(options.Theme).Render(groups),
	)

	_, _ = fmt.Fprintln(os.Stdout, summaryBox(options.Theme).Render(content))
}

// PrintTokenInformation renders a freshly generated legacy token. The token is
// only returned once by the server, so the box nudges the user to save it.
func PrintTokenInformation(token string, expireHours int) {
	options := DefaultOptions()

	content := fmt.Sprintf("%s %s\n%s %s\n\n%s",
		boldStyle(options.Theme).Render("Token:  "), normalStyle(options.Theme).Render(token),
		boldStyle(options.Theme).Render("Expires:"), italicStyle(options.Theme).Render(fmt.Sprintf("in %d hours", expireHours)),
		secondaryStyle(options.Theme).Render("Store this token now. It will not be shown again."),
	)

	_, _ = fmt.Fprintln(os.Stdout, summaryBox(options.Theme).Render(content))
}

func summaryBox(theme Theme) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(okColor(theme)).
		Padding(0, 1).
		MarginTop(0).
		MarginBottom(0).
		MarginLeft(4)
}
