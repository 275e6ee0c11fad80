package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/micro-ha/nocontact/internal/activity"
)

var (
	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("2")).
			Bold(true)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	unknownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("8"))

	headerStyle = lipgloss.NewStyle().Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	errorPrefix = inactiveStyle.Render("✗")
)

// badge renders the fixed-width state marker for one line.
func badge(state activity.State) string {
	label := strings.ToUpper(string(state))
	padded := label + strings.Repeat(" ", max(0, len("INACTIVE")-len(label)))
	switch state {
	case activity.StateActive:
		return activeStyle.Render(padded)
	case activity.StateInactive:
		return inactiveStyle.Render(padded)
	default:
		return unknownStyle.Render(padded)
	}
}
