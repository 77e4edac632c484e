package prefs

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2).
			MarginBottom(1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250")).
			Padding(0, 1)

	selectedRowStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1)

	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)
	disabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	defaultStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// renderStatusBar renders the top line: daemon state on the left, the
// settings file on the right.
func renderStatusBar(daemonRunning bool, path string, width int) string {
	var dot, state string
	if daemonRunning {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		state = "daemon running"
	} else {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
		state = "daemon not running"
	}
	left := dot + " " + state
	gap := width - lipgloss.Width(left) - lipgloss.Width(path) - 2
	if gap < 1 {
		gap = 1
	}
	return statusBarStyle.Width(width).Render(left + strings.Repeat(" ", gap) + path)
}

func boxWidth(areaW, limit int) int {
	w := areaW - 8
	if w > limit {
		w = limit
	}
	if w < 30 {
		w = 30
	}
	return w
}
