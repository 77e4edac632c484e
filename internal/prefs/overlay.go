package prefs

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/screenhop/internal/capture"
)

// captureOverlay wraps a capture session with the text shown while it is
// open.
type captureOverlay struct {
	session *capture.Session
	title   string
}

func newCaptureOverlay(binding, title string) *captureOverlay {
	return &captureOverlay{session: capture.NewSession(binding), title: title}
}

func (o *captureOverlay) View(areaW, areaH int) string {
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf("Set Shortcut for %s", o.title))
	body := "Press any key combination...\nPress Esc to cancel, Backspace to disable"
	note := hintStyle.Render("Super cannot be captured from a terminal; use e or `screenhop shortcuts capture`.")

	box := overlayStyle.Width(boxWidth(areaW, 64)).Render(heading + "\n\n" + body + "\n\n" + note)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}
