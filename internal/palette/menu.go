package palette

import (
	"errors"
	"strconv"
	"strings"
)

// Node is a menu entry. A node with children opens a submenu.
type Node struct {
	Choice
	Children []Node
}

// Menu walks a tree of nodes with a launcher.
type Menu struct {
	launcher Launcher
	title    string
	message  string
}

func NewMenu(l Launcher, title string) *Menu {
	return &Menu{launcher: l, title: title}
}

// SetMessage sets the status line shown by launchers with a message bar.
func (m *Menu) SetMessage(msg string) {
	m.message = msg
}

const (
	backAction    = "\x00back"
	submenuPrefix = "\x00submenu:"
)

// Choose returns the action of the leaf the user picks. Cancelling a
// submenu goes back to its parent; cancelling the top level returns
// ErrCancelled.
func (m *Menu) Choose(nodes []Node) (string, error) {
	return m.choose(nodes, m.title, false)
}

func (m *Menu) choose(nodes []Node, prompt string, nested bool) (string, error) {
	if len(nodes) == 0 {
		return "", errors.New("palette: empty menu")
	}
	for {
		choices := make([]Choice, 0, len(nodes)+1)
		if nested {
			choices = append(choices, Choice{Label: "Back", Action: backAction, Icon: "go-previous"})
		}
		for i, n := range nodes {
			ch := n.Choice
			if len(n.Children) > 0 {
				ch.Label += " →"
				ch.Action = submenuPrefix + strconv.Itoa(i)
			}
			choices = append(choices, ch)
		}

		picked, err := m.launcher.Pick(prompt, m.message, choices)
		if err != nil {
			return "", err
		}
		// dmenu and wofi cannot make headers unselectable.
		if picked.Header || picked.Action == "" {
			continue
		}
		if picked.Action == backAction {
			return "", ErrCancelled
		}
		if rest, ok := strings.CutPrefix(picked.Action, submenuPrefix); ok {
			idx, err := strconv.Atoi(rest)
			if err != nil || idx < 0 || idx >= len(nodes) {
				continue
			}
			action, err := m.choose(nodes[idx].Children, nodes[idx].Label, true)
			if errors.Is(err, ErrCancelled) {
				continue
			}
			return action, err
		}
		return picked.Action, nil
	}
}
