// Package palette offers a fixed list of choices through an external
// dmenu-style launcher (rofi, fuzzel, wofi or dmenu) and reports which one
// the user picked.
package palette

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

// ErrCancelled is returned when the launcher closes without a selection.
var ErrCancelled = errors.New("palette cancelled")

// Choice is one row in the launcher.
type Choice struct {
	Label  string
	Action string
	Icon   string // icon theme name, shown by launchers that support icons
	// Header rows title a section and cannot be picked.
	Header bool
	// Current rows are highlighted and preselected.
	Current bool
}

// Launcher shows choices and returns the picked one.
type Launcher interface {
	Name() string
	Pick(prompt, message string, choices []Choice) (Choice, error)
}

// Known lists the supported launchers in auto-detect order.
var Known = []string{"rofi", "fuzzel", "wofi", "dmenu"}

var lookPath = exec.LookPath

// New returns the launcher called name. "auto" or "" picks the first one
// found in PATH.
func New(name string) (Launcher, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "auto" {
		for _, candidate := range Known {
			if _, err := lookPath(candidate); err == nil {
				return newCommand(candidate), nil
			}
		}
		return nil, fmt.Errorf("no launcher found in PATH (looked for: %s)", strings.Join(Known, ", "))
	}
	if !slices.Contains(Known, name) {
		return nil, fmt.Errorf("unknown launcher %q (expected: auto, %s)", name, strings.Join(Known, ", "))
	}
	if _, err := lookPath(name); err != nil {
		return nil, fmt.Errorf("launcher %q not found in PATH", name)
	}
	return newCommand(name), nil
}
