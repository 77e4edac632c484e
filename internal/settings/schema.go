package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	KeyNextScreen     = "move-window-to-next-screen-shortcut"
	KeyPreviousScreen = "move-window-to-previous-screen-shortcut"
)

// KeySpec describes one string-list key.
type KeySpec struct {
	Name    string
	Summary string
	Default []string
}

// Schema is the ordered set of keys a store accepts.
type Schema []KeySpec

// DefaultSchema returns the shortcut keys.
func DefaultSchema() Schema {
	return Schema{
		{
			Name:    KeyNextScreen,
			Summary: "Move current window to next screen",
			Default: []string{"<Alt><Super>Right"},
		},
		{
			Name:    KeyPreviousScreen,
			Summary: "Move current window to previous screen",
			Default: []string{"<Alt><Super>Left"},
		},
	}
}

// Lookup returns the KeySpec for name.
func (s Schema) Lookup(name string) (KeySpec, bool) {
	for _, spec := range s {
		if spec.Name == name {
			return spec, true
		}
	}
	return KeySpec{}, false
}

// Names returns key names in schema order.
func (s Schema) Names() []string {
	out := make([]string, 0, len(s))
	for _, spec := range s {
		out = append(out, spec.Name)
	}
	return out
}

// DefaultPath returns ~/.config/screenhop/settings.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "screenhop", "settings.yaml"), nil
}

// DisplayLabel renders an accelerator for a shortcut row.
func DisplayLabel(accelerator string) string {
	if accelerator == "" {
		return "Disabled"
	}
	return accelerator
}

// ResolveKey accepts a full key name or the short forms next, previous and
// prev.
func (s Schema) ResolveKey(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "next":
		name = KeyNextScreen
	case "previous", "prev":
		name = KeyPreviousScreen
	}
	if _, ok := s.Lookup(name); !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}
	return name, nil
}
