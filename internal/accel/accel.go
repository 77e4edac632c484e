// Package accel models keyboard accelerators: one key plus a set of held
// modifiers. It converts between the GTK-style canonical form stored in
// settings ("<Control><Alt>t") and the form xgbutil's keybind package grabs
// ("Control-Mod1-t").
package accel

import (
	"fmt"
	"strings"
)

// Modifier is a bitmask of accelerator modifiers.
type Modifier uint8

const (
	ModShift Modifier = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// X core protocol modifier masks.
const (
	xMaskShift   uint16 = 1 << 0
	xMaskControl uint16 = 1 << 2
	xMaskMod1    uint16 = 1 << 3
	xMaskMod4    uint16 = 1 << 6
)

var modifierOrder = []struct {
	mod     Modifier
	gtk     string
	keybind string
}{
	{ModShift, "<Shift>", "Shift"},
	{ModControl, "<Control>", "Control"},
	{ModAlt, "<Alt>", "Mod1"},
	{ModSuper, "<Super>", "Mod4"},
}

// Has reports whether all bits of other are set.
func (m Modifier) Has(other Modifier) bool {
	return m&other == other
}

// XMask returns the X core modifier mask for m.
func (m Modifier) XMask() uint16 {
	var mask uint16
	if m.Has(ModShift) {
		mask |= xMaskShift
	}
	if m.Has(ModControl) {
		mask |= xMaskControl
	}
	if m.Has(ModAlt) {
		mask |= xMaskMod1
	}
	if m.Has(ModSuper) {
		mask |= xMaskMod4
	}
	return mask
}

// FromXState converts an X key event state to modifiers. Lock-style bits
// (CapsLock, NumLock) are dropped.
func FromXState(state uint16) Modifier {
	var m Modifier
	if state&xMaskShift != 0 {
		m |= ModShift
	}
	if state&xMaskControl != 0 {
		m |= ModControl
	}
	if state&xMaskMod1 != 0 {
		m |= ModAlt
	}
	if state&xMaskMod4 != 0 {
		m |= ModSuper
	}
	return m
}

// Accelerator is a key combination. The zero value means "no accelerator".
type Accelerator struct {
	Mods Modifier
	Key  string
}

// New builds an accelerator from a key name and held modifiers. Bare
// modifier keys and unknown key names are rejected.
func New(mods Modifier, key string) (Accelerator, error) {
	name, err := normalizeKey(key)
	if err != nil {
		return Accelerator{}, err
	}
	if IsModifierKey(name) {
		return Accelerator{}, fmt.Errorf("%s is a modifier and cannot be bound alone", name)
	}
	return Accelerator{Mods: mods, Key: name}, nil
}

// MustParse is like Parse but panics on error. Used for built-in defaults.
func MustParse(s string) Accelerator {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Parse reads an accelerator in any of the accepted notations:
//
//	<Control><Alt>t      GTK style
//	Control-Mod1-t       xgbutil keybind style
//	Ctrl+Alt+T           human style
func Parse(s string) (Accelerator, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Accelerator{}, fmt.Errorf("accelerator is empty")
	}

	if strings.HasPrefix(s, "<") {
		return parseGTK(s)
	}

	for _, sep := range []string{"+", "-"} {
		if len(s) > 1 && strings.Contains(s, sep) {
			return parseSeparated(s, sep)
		}
	}
	return New(0, s)
}

func parseGTK(s string) (Accelerator, error) {
	var mods Modifier
	rest := s
	for strings.HasPrefix(rest, "<") {
		end := strings.Index(rest, ">")
		if end < 0 {
			return Accelerator{}, fmt.Errorf("unterminated modifier in %q", s)
		}
		mod, err := parseModifier(rest[1:end])
		if err != nil {
			return Accelerator{}, fmt.Errorf("%q: %w", s, err)
		}
		mods |= mod
		rest = rest[end+1:]
	}
	if rest == "" {
		return Accelerator{}, fmt.Errorf("%q has no key", s)
	}
	a, err := New(mods, rest)
	if err != nil {
		return Accelerator{}, fmt.Errorf("%q: %w", s, err)
	}
	return a, nil
}

func parseSeparated(s, sep string) (Accelerator, error) {
	parts := strings.Split(s, sep)
	key := parts[len(parts)-1]
	if key == "" {
		return Accelerator{}, fmt.Errorf("%q has no key", s)
	}
	var mods Modifier
	for _, part := range parts[:len(parts)-1] {
		mod, err := parseModifier(part)
		if err != nil {
			return Accelerator{}, fmt.Errorf("%q: %w", s, err)
		}
		mods |= mod
	}
	a, err := New(mods, key)
	if err != nil {
		return Accelerator{}, fmt.Errorf("%q: %w", s, err)
	}
	return a, nil
}

func parseModifier(token string) (Modifier, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "shift":
		return ModShift, nil
	case "control", "ctrl", "ctl", "primary":
		return ModControl, nil
	case "alt", "mod1", "meta":
		return ModAlt, nil
	case "super", "mod4", "win", "logo":
		return ModSuper, nil
	default:
		return 0, fmt.Errorf("unknown modifier %q", token)
	}
}

// IsZero reports whether a is the empty accelerator.
func (a Accelerator) IsZero() bool {
	return a.Key == ""
}

// Name returns the canonical GTK-style string, e.g. "<Control><Alt>t".
// The empty accelerator renders as "".
func (a Accelerator) Name() string {
	if a.IsZero() {
		return ""
	}
	var b strings.Builder
	for _, m := range modifierOrder {
		if a.Mods.Has(m.mod) {
			b.WriteString(m.gtk)
		}
	}
	b.WriteString(a.Key)
	return b.String()
}

// String implements fmt.Stringer.
func (a Accelerator) String() string {
	return a.Name()
}

// KeybindString returns the xgbutil keybind form, e.g. "Control-Mod1-t".
func (a Accelerator) KeybindString() string {
	if a.IsZero() {
		return ""
	}
	parts := make([]string, 0, len(modifierOrder)+1)
	for _, m := range modifierOrder {
		if a.Mods.Has(m.mod) {
			parts = append(parts, m.keybind)
		}
	}
	parts = append(parts, a.Key)
	return strings.Join(parts, "-")
}

// Canonicalize parses s and returns its canonical name.
func Canonicalize(s string) (string, error) {
	a, err := Parse(s)
	if err != nil {
		return "", err
	}
	return a.Name(), nil
}
