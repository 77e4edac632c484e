package prefsgui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/capture"
)

// Fyne key names that differ from the X keysym name.
var fyneKeysyms = map[fyne.KeyName]string{
	fyne.KeySpace:    "space",
	fyne.KeyPageUp:   "Page_Up",
	fyne.KeyPageDown: "Page_Down",

	desktop.KeyShiftLeft:    "Shift_L",
	desktop.KeyShiftRight:   "Shift_R",
	desktop.KeyControlLeft:  "Control_L",
	desktop.KeyControlRight: "Control_R",
	desktop.KeyAltLeft:      "Alt_L",
	desktop.KeyAltRight:     "Alt_R",
	desktop.KeySuperLeft:    "Super_L",
	desktop.KeySuperRight:   "Super_R",
	desktop.KeyCapsLock:     "Caps_Lock",
	desktop.KeyPrintScreen:  "Print",
	desktop.KeyMenu:         "Menu",
}

// keysymName converts a fyne key name to the keysym name accelerators use.
func keysymName(name fyne.KeyName) (string, bool) {
	if name == fyne.KeyUnknown {
		return "", false
	}
	if sym, ok := fyneKeysyms[name]; ok {
		return sym, true
	}
	s := string(name)
	if len(s) == 1 {
		r := rune(s[0])
		if r >= 'A' && r <= 'Z' {
			r += 'a' - 'A'
		}
		return accel.KeyNameForRune(r)
	}
	// Escape, Return, Tab, BackSpace, arrows, Home, End, Insert, Delete and
	// F1-F12 share their names with the keysyms.
	return s, true
}

// modifierTracker follows which modifier keys are held. Fyne reports the
// modifier keys themselves but not a modifier mask on key down.
type modifierTracker struct {
	held map[fyne.KeyName]bool
}

func newModifierTracker() *modifierTracker {
	return &modifierTracker{held: make(map[fyne.KeyName]bool)}
}

var modifierKeys = map[fyne.KeyName]accel.Modifier{
	desktop.KeyShiftLeft:    accel.ModShift,
	desktop.KeyShiftRight:   accel.ModShift,
	desktop.KeyControlLeft:  accel.ModControl,
	desktop.KeyControlRight: accel.ModControl,
	desktop.KeyAltLeft:      accel.ModAlt,
	desktop.KeyAltRight:     accel.ModAlt,
	desktop.KeySuperLeft:    accel.ModSuper,
	desktop.KeySuperRight:   accel.ModSuper,
}

func (t *modifierTracker) Down(name fyne.KeyName) {
	if _, ok := modifierKeys[name]; ok {
		t.held[name] = true
	}
}

func (t *modifierTracker) Up(name fyne.KeyName) {
	delete(t.held, name)
}

func (t *modifierTracker) Reset() {
	t.held = make(map[fyne.KeyName]bool)
}

func (t *modifierTracker) Mods() accel.Modifier {
	var m accel.Modifier
	for name := range t.held {
		m |= modifierKeys[name]
	}
	return m
}

// keyCapture drives one capture session from fyne key events.
type keyCapture struct {
	session *capture.Session
	mods    *modifierTracker
}

func newKeyCapture(binding string) *keyCapture {
	return &keyCapture{session: capture.NewSession(binding), mods: newModifierTracker()}
}

// KeyDown handles a press and returns the session outcome.
func (c *keyCapture) KeyDown(name fyne.KeyName) capture.Outcome {
	c.mods.Down(name)
	sym, ok := keysymName(name)
	if !ok {
		return capture.Outcome{Action: capture.Ignore}
	}
	return c.session.Handle(capture.KeyEvent{Key: sym, Mods: c.mods.Mods()})
}

func (c *keyCapture) KeyUp(name fyne.KeyName) {
	c.mods.Up(name)
}
