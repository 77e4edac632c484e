package prefs

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/capture"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Capture key.Binding
	Edit    key.Binding
	Disable key.Binding
	Reset   key.Binding
	Open    key.Binding
	Quit    key.Binding
}

var rootKeyMap = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Capture: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "set shortcut"),
	),
	Edit: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "type shortcut"),
	),
	Disable: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "disable"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open file"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Capture, k.Edit, k.Disable, k.Reset, k.Open, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// Terminal keys that have a keysym of their own. Ctrl+letter and printable
// runes are handled in keyEventFromMsg.
var specialKeys = map[tea.KeyType]capture.KeyEvent{
	tea.KeyEsc:       {Key: "Escape"},
	tea.KeyBackspace: {Key: "BackSpace"},
	tea.KeyTab:       {Key: "Tab"},
	tea.KeyShiftTab:  {Key: "Tab", Mods: accel.ModShift},
	tea.KeyEnter:     {Key: "Return"},
	tea.KeySpace:     {Key: "space"},
	tea.KeyDelete:    {Key: "Delete"},
	tea.KeyInsert:    {Key: "Insert"},

	tea.KeyUp:             {Key: "Up"},
	tea.KeyDown:           {Key: "Down"},
	tea.KeyLeft:           {Key: "Left"},
	tea.KeyRight:          {Key: "Right"},
	tea.KeyShiftUp:        {Key: "Up", Mods: accel.ModShift},
	tea.KeyShiftDown:      {Key: "Down", Mods: accel.ModShift},
	tea.KeyShiftLeft:      {Key: "Left", Mods: accel.ModShift},
	tea.KeyShiftRight:     {Key: "Right", Mods: accel.ModShift},
	tea.KeyCtrlUp:         {Key: "Up", Mods: accel.ModControl},
	tea.KeyCtrlDown:       {Key: "Down", Mods: accel.ModControl},
	tea.KeyCtrlLeft:       {Key: "Left", Mods: accel.ModControl},
	tea.KeyCtrlRight:      {Key: "Right", Mods: accel.ModControl},
	tea.KeyCtrlShiftUp:    {Key: "Up", Mods: accel.ModControl | accel.ModShift},
	tea.KeyCtrlShiftDown:  {Key: "Down", Mods: accel.ModControl | accel.ModShift},
	tea.KeyCtrlShiftLeft:  {Key: "Left", Mods: accel.ModControl | accel.ModShift},
	tea.KeyCtrlShiftRight: {Key: "Right", Mods: accel.ModControl | accel.ModShift},

	tea.KeyHome:       {Key: "Home"},
	tea.KeyEnd:        {Key: "End"},
	tea.KeyPgUp:       {Key: "Page_Up"},
	tea.KeyPgDown:     {Key: "Page_Down"},
	tea.KeyCtrlHome:   {Key: "Home", Mods: accel.ModControl},
	tea.KeyCtrlEnd:    {Key: "End", Mods: accel.ModControl},
	tea.KeyCtrlPgUp:   {Key: "Page_Up", Mods: accel.ModControl},
	tea.KeyCtrlPgDown: {Key: "Page_Down", Mods: accel.ModControl},
	tea.KeyShiftHome:  {Key: "Home", Mods: accel.ModShift},
	tea.KeyShiftEnd:   {Key: "End", Mods: accel.ModShift},

	tea.KeyF1:  {Key: "F1"},
	tea.KeyF2:  {Key: "F2"},
	tea.KeyF3:  {Key: "F3"},
	tea.KeyF4:  {Key: "F4"},
	tea.KeyF5:  {Key: "F5"},
	tea.KeyF6:  {Key: "F6"},
	tea.KeyF7:  {Key: "F7"},
	tea.KeyF8:  {Key: "F8"},
	tea.KeyF9:  {Key: "F9"},
	tea.KeyF10: {Key: "F10"},
	tea.KeyF11: {Key: "F11"},
	tea.KeyF12: {Key: "F12"},
}

// keyEventFromMsg translates a terminal key press into a capture event.
// Terminals never report Super or a bare modifier, so those cannot be
// captured here.
func keyEventFromMsg(msg tea.KeyMsg) (capture.KeyEvent, bool) {
	var ev capture.KeyEvent

	switch {
	case msg.Type == tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return capture.KeyEvent{}, false
		}
		r := msg.Runes[0]
		if r >= 'A' && r <= 'Z' {
			ev.Mods |= accel.ModShift
			r += 'a' - 'A'
		}
		name, ok := accel.KeyNameForRune(r)
		if !ok {
			return capture.KeyEvent{}, false
		}
		ev.Key = name
	case msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ && msg.Type != tea.KeyTab && msg.Type != tea.KeyEnter:
		ev.Key = string(rune('a' + int(msg.Type-tea.KeyCtrlA)))
		ev.Mods |= accel.ModControl
	default:
		special, ok := specialKeys[msg.Type]
		if !ok {
			return capture.KeyEvent{}, false
		}
		ev = special
	}

	if msg.Alt {
		ev.Mods |= accel.ModAlt
	}
	return ev, true
}
