// Package capture implements the key-capture session used by the shortcut
// editors. A session consumes key events until one of them settles the
// binding: Escape cancels, BackSpace disables, anything else that forms a
// valid accelerator is assigned.
package capture

import (
	"fmt"

	"github.com/1broseidon/screenhop/internal/accel"
)

// Action is what a key event did to the session.
type Action int

const (
	// Ignore leaves the session open.
	Ignore Action = iota
	// Cancel closes the session without changing the binding.
	Cancel
	// Clear closes the session and disables the binding.
	Clear
	// Assign closes the session and binds the captured accelerator.
	Assign
)

func (a Action) String() string {
	switch a {
	case Ignore:
		return "ignore"
	case Cancel:
		return "cancel"
	case Clear:
		return "clear"
	case Assign:
		return "assign"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// KeyEvent is a single key press as seen by a capture surface.
type KeyEvent struct {
	Key  string
	Mods accel.Modifier
}

// Outcome is the result of handling one KeyEvent.
type Outcome struct {
	Action      Action
	Accelerator accel.Accelerator
}

// Closes reports whether the outcome ends the session.
func (o Outcome) Closes() bool {
	return o.Action != Ignore
}

// Store is the subset of the settings store a session writes to.
type Store interface {
	SetStringList(key string, values []string) error
}

// Session captures one accelerator for one binding.
type Session struct {
	binding string
	open    bool
}

// NewSession starts a capture for the given settings key.
func NewSession(binding string) *Session {
	return &Session{binding: binding, open: true}
}

// Binding returns the settings key being captured.
func (s *Session) Binding() string {
	return s.binding
}

// Open reports whether the session still accepts events.
func (s *Session) Open() bool {
	return s.open
}

// Handle processes one key press.
func (s *Session) Handle(ev KeyEvent) Outcome {
	if !s.open {
		return Outcome{Action: Ignore}
	}

	switch ev.Key {
	case "Escape":
		s.open = false
		return Outcome{Action: Cancel}
	case "BackSpace":
		s.open = false
		return Outcome{Action: Clear}
	}

	if accel.IsModifierKey(ev.Key) {
		return Outcome{Action: Ignore}
	}

	a, err := accel.New(ev.Mods, ev.Key)
	if err != nil {
		return Outcome{Action: Ignore}
	}
	s.open = false
	return Outcome{Action: Assign, Accelerator: a}
}

// Commit writes a closing outcome to the store. Ignore and Cancel leave the
// store untouched.
func (s *Session) Commit(store Store, out Outcome) error {
	var values []string
	switch out.Action {
	case Clear:
		values = []string{}
	case Assign:
		values = []string{out.Accelerator.Name()}
	default:
		return nil
	}
	if err := store.SetStringList(s.binding, values); err != nil {
		return fmt.Errorf("save %s: %w", s.binding, err)
	}
	return nil
}
