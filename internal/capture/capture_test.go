package capture

import (
	"errors"
	"reflect"
	"testing"

	"github.com/1broseidon/screenhop/internal/accel"
)

type fakeStore struct {
	writes map[string][]string
	err    error
}

func (f *fakeStore) SetStringList(key string, values []string) error {
	if f.err != nil {
		return f.err
	}
	if f.writes == nil {
		f.writes = map[string][]string{}
	}
	f.writes[key] = values
	return nil
}

const binding = "move-window-to-next-screen-shortcut"

func TestEscapeCancelsWithoutWriting(t *testing.T) {
	s := NewSession(binding)
	store := &fakeStore{}

	out := s.Handle(KeyEvent{Key: "Escape"})
	if out.Action != Cancel {
		t.Fatalf("Escape action = %v, want cancel", out.Action)
	}
	if s.Open() {
		t.Fatalf("session should close on Escape")
	}
	if err := s.Commit(store, out); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(store.writes) != 0 {
		t.Fatalf("Escape should not write, got %v", store.writes)
	}
}

func TestBackspaceDisables(t *testing.T) {
	s := NewSession(binding)
	store := &fakeStore{}

	out := s.Handle(KeyEvent{Key: "BackSpace", Mods: accel.ModControl})
	if out.Action != Clear {
		t.Fatalf("BackSpace action = %v, want clear", out.Action)
	}
	if err := s.Commit(store, out); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	got, ok := store.writes[binding]
	if !ok || len(got) != 0 || got == nil {
		t.Fatalf("BackSpace should store an empty list, got %#v", got)
	}
}

func TestAssignCtrlAltT(t *testing.T) {
	s := NewSession(binding)
	store := &fakeStore{}

	out := s.Handle(KeyEvent{Key: "T", Mods: accel.ModControl | accel.ModAlt})
	if out.Action != Assign {
		t.Fatalf("action = %v, want assign", out.Action)
	}
	if out.Accelerator.Name() != "<Control><Alt>t" {
		t.Fatalf("accelerator = %q, want <Control><Alt>t", out.Accelerator.Name())
	}
	if err := s.Commit(store, out); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if want := []string{"<Control><Alt>t"}; !reflect.DeepEqual(store.writes[binding], want) {
		t.Fatalf("stored %v, want %v", store.writes[binding], want)
	}
}

func TestModifierOnlyKeepsSessionOpen(t *testing.T) {
	s := NewSession(binding)
	for _, key := range []string{"Control_L", "Shift_R", "Alt_L", "Super_L", "Meta_R", "ISO_Level3_Shift"} {
		out := s.Handle(KeyEvent{Key: key, Mods: accel.ModControl})
		if out.Action != Ignore {
			t.Fatalf("%s action = %v, want ignore", key, out.Action)
		}
	}
	if !s.Open() {
		t.Fatalf("modifier presses should leave the session open")
	}

	out := s.Handle(KeyEvent{Key: "Right", Mods: accel.ModSuper | accel.ModAlt})
	if out.Action != Assign || out.Accelerator.Name() != "<Alt><Super>Right" {
		t.Fatalf("got %v %q after modifiers", out.Action, out.Accelerator.Name())
	}
}

func TestUnknownKeyIgnored(t *testing.T) {
	s := NewSession(binding)
	if out := s.Handle(KeyEvent{Key: "XF86NotAKey"}); out.Action != Ignore {
		t.Fatalf("unknown key action = %v, want ignore", out.Action)
	}
	if !s.Open() {
		t.Fatalf("unknown key should not close the session")
	}
}

func TestClosedSessionIgnoresEvents(t *testing.T) {
	s := NewSession(binding)
	s.Handle(KeyEvent{Key: "Escape"})
	if out := s.Handle(KeyEvent{Key: "a"}); out.Action != Ignore {
		t.Fatalf("closed session action = %v, want ignore", out.Action)
	}
}

func TestCommitWrapsStoreError(t *testing.T) {
	boom := errors.New("disk full")
	s := NewSession(binding)
	out := s.Handle(KeyEvent{Key: "a", Mods: accel.ModSuper})
	err := s.Commit(&fakeStore{err: boom}, out)
	if !errors.Is(err, boom) {
		t.Fatalf("Commit error = %v, want wrapping %v", err, boom)
	}
}
