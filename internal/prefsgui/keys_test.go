package prefsgui

import (
	"path/filepath"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/capture"
	"github.com/1broseidon/screenhop/internal/settings"
)

func TestKeysymName(t *testing.T) {
	tests := map[fyne.KeyName]string{
		fyne.KeyA:            "a",
		fyne.Key5:            "5",
		fyne.KeySlash:        "slash",
		fyne.KeyLeftBracket:  "bracketleft",
		fyne.KeySpace:        "space",
		fyne.KeyRight:        "Right",
		fyne.KeyPageDown:     "Page_Down",
		fyne.KeyEscape:       "Escape",
		fyne.KeyBackspace:    "BackSpace",
		fyne.KeyF11:          "F11",
		desktop.KeySuperLeft: "Super_L",
	}
	for in, want := range tests {
		got, ok := keysymName(in)
		if !ok || got != want {
			t.Errorf("keysymName(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := keysymName(fyne.KeyUnknown); ok {
		t.Errorf("unknown key should not map")
	}
}

func TestModifierTracker(t *testing.T) {
	tr := newModifierTracker()
	tr.Down(desktop.KeySuperLeft)
	tr.Down(desktop.KeyAltRight)
	tr.Down(fyne.KeyA)
	if got, want := tr.Mods(), accel.ModSuper|accel.ModAlt; got != want {
		t.Fatalf("mods = %v, want %v", got, want)
	}
	tr.Up(desktop.KeyAltRight)
	if got := tr.Mods(); got != accel.ModSuper {
		t.Fatalf("mods after release = %v", got)
	}
	tr.Reset()
	if got := tr.Mods(); got != 0 {
		t.Fatalf("mods after reset = %v", got)
	}
}

func TestKeyCaptureAssigns(t *testing.T) {
	kc := newKeyCapture(settings.KeyNextScreen)
	for _, name := range []fyne.KeyName{desktop.KeySuperLeft, desktop.KeyAltLeft} {
		if out := kc.KeyDown(name); out.Closes() {
			t.Fatalf("modifier %s closed the session: %+v", name, out)
		}
	}
	out := kc.KeyDown(fyne.KeyRight)
	if out.Action != capture.Assign || out.Accelerator.Name() != "<Alt><Super>Right" {
		t.Fatalf("outcome = %+v", out)
	}

	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.yaml"), settings.DefaultSchema(), zerolog.Nop())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	if err := kc.session.Commit(store, out); err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if a, _ := store.Accelerator(settings.KeyNextScreen); a != "<Alt><Super>Right" {
		t.Fatalf("stored %q", a)
	}
}

func TestKeyCaptureReleasedModifierIsDropped(t *testing.T) {
	kc := newKeyCapture(settings.KeyNextScreen)
	kc.KeyDown(desktop.KeyControlLeft)
	kc.KeyUp(desktop.KeyControlLeft)
	out := kc.KeyDown(fyne.KeyF5)
	if out.Action != capture.Assign || out.Accelerator.Name() != "F5" {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestKeyCaptureEscapeAndBackspace(t *testing.T) {
	if out := newKeyCapture(settings.KeyNextScreen).KeyDown(fyne.KeyEscape); out.Action != capture.Cancel {
		t.Fatalf("escape = %+v", out)
	}
	if out := newKeyCapture(settings.KeyNextScreen).KeyDown(fyne.KeyBackspace); out.Action != capture.Clear {
		t.Fatalf("backspace = %+v", out)
	}
}
