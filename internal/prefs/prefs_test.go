package prefs

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/capture"
	"github.com/1broseidon/screenhop/internal/settings"
)

func TestKeyEventFromMsg(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want capture.KeyEvent
	}{
		{"rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}}, capture.KeyEvent{Key: "t"}},
		{"alt rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'t'}, Alt: true}, capture.KeyEvent{Key: "t", Mods: accel.ModAlt}},
		{"upper rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}}, capture.KeyEvent{Key: "t", Mods: accel.ModShift}},
		{"symbol", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'/'}}, capture.KeyEvent{Key: "slash"}},
		{"ctrl letter", tea.KeyMsg{Type: tea.KeyCtrlT}, capture.KeyEvent{Key: "t", Mods: accel.ModControl}},
		{"ctrl alt letter", tea.KeyMsg{Type: tea.KeyCtrlA, Alt: true}, capture.KeyEvent{Key: "a", Mods: accel.ModControl | accel.ModAlt}},
		{"ctrl h", tea.KeyMsg{Type: tea.KeyCtrlH}, capture.KeyEvent{Key: "h", Mods: accel.ModControl}},
		{"escape", tea.KeyMsg{Type: tea.KeyEsc}, capture.KeyEvent{Key: "Escape"}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, capture.KeyEvent{Key: "BackSpace"}},
		{"tab", tea.KeyMsg{Type: tea.KeyTab}, capture.KeyEvent{Key: "Tab"}},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, capture.KeyEvent{Key: "Return"}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, capture.KeyEvent{Key: "space"}},
		{"shift right", tea.KeyMsg{Type: tea.KeyShiftRight}, capture.KeyEvent{Key: "Right", Mods: accel.ModShift}},
		{"ctrl shift left", tea.KeyMsg{Type: tea.KeyCtrlShiftLeft}, capture.KeyEvent{Key: "Left", Mods: accel.ModControl | accel.ModShift}},
		{"alt right", tea.KeyMsg{Type: tea.KeyRight, Alt: true}, capture.KeyEvent{Key: "Right", Mods: accel.ModAlt}},
		{"page down", tea.KeyMsg{Type: tea.KeyPgDown}, capture.KeyEvent{Key: "Page_Down"}},
		{"function key", tea.KeyMsg{Type: tea.KeyF5}, capture.KeyEvent{Key: "F5"}},
	}
	for _, tt := range tests {
		got, ok := keyEventFromMsg(tt.msg)
		if !ok {
			t.Errorf("%s: not mapped", tt.name)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: got %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestKeyEventFromMsgUnmapped(t *testing.T) {
	for _, msg := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("ab")},
		{Type: tea.KeyRunes, Runes: []rune{'é'}},
		{Type: tea.KeyCtrlBackslash},
	} {
		if ev, ok := keyEventFromMsg(msg); ok {
			t.Errorf("%q mapped to %+v, want unmapped", msg.String(), ev)
		}
	}
}

type fakeDaemon struct {
	pingErr error
	reloads int
}

func (d *fakeDaemon) Ping() error { return d.pingErr }

func (d *fakeDaemon) Reload() error {
	d.reloads++
	return nil
}

func newTestModel(t *testing.T, daemon Daemon) (model, *settings.Store) {
	t.Helper()
	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.yaml"), settings.DefaultSchema(), zerolog.Nop())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	m := newModel(store, daemon)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	return m, store
}

func update(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(model)
}

func updateCmd(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func accelOf(t *testing.T, store *settings.Store, key string) string {
	t.Helper()
	a, err := store.Accelerator(key)
	if err != nil {
		t.Fatalf("Accelerator(%s): %v", key, err)
	}
	return a
}

func TestRowsShowSummariesAndLabels(t *testing.T) {
	m, _ := newTestModel(t, nil)
	view := m.View()
	for _, want := range []string{
		"Move current window to next screen",
		"Move current window to previous screen",
		"<Alt><Super>Right",
		"daemon not running",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestCaptureAssignsShortcut(t *testing.T) {
	daemon := &fakeDaemon{}
	m, store := newTestModel(t, daemon)
	if !m.daemonRunning {
		t.Fatalf("daemon should be reported running")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.overlay == nil {
		t.Fatalf("enter should open the capture overlay")
	}
	view := m.View()
	if !strings.Contains(view, "Set Shortcut for Move current window to next screen") {
		t.Fatalf("overlay title missing from view:\n%s", view)
	}
	if !strings.Contains(view, "Press Esc to cancel, Backspace to disable") {
		t.Fatalf("overlay instructions missing from view:\n%s", view)
	}

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlT, Alt: true})
	if m.overlay != nil {
		t.Fatalf("assign should close the overlay")
	}
	if got := accelOf(t, store, settings.KeyNextScreen); got != "<Control><Alt>t" {
		t.Fatalf("next = %q, want <Control><Alt>t", got)
	}
	if cmd == nil {
		t.Fatalf("save should ask the daemon to reload")
	}
	m = update(t, m, cmd())
	if daemon.reloads != 1 {
		t.Fatalf("reloads = %d, want 1", daemon.reloads)
	}
	if !strings.Contains(m.status, "daemon reloaded") {
		t.Fatalf("status = %q", m.status)
	}
}

func TestCaptureEscapeAndBackspace(t *testing.T) {
	m, store := newTestModel(t, nil)
	before := accelOf(t, store, settings.KeyNextScreen)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.overlay != nil {
		t.Fatalf("escape should close the overlay")
	}
	if got := accelOf(t, store, settings.KeyNextScreen); got != before {
		t.Fatalf("escape changed binding to %q", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	if cmd != nil {
		t.Fatalf("no daemon, no reload command expected")
	}
	if got := accelOf(t, store, settings.KeyNextScreen); got != "" {
		t.Fatalf("backspace left binding %q", got)
	}
	if !strings.Contains(m.View(), "Disabled") {
		t.Fatalf("disabled row should say Disabled")
	}
}

func TestCaptureCtrlCQuits(t *testing.T) {
	m, store := newTestModel(t, nil)
	before := accelOf(t, store, settings.KeyNextScreen)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("ctrl+c should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("ctrl+c cmd did not quit")
	}
	if got := accelOf(t, store, settings.KeyNextScreen); got != before {
		t.Fatalf("ctrl+c changed binding to %q", got)
	}
}

func TestDisableAndReset(t *testing.T) {
	m, store := newTestModel(t, nil)
	m = update(t, m, runes("j"))
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}

	m = update(t, m, runes("d"))
	if got := accelOf(t, store, settings.KeyPreviousScreen); got != "" {
		t.Fatalf("previous after disable = %q", got)
	}
	if store.IsDefault(settings.KeyPreviousScreen) {
		t.Fatalf("disabled binding should not report default")
	}

	m = update(t, m, runes("r"))
	want := settings.DefaultSchema()[1].Default[0]
	if got := accelOf(t, store, settings.KeyPreviousScreen); got != want {
		t.Fatalf("previous after reset = %q, want %q", got, want)
	}
	if !strings.Contains(m.status, "Move current window to previous screen") {
		t.Fatalf("status = %q", m.status)
	}
	if got := accelOf(t, store, settings.KeyNextScreen); got != settings.DefaultSchema()[0].Default[0] {
		t.Fatalf("next should be untouched, got %q", got)
	}
}

func TestManualEntryFormOpensAndCancels(t *testing.T) {
	m, store := newTestModel(t, nil)
	m, _ = updateCmd(t, m, runes("e"))
	if m.form == nil {
		t.Fatalf("e should open the manual entry form")
	}
	if *m.formValue != accelOf(t, store, settings.KeyNextScreen) {
		t.Fatalf("form should start from the current value, got %q", *m.formValue)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.form != nil {
		t.Fatalf("esc should close the form")
	}
	if m.status != "unchanged" {
		t.Fatalf("status = %q", m.status)
	}
}

func TestValidateAccelerator(t *testing.T) {
	for _, ok := range []string{"", "  ", "<Super>n", "<Primary><Alt>Right"} {
		if err := validateAccelerator(ok); err != nil {
			t.Errorf("validateAccelerator(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"<Super>NotAKey", "<Hyper>x", "<Super>"} {
		if err := validateAccelerator(bad); err == nil {
			t.Errorf("validateAccelerator(%q) should fail", bad)
		}
	}
}

func TestExternalChangeRefreshesRows(t *testing.T) {
	m, store := newTestModel(t, &fakeDaemon{pingErr: errors.New("no socket")})
	if m.daemonRunning {
		t.Fatalf("unreachable daemon reported running")
	}
	if err := store.SetAccelerator(settings.KeyNextScreen, "<Super>n"); err != nil {
		t.Fatalf("SetAccelerator: %v", err)
	}
	m = update(t, m, settingChangedMsg{key: settings.KeyNextScreen})
	if m.rows[0].accel != "<Super>n" {
		t.Fatalf("row not refreshed: %+v", m.rows[0])
	}
}
