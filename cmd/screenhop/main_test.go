package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/config"
	"github.com/1broseidon/screenhop/internal/ipc"
	"github.com/1broseidon/screenhop/internal/settings"
	"github.com/1broseidon/screenhop/internal/x11"
)

// isolate points HOME and the runtime dir at temp dirs so no real config
// or daemon is touched.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_RUNTIME_DIR", t.TempDir())
	return home
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceDefault}, "default"},
		{config.Source{Kind: config.SourceDefault, Name: "log_level"}, "default:log_level"},
		{config.Source{Kind: config.SourceFile}, "file"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml"}, "file:/c.yaml"},
		{config.Source{Kind: config.SourceFile, File: "/c.yaml", Line: 3, Column: 12}, "file:/c.yaml:3:12"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestDescribeMove(t *testing.T) {
	tests := []struct {
		data ipc.MoveData
		want string
	}{
		{ipc.MoveData{Outcome: "moved", Title: "editor", From: 0, To: 1}, `moved "editor" from monitor 0 to 1`},
		{ipc.MoveData{Outcome: "moved", WindowID: 0x1a, From: 2, To: 0}, `moved "0x1a" from monitor 2 to 0`},
		{ipc.MoveData{Outcome: "moved", WindowID: 0x1a, Class: "Alacritty", From: 1, To: 2}, `moved "Alacritty" from monitor 1 to 2`},
		{ipc.MoveData{Outcome: "no_focused_window"}, "no focused window"},
		{ipc.MoveData{Outcome: "single_monitor"}, "only one monitor"},
	}
	for _, tt := range tests {
		if got := describeMove(&tt.data); got != tt.want {
			t.Errorf("describeMove(%+v) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestWriteMonitors(t *testing.T) {
	var buf bytes.Buffer
	writeMonitors(&buf, []ipc.MonitorInfo{
		{ID: 0, Name: "DP-1", Width: 2560, Height: 1440},
		{ID: 1, X: 2560, Width: 1920, Height: 1080},
	})
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[0], "DP-1") || !strings.Contains(lines[0], "2560x1440+0+0") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "-") || !strings.Contains(lines[1], "1920x1080+2560+0") {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestWriteShortcuts(t *testing.T) {
	var buf bytes.Buffer
	writeShortcuts(&buf, []ipc.ShortcutInfo{
		{Summary: "Move current window to next screen", Accelerator: "<Alt><Super>Right", Default: true, Registered: true},
		{Summary: "Move current window to previous screen", Accelerator: "<Super>p", Registered: false},
	}, true)
	out := buf.String()
	if !strings.Contains(out, "<Alt><Super>Right (default)") {
		t.Errorf("missing default note:\n%s", out)
	}
	if !strings.Contains(out, "<Super>p (not grabbed)") {
		t.Errorf("missing grab note:\n%s", out)
	}

	buf.Reset()
	writeShortcuts(&buf, []ipc.ShortcutInfo{{Summary: "Move current window to next screen"}}, false)
	if !strings.Contains(buf.String(), "Disabled") || !strings.Contains(buf.String(), "daemon not running") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestKeyEventFromPress(t *testing.T) {
	sym, ok := accel.Keysym("Right")
	if !ok {
		t.Fatalf("Right keysym unknown")
	}
	ev := keyEventFromPress(x11.KeyPress{Keysym: sym, State: accel.ModSuper.XMask() | accel.ModAlt.XMask() | 0x10})
	if ev.Key != "Right" || ev.Mods != accel.ModSuper|accel.ModAlt {
		t.Fatalf("event = %+v", ev)
	}
	if ev := keyEventFromPress(x11.KeyPress{Keysym: 0xfeedbeef}); ev.Key != "" {
		t.Fatalf("unknown keysym mapped to %q", ev.Key)
	}
}

func TestShortcutsWriteCommands(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	var out bytes.Buffer

	if code := runShortcutsWrite("set", []string{"--settings", path, "prev", "Ctrl+Alt+T"}, &out); code != 0 {
		t.Fatalf("set exit = %d", code)
	}
	if !strings.Contains(out.String(), "Move current window to previous screen: <Control><Alt>t") {
		t.Fatalf("set output = %q", out.String())
	}
	if strings.Contains(out.String(), "daemon reloaded") {
		t.Fatalf("no daemon should be reachable")
	}

	if code := runShortcutsWrite("disable", []string{"--settings", path, "next"}, &out); code != 0 {
		t.Fatalf("disable exit = %d", code)
	}

	store, err := settings.Open(path, settings.DefaultSchema(), warnLogger())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	if a, _ := store.Accelerator(settings.KeyPreviousScreen); a != "<Control><Alt>t" {
		t.Fatalf("previous = %q", a)
	}
	if a, _ := store.Accelerator(settings.KeyNextScreen); a != "" {
		t.Fatalf("next = %q, want disabled", a)
	}

	if code := runShortcutsWrite("reset", []string{"--settings", path, settings.KeyNextScreen}, &out); code != 0 {
		t.Fatalf("reset exit = %d", code)
	}
	if err := store.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if !store.IsDefault(settings.KeyNextScreen) {
		t.Fatalf("next should be back to default")
	}
}

func TestShortcutsUsageErrors(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	var out bytes.Buffer

	tests := []struct {
		op   string
		args []string
	}{
		{"set", []string{"--settings", path, "next"}},
		{"set", []string{"--settings", path, "sideways", "<Super>s"}},
		{"set", []string{"--settings", path, "next", "<Super>NotAKey"}},
		{"disable", []string{"--settings", path}},
	}
	for _, tt := range tests {
		if code := runShortcutsWrite(tt.op, tt.args, &out); code != 2 {
			t.Errorf("%s %v: exit = %d, want 2", tt.op, tt.args, code)
		}
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("usage errors should not create the settings file")
	}
	if code := runShortcuts([]string{"bogus"}); code != 2 {
		t.Fatalf("unknown subcommand exit = %d", code)
	}
}

func TestShortcutsListUsesConfiguredSettingsFile(t *testing.T) {
	home := isolate(t)
	settingsPath := filepath.Join(home, "hop.yaml")
	configPath := filepath.Join(home, "config.yaml")
	if err := os.WriteFile(configPath, []byte("settings_file: ~/hop.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(settingsPath, []byte("move-window-to-next-screen-shortcut: [\"<Super>n\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if code := runShortcutsList([]string{"--config", configPath}, &out); code != 0 {
		t.Fatalf("list exit = %d", code)
	}
	if !strings.Contains(out.String(), "<Super>n") {
		t.Fatalf("list output = %q", out.String())
	}
}

type staticMenuSettings map[string]string

func (s staticMenuSettings) Keys() []string {
	return []string{settings.KeyNextScreen, settings.KeyPreviousScreen}
}
func (s staticMenuSettings) Summary(key string) string { return key }
func (s staticMenuSettings) Accelerator(key string) (string, error) {
	return s[key], nil
}
func (s staticMenuSettings) IsDefault(key string) bool { return key == settings.KeyNextScreen }

func TestMenuNodes(t *testing.T) {
	nodes := menuNodes(staticMenuSettings{settings.KeyNextScreen: "<Alt><Super>Right"})
	if len(nodes) != 5 {
		t.Fatalf("nodes = %d, want 5", len(nodes))
	}
	if nodes[0].Action != "move next" || nodes[1].Action != "move previous" || !nodes[2].Header {
		t.Fatalf("top rows = %+v", nodes[:3])
	}

	next := nodes[3]
	if next.Label != settings.KeyNextScreen+": <Alt><Super>Right" || len(next.Children) != 3 {
		t.Fatalf("next row = %+v", next)
	}
	if !next.Children[2].Current || next.Children[1].Current {
		t.Fatalf("next children = %+v", next.Children)
	}

	prev := nodes[4]
	if prev.Label != settings.KeyPreviousScreen+": Disabled" || !prev.Children[1].Current {
		t.Fatalf("previous row = %+v", prev)
	}
	if prev.Children[0].Action != "capture "+settings.KeyPreviousScreen {
		t.Fatalf("capture action = %q", prev.Children[0].Action)
	}
}

func TestRunMenuActionDisables(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "settings.yaml")
	var out bytes.Buffer
	if code := runMenuAction("disable "+settings.KeyNextScreen, "", path, &out); code != 0 {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(out.String(), "Disabled") {
		t.Fatalf("output = %q", out.String())
	}
	if code := runMenuAction("explode", "", path, &out); code != 1 {
		t.Fatalf("unknown action exit = %d", code)
	}
}
