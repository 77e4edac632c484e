package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/config"
	"github.com/1broseidon/screenhop/internal/cycler"
	"github.com/1broseidon/screenhop/internal/hotkeys"
	"github.com/1broseidon/screenhop/internal/platform"
	"github.com/1broseidon/screenhop/internal/settings"
)

type fakeMover struct {
	res     cycler.Result
	err     error
	enabled bool
}

func (m *fakeMover) Trigger(_ context.Context, direction int) (cycler.Result, error) {
	if m.err != nil {
		return cycler.Result{}, m.err
	}
	res := m.res
	res.To = cycler.Cycle(res.From, direction, 2)
	return res, nil
}

func (m *fakeMover) Enabled() bool { return m.enabled }

type fakeMonitors []platform.Monitor

func (f fakeMonitors) Monitors() ([]platform.Monitor, error) { return f, nil }

type fakeBound map[string]accel.Accelerator

func (f fakeBound) Bound(name string) (accel.Accelerator, bool) {
	a, ok := f[name]
	return a, ok
}

func newController(t *testing.T, m *fakeMover) *controller {
	t.Helper()
	store, err := settings.Open(filepath.Join(t.TempDir(), "settings.yaml"), settings.DefaultSchema(), zerolog.Nop())
	if err != nil {
		t.Fatalf("settings.Open: %v", err)
	}
	return &controller{
		mover: m,
		monitors: fakeMonitors{
			{Index: 0, Name: "DP-1", Bounds: platform.Rect{Width: 1920, Height: 1080}},
			{Index: 1, Name: "HDMI-1", Bounds: platform.Rect{X: 1920, Width: 1920, Height: 1080}},
		},
		store:      store,
		bound:      fakeBound{settings.KeyNextScreen: accel.MustParse("<Alt><Super>Right")},
		configPath: "/etc/screenhop.yaml",
	}
}

func TestControllerMove(t *testing.T) {
	c := newController(t, &fakeMover{res: cycler.Result{Outcome: cycler.OutcomeMoved, WindowID: 7, Title: "term", Class: "XTerm", From: 0}})

	data, err := c.Move(context.Background(), cycler.Next)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if data.Outcome != "moved" || data.WindowID != 7 || data.Class != "XTerm" || data.To != 1 {
		t.Fatalf("unexpected move data: %+v", data)
	}

	boom := errors.New("no X")
	c = newController(t, &fakeMover{err: boom})
	if _, err := c.Move(context.Background(), cycler.Next); !errors.Is(err, boom) {
		t.Fatalf("expected mover error, got %v", err)
	}
}

func TestControllerMonitorsAndStatus(t *testing.T) {
	c := newController(t, &fakeMover{enabled: true})

	monitors, err := c.Monitors()
	if err != nil {
		t.Fatalf("Monitors: %v", err)
	}
	if len(monitors) != 2 || monitors[1].X != 1920 || monitors[1].Name != "HDMI-1" {
		t.Fatalf("unexpected monitors: %+v", monitors)
	}

	status := c.Status()
	if !status.ExtensionEnabled || status.MonitorCount != 2 {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.ConfigFile != "/etc/screenhop.yaml" || status.SettingsFile != c.store.Path() {
		t.Fatalf("unexpected paths in status: %+v", status)
	}
}

func TestControllerShortcuts(t *testing.T) {
	c := newController(t, &fakeMover{})
	if err := c.store.SetAccelerator(settings.KeyPreviousScreen, ""); err != nil {
		t.Fatalf("SetAccelerator: %v", err)
	}

	shortcuts, err := c.Shortcuts()
	if err != nil {
		t.Fatalf("Shortcuts: %v", err)
	}
	if len(shortcuts) != 2 {
		t.Fatalf("expected 2 shortcuts, got %+v", shortcuts)
	}
	next, prev := shortcuts[0], shortcuts[1]
	if next.Name != settings.KeyNextScreen || !next.Default || !next.Registered {
		t.Fatalf("unexpected next shortcut: %+v", next)
	}
	if prev.Accelerator != "" || prev.Default || prev.Registered {
		t.Fatalf("unexpected previous shortcut: %+v", prev)
	}
}

func TestReloadAppliesConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("ignore_autorepeat: false\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	d := New(path, nil, zerolog.Nop())
	if err := d.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := flagsFor(d.config()); got != hotkeys.FlagNone {
		t.Fatalf("flags after reload = %v, want none", got)
	}

	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := d.Reload(); err == nil {
		t.Fatalf("expected invalid config to fail reload")
	}
	if d.config().IgnoreAutorepeat {
		t.Fatalf("failed reload should keep the previous config")
	}
}

func TestSettingsPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := settingsPath(config.DefaultConfig())
	if err != nil {
		t.Fatalf("settingsPath: %v", err)
	}
	if want := filepath.Join(home, ".config", "screenhop", "settings.yaml"); got != want {
		t.Fatalf("settingsPath = %q, want %q", got, want)
	}

	cfg := config.DefaultConfig()
	cfg.SettingsFile = "~/keys.yaml"
	if got, _ := settingsPath(cfg); got != filepath.Join(home, "keys.yaml") {
		t.Fatalf("settingsPath with override = %q", got)
	}
}
