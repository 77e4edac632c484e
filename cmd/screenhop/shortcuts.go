package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/capture"
	"github.com/1broseidon/screenhop/internal/ipc"
	"github.com/1broseidon/screenhop/internal/settings"
	"github.com/1broseidon/screenhop/internal/x11"
)

func printShortcutsUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  screenhop shortcuts list [--json]")
	fmt.Fprintln(w, "  screenhop shortcuts set <binding> <accelerator>")
	fmt.Fprintln(w, "  screenhop shortcuts disable <binding>")
	fmt.Fprintln(w, "  screenhop shortcuts reset <binding>")
	fmt.Fprintln(w, "  screenhop shortcuts capture [--timeout 30s] <binding>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Bindings: next, previous (prev), or the full settings key.")
	fmt.Fprintln(w, "Accelerators: <Alt><Super>Right, Super+Alt+Right or Mod4-Mod1-Right.")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Every subcommand accepts --config PATH and --settings PATH.")
}

// openSettings opens the shortcut store. An explicit settingsPath wins over
// settings_file in the config.
func openSettings(configPath, settingsPath string) (*settings.Store, error) {
	path := strings.TrimSpace(settingsPath)
	if path == "" {
		res, _, err := loadConfig(configPath)
		if err != nil {
			return nil, err
		}
		path, err = res.Config.ResolveSettingsFile()
		if err != nil {
			return nil, err
		}
	}
	if path == "" {
		p, err := settings.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return settings.Open(path, settings.DefaultSchema(), warnLogger())
}

// shortcutFlags returns a flag set carrying the shared --config and
// --settings flags.
func shortcutFlags(name, usage string) (*flag.FlagSet, *string, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/screenhop/config.yaml)")
	settingsPath := fs.String("settings", "", "Shortcut settings file (default: settings_file from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screenhop shortcuts "+usage)
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	return fs, configPath, settingsPath
}

func runShortcuts(args []string) int {
	if len(args) == 0 {
		printShortcutsUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printShortcutsUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "list":
		return runShortcutsList(args[1:], os.Stdout)
	case "set":
		return runShortcutsWrite("set", args[1:], os.Stdout)
	case "disable":
		return runShortcutsWrite("disable", args[1:], os.Stdout)
	case "reset":
		return runShortcutsWrite("reset", args[1:], os.Stdout)
	case "capture":
		return runShortcutsCapture(args[1:], os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown shortcuts subcommand: %s\n\n", args[0])
		printShortcutsUsage(os.Stderr)
		return 2
	}
}

func runShortcutsList(args []string, w io.Writer) int {
	fs, configPath, settingsPath := shortcutFlags("list", "list [--json]")
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "shortcuts list takes no arguments")
		fs.Usage()
		return 2
	}

	store, err := openSettings(*configPath, *settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	registered := map[string]bool{}
	daemonRunning := false
	if data, err := newClient(*configPath).GetShortcuts(); err == nil {
		daemonRunning = true
		for _, sc := range data.Shortcuts {
			registered[sc.Name] = sc.Registered
		}
	}

	var list []ipc.ShortcutInfo
	for _, key := range store.Keys() {
		a, err := store.Accelerator(key)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		list = append(list, ipc.ShortcutInfo{
			Name:        key,
			Summary:     store.Summary(key),
			Accelerator: a,
			Default:     store.IsDefault(key),
			Registered:  registered[key],
		})
	}

	if *jsonOut {
		out, err := json.MarshalIndent(ipc.ShortcutsData{Shortcuts: list}, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Fprintln(w, string(out))
		return 0
	}
	writeShortcuts(w, list, daemonRunning)
	return 0
}

func writeShortcuts(w io.Writer, list []ipc.ShortcutInfo, daemonRunning bool) {
	for _, sc := range list {
		var notes []string
		if sc.Default {
			notes = append(notes, "default")
		}
		if daemonRunning && sc.Accelerator != "" && !sc.Registered {
			notes = append(notes, "not grabbed")
		}
		line := fmt.Sprintf("%-42s %s", sc.Summary, settings.DisplayLabel(sc.Accelerator))
		if len(notes) > 0 {
			line += " (" + strings.Join(notes, ", ") + ")"
		}
		fmt.Fprintln(w, line)
	}
	if !daemonRunning {
		fmt.Fprintln(w, "daemon not running")
	}
}

func runShortcutsWrite(op string, args []string, w io.Writer) int {
	usage := op + " <binding>"
	want := 1
	if op == "set" {
		usage = "set <binding> <accelerator>"
		want = 2
	}
	fs, configPath, settingsPath := shortcutFlags(op, usage)
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != want {
		fmt.Fprintf(os.Stderr, "shortcuts %s requires %d argument(s)\n", op, want)
		fs.Usage()
		return 2
	}
	key, err := settings.DefaultSchema().ResolveKey(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	store, err := openSettings(*configPath, *settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch op {
	case "set":
		a, perr := accel.Parse(fs.Arg(1))
		if perr != nil {
			fmt.Fprintln(os.Stderr, perr)
			return 2
		}
		err = store.SetAccelerator(key, a.Name())
	case "disable":
		err = store.SetAccelerator(key, "")
	case "reset":
		err = store.Reset(key)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	reportSaved(w, store, key, *configPath)
	return 0
}

// reportSaved prints the binding's new value and reloads a running daemon.
func reportSaved(w io.Writer, store *settings.Store, key, configPath string) {
	a, _ := store.Accelerator(key)
	fmt.Fprintf(w, "%s: %s\n", store.Summary(key), settings.DisplayLabel(a))
	if err := newClient(configPath).Reload(); err == nil {
		fmt.Fprintln(w, "daemon reloaded")
	}
}

func runShortcutsCapture(args []string, w io.Writer) int {
	fs, configPath, settingsPath := shortcutFlags("capture", "capture [--timeout 30s] <binding>")
	timeout := fs.Duration("timeout", 30*time.Second, "Give up after this long")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "shortcuts capture requires <binding>")
		fs.Usage()
		return 2
	}
	key, err := settings.DefaultSchema().ResolveKey(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	store, err := openSettings(*configPath, *settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	var display, xauthority string
	if res, _, err := loadConfig(*configPath); err == nil {
		display, xauthority = res.Config.Display, res.Config.XAuthority
	}
	env, err := x11.ResolveSessionEnv(os.Environ(), display, xauthority)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := env.Apply(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	conn, err := x11.NewConnection(env.Display)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Set Shortcut for %s\n", store.Summary(key))
	fmt.Fprintln(os.Stderr, "Press any key combination...")
	fmt.Fprintln(os.Stderr, "Press Esc to cancel, Backspace to disable")

	session := capture.NewSession(key)
	var result capture.Outcome
	err = conn.CaptureKeys(ctx, func(kp x11.KeyPress) bool {
		out := session.Handle(keyEventFromPress(kp))
		if out.Closes() {
			result = out
			return true
		}
		return false
	})
	if errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintln(os.Stderr, "timed out waiting for a key")
		return 1
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	switch result.Action {
	case capture.Ignore:
		fmt.Fprintln(os.Stderr, "no shortcut captured")
		return 1
	case capture.Cancel:
		fmt.Fprintln(w, "unchanged")
		return 0
	}
	if err := session.Commit(store, result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	reportSaved(w, store, key, *configPath)
	return 0
}

// keyEventFromPress converts a grabbed X key press. Keysyms without a name
// yield an empty key, which the capture session ignores.
func keyEventFromPress(kp x11.KeyPress) capture.KeyEvent {
	name, _ := accel.KeysymName(kp.Keysym)
	return capture.KeyEvent{Key: name, Mods: accel.FromXState(kp.State)}
}
