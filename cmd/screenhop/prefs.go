package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/screenhop/internal/logging"
	"github.com/1broseidon/screenhop/internal/prefs"
	"github.com/1broseidon/screenhop/internal/prefsgui"
)

func runPrefs(args []string) int {
	fs := flag.NewFlagSet("prefs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screenhop prefs [--gui] [--config PATH] [--settings PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Edit the move-window shortcuts. Changes are saved immediately and a")
		fmt.Fprintln(os.Stderr, "running daemon is reloaded.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings (terminal):")
		fmt.Fprintln(os.Stderr, "  j/k, ↑/↓      Select a shortcut")
		fmt.Fprintln(os.Stderr, "  Enter, Space  Record a new key combination")
		fmt.Fprintln(os.Stderr, "  e             Type an accelerator")
		fmt.Fprintln(os.Stderr, "  d             Disable")
		fmt.Fprintln(os.Stderr, "  r             Reset to default")
		fmt.Fprintln(os.Stderr, "  o             Open the settings file in $EDITOR")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C     Quit")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Terminals cannot report Super; use --gui, e, or 'screenhop shortcuts capture'.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	gui := fs.Bool("gui", false, "Open a window instead of the terminal UI")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/screenhop/config.yaml)")
	settingsPath := fs.String("settings", "", "Shortcut settings file (default: settings_file from config)")
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "prefs takes no arguments")
		fs.Usage()
		return 2
	}

	store, err := openSettings(*configPath, *settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	client := newClient(*configPath)

	if *gui {
		err = prefsgui.Run(store, client, warnLogger())
	} else {
		// The terminal belongs to the UI; only a configured log file gets output.
		logger := logging.Nop()
		if res, _, lerr := loadConfig(*configPath); lerr == nil && res.Config.LogFile != "" {
			if l, lerr := logging.New(logging.WithConsole(io.Discard), logging.WithFile(res.Config.LogFile)); lerr == nil {
				defer l.Close()
				logger = l.Logger
			}
		}
		err = prefs.Run(store, client, logger)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
