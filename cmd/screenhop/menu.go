package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/screenhop/internal/palette"
	"github.com/1broseidon/screenhop/internal/settings"
)

// menuSettings is what the menu reads to label shortcut rows.
type menuSettings interface {
	Keys() []string
	Summary(key string) string
	Accelerator(key string) (string, error)
	IsDefault(key string) bool
}

func runMenu(args []string) int {
	fs := flag.NewFlagSet("menu", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/screenhop/config.yaml)")
	settingsPath := fs.String("settings", "", "Shortcut settings file (default: settings_file from config)")
	launcherName := fs.String("launcher", "", "Launcher: auto, rofi, fuzzel, wofi, dmenu (default: menu_launcher from config)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: screenhop menu [--launcher NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Pick a screenhop action from a dmenu-style launcher.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if code, ok := parseFlags(fs, args); !ok {
		return code
	}

	res, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	name := *launcherName
	if name == "" {
		name = res.Config.MenuLauncher
	}
	launcher, err := palette.New(name)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	store, err := openSettings(*configPath, *settingsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	menu := palette.NewMenu(launcher, "screenhop")
	if status, err := newClient(*configPath).GetStatus(); err != nil {
		menu.SetMessage("daemon not running")
	} else {
		menu.SetMessage(fmt.Sprintf("%d monitor(s)", status.MonitorCount))
	}

	action, err := menu.Choose(menuNodes(store))
	if errors.Is(err, palette.ErrCancelled) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return runMenuAction(action, *configPath, store.Path(), os.Stdout)
}

func menuNodes(store menuSettings) []palette.Node {
	nodes := []palette.Node{
		{Choice: palette.Choice{Label: "Move window to next screen", Action: "move next", Icon: "go-next"}},
		{Choice: palette.Choice{Label: "Move window to previous screen", Action: "move previous", Icon: "go-previous"}},
		{Choice: palette.Choice{Label: "Shortcuts", Header: true}},
	}
	for _, key := range store.Keys() {
		a, err := store.Accelerator(key)
		label := settings.DisplayLabel(a)
		if err != nil {
			label = "invalid"
		}
		nodes = append(nodes, palette.Node{
			Choice: palette.Choice{
				Label: fmt.Sprintf("%s: %s", store.Summary(key), label),
				Icon:  "preferences-desktop-keyboard-shortcuts",
			},
			Children: []palette.Node{
				{Choice: palette.Choice{Label: "Capture new shortcut", Action: "capture " + key}},
				{Choice: palette.Choice{Label: "Disable", Action: "disable " + key, Current: err == nil && a == ""}},
				{Choice: palette.Choice{Label: "Reset to default", Action: "reset " + key, Current: store.IsDefault(key)}},
			},
		})
	}
	return nodes
}

// runMenuAction runs a picked action through the matching subcommand.
func runMenuAction(action, configPath, settingsPath string, w io.Writer) int {
	verb, arg, _ := strings.Cut(action, " ")
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	switch verb {
	case "move":
		return runMove(append(flags, arg))
	case "disable", "reset":
		return runShortcutsWrite(verb, append(flags, "--settings", settingsPath, arg), w)
	case "capture":
		return runShortcutsCapture(append(flags, "--settings", settingsPath, arg), w)
	default:
		fmt.Fprintf(os.Stderr, "unknown menu action %q\n", action)
		return 1
	}
}
