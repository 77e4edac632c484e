package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML path and its source.
//
// Supported paths:
//
//	log_level
//	log_file
//	display
//	xauthority
//	settings_file
//	ignore_autorepeat
//	restore_maximized
//	ipc_timeout_seconds
//	menu_launcher
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every path Explain accepts.
func Paths() []string {
	return []string{
		"log_level",
		"log_file",
		"display",
		"xauthority",
		"settings_file",
		"ignore_autorepeat",
		"restore_maximized",
		"ipc_timeout_seconds",
		"menu_launcher",
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "log_level":
		return cfg.LogLevel, nil
	case "log_file":
		return cfg.LogFile, nil
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "settings_file":
		return cfg.SettingsFile, nil
	case "ignore_autorepeat":
		return cfg.IgnoreAutorepeat, nil
	case "restore_maximized":
		return cfg.RestoreMaximized, nil
	case "ipc_timeout_seconds":
		return cfg.IPCTimeoutSeconds, nil
	case "menu_launcher":
		return cfg.MenuLauncher, nil
	default:
		return nil, fmt.Errorf("unknown path: %s", path)
	}
}
