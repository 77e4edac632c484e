package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

// RawConfig is one file's view. A nil field was not set in that file.
type RawConfig struct {
	Include           IncludeList `yaml:"include"`
	LogLevel          *string     `yaml:"log_level"`
	LogFile           *string     `yaml:"log_file"`
	Display           *string     `yaml:"display"`
	XAuthority        *string     `yaml:"xauthority"`
	SettingsFile      *string     `yaml:"settings_file"`
	IgnoreAutorepeat  *bool       `yaml:"ignore_autorepeat"`
	RestoreMaximized  *bool       `yaml:"restore_maximized"`
	IPCTimeoutSeconds *int        `yaml:"ipc_timeout_seconds"`
	MenuLauncher      *string     `yaml:"menu_launcher"`
}

// merge returns c with every field set in overlay replaced.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != nil {
		out.LogFile = overlay.LogFile
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.SettingsFile != nil {
		out.SettingsFile = overlay.SettingsFile
	}
	if overlay.IgnoreAutorepeat != nil {
		out.IgnoreAutorepeat = overlay.IgnoreAutorepeat
	}
	if overlay.RestoreMaximized != nil {
		out.RestoreMaximized = overlay.RestoreMaximized
	}
	if overlay.IPCTimeoutSeconds != nil {
		out.IPCTimeoutSeconds = overlay.IPCTimeoutSeconds
	}
	if overlay.MenuLauncher != nil {
		out.MenuLauncher = overlay.MenuLauncher
	}
	return out
}
