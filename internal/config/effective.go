package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies raw on top of the defaults.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.LogFile != nil {
		path, err := expandHome(strings.TrimSpace(*raw.LogFile))
		if err != nil {
			return nil, &ValidationError{Path: "log_file", Err: err}
		}
		cfg.LogFile = path
	}
	if raw.Display != nil {
		cfg.Display = strings.TrimSpace(*raw.Display)
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = strings.TrimSpace(*raw.XAuthority)
	}
	if raw.SettingsFile != nil {
		cfg.SettingsFile = strings.TrimSpace(*raw.SettingsFile)
	}
	if raw.IgnoreAutorepeat != nil {
		cfg.IgnoreAutorepeat = *raw.IgnoreAutorepeat
	}
	if raw.RestoreMaximized != nil {
		cfg.RestoreMaximized = *raw.RestoreMaximized
	}
	if raw.IPCTimeoutSeconds != nil {
		cfg.IPCTimeoutSeconds = *raw.IPCTimeoutSeconds
	}
	if raw.MenuLauncher != nil {
		cfg.MenuLauncher = strings.ToLower(strings.TrimSpace(*raw.MenuLauncher))
	}
	return cfg, nil
}
