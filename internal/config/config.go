package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultLogLevel          = "info"
	defaultIPCTimeoutSeconds = 5
	defaultMenuLauncher      = "auto"
)

// Config is the effective daemon configuration.
type Config struct {
	LogLevel          string `yaml:"log_level"`
	LogFile           string `yaml:"log_file"`
	Display           string `yaml:"display"`
	XAuthority        string `yaml:"xauthority"`
	SettingsFile      string `yaml:"settings_file"`
	IgnoreAutorepeat  bool   `yaml:"ignore_autorepeat"`
	RestoreMaximized  bool   `yaml:"restore_maximized"`
	IPCTimeoutSeconds int    `yaml:"ipc_timeout_seconds"`
	MenuLauncher      string `yaml:"menu_launcher"`
}

func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "screenhop", "config.yaml"), nil
}

// DefaultConfig returns the configuration used when no file sets a value.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:          defaultLogLevel,
		IgnoreAutorepeat:  true,
		RestoreMaximized:  true,
		IPCTimeoutSeconds: defaultIPCTimeoutSeconds,
		MenuLauncher:      defaultMenuLauncher,
	}
}

// IPCTimeout returns the client timeout for daemon requests.
func (c *Config) IPCTimeout() time.Duration {
	if c == nil || c.IPCTimeoutSeconds <= 0 {
		return defaultIPCTimeoutSeconds * time.Second
	}
	return time.Duration(c.IPCTimeoutSeconds) * time.Second
}

// ResolveSettingsFile returns the shortcut settings path, expanding a
// leading "~". An empty result means the settings package default.
func (c *Config) ResolveSettingsFile() (string, error) {
	if c == nil || strings.TrimSpace(c.SettingsFile) == "" {
		return "", nil
	}
	return expandHome(c.SettingsFile)
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "warn", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.IPCTimeoutSeconds < 0 {
		return &ValidationError{Path: "ipc_timeout_seconds", Err: fmt.Errorf("ipc_timeout_seconds must be >= 0")}
	}
	switch c.MenuLauncher {
	case "auto", "rofi", "fuzzel", "wofi", "dmenu":
	default:
		return &ValidationError{Path: "menu_launcher", Err: fmt.Errorf("menu_launcher must be one of: auto, rofi, fuzzel, wofi, dmenu")}
	}
	if c.Display != "" && !strings.Contains(c.Display, ":") {
		return &ValidationError{Path: "display", Err: fmt.Errorf("display %q must look like :0 or host:0", c.Display)}
	}
	return nil
}

func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if path == "~" {
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
