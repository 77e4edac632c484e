package mcp

import "github.com/1broseidon/screenhop/internal/ipc"

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	Direction string `json:"direction" jsonschema:"Where to send the focused window: next or previous (+1 and -1 are accepted too)"`
}

// MoveWindowOutput is the output for the move_window tool.
type MoveWindowOutput struct {
	Outcome  string `json:"outcome"`
	WindowID uint32 `json:"window_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Class    string `json:"class,omitempty"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

// ListMonitorsInput is the input for the list_monitors tool.
type ListMonitorsInput struct{}

// ListMonitorsOutput is the output for the list_monitors tool.
type ListMonitorsOutput struct {
	Monitors []ipc.MonitorInfo `json:"monitors"`
}

// ListShortcutsInput is the input for the list_shortcuts tool.
type ListShortcutsInput struct{}

// ListShortcutsOutput is the output for the list_shortcuts tool.
type ListShortcutsOutput struct {
	DaemonRunning bool               `json:"daemon_running"`
	Shortcuts     []ipc.ShortcutInfo `json:"shortcuts"`
}

// SetShortcutInput is the input for the set_shortcut tool.
type SetShortcutInput struct {
	Binding     string `json:"binding" jsonschema:"Binding to change: next, previous, or the full settings key"`
	Accelerator string `json:"accelerator,omitempty" jsonschema:"Accelerator such as <Alt><Super>Right. Empty disables the binding."`
	Reset       bool   `json:"reset,omitempty" jsonschema:"Restore the default accelerator; accelerator is ignored"`
}

// SetShortcutOutput is the output for the set_shortcut tool.
type SetShortcutOutput struct {
	Binding        string `json:"binding"`
	Accelerator    string `json:"accelerator"`
	Default        bool   `json:"default"`
	DaemonReloaded bool   `json:"daemon_reloaded"`
}
