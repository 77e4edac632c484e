package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandMove         CommandType = "MOVE"
	CommandReload       CommandType = "RELOAD"
	CommandGetStatus    CommandType = "GET_STATUS"
	CommandGetMonitors  CommandType = "GET_MONITORS"
	CommandGetShortcuts CommandType = "GET_SHORTCUTS"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// MovePayload is the payload for MOVE. Direction is +1 or -1.
type MovePayload struct {
	Direction int `json:"direction"`
}

// MoveData is the data returned by MOVE.
type MoveData struct {
	Outcome  string `json:"outcome"`
	WindowID uint32 `json:"window_id,omitempty"`
	Title    string `json:"title,omitempty"`
	Class    string `json:"class,omitempty"`
	From     int    `json:"from"`
	To       int    `json:"to"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning    bool   `json:"daemon_running"`
	ExtensionEnabled bool   `json:"extension_enabled"`
	MonitorCount     int    `json:"monitor_count"`
	UptimeSeconds    int64  `json:"uptime_seconds"`
	ConfigFile       string `json:"config_file,omitempty"`
	SettingsFile     string `json:"settings_file,omitempty"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// MonitorsData represents the data returned by GET_MONITORS
type MonitorsData struct {
	Monitors []MonitorInfo `json:"monitors"`
}

// ShortcutInfo describes one binding as the daemon currently holds it.
type ShortcutInfo struct {
	Name        string `json:"name"`
	Summary     string `json:"summary"`
	Accelerator string `json:"accelerator"`
	Default     bool   `json:"default"`
	Registered  bool   `json:"registered"`
}

// ShortcutsData represents the data returned by GET_SHORTCUTS
type ShortcutsData struct {
	Shortcuts []ShortcutInfo `json:"shortcuts"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
