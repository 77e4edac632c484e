// Package mcp exposes screenhop as Model Context Protocol tools over stdio.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/ipc"
	"github.com/1broseidon/screenhop/internal/settings"
)

const (
	ServerName    = "screenhop"
	ServerVersion = "0.1.0"
)

// Daemon is the IPC surface of the running daemon.
type Daemon interface {
	Move(direction int) (*ipc.MoveData, error)
	GetMonitors() (*ipc.MonitorsData, error)
	GetShortcuts() (*ipc.ShortcutsData, error)
	Reload() error
}

// Settings is the shortcut store the tools read and write. Writes go to the
// file directly so they work without a daemon.
type Settings interface {
	Keys() []string
	Summary(key string) string
	Accelerator(key string) (string, error)
	IsDefault(key string) bool
	SetAccelerator(key, a string) error
	Reset(key string) error
	Reload() error
}

// Server is the MCP server for screenhop.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	store     Settings
	schema    settings.Schema
	logger    zerolog.Logger
}

// NewServer creates the server and registers its tools.
func NewServer(daemon Daemon, store Settings, logger zerolog.Logger) *Server {
	s := &Server{
		daemon: daemon,
		store:  store,
		schema: settings.DefaultSchema(),
		logger: logger,
	}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s
}

// Run serves on the stdio transport until ctx is done or the client leaves.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move the focused window to the next or previous monitor, the same hop the keyboard shortcuts perform. Monitors are ordered left to right. Requires a running screenhop daemon. Returns moved, no_focused_window or single_monitor.",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_monitors",
		Description: "List monitors in hop order with their geometry. Requires a running screenhop daemon.",
	}, s.handleListMonitors)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_shortcuts",
		Description: "List the move-window shortcuts, their accelerators (empty when disabled), whether the default applies and, when the daemon runs, whether the key grab is active.",
	}, s.handleListShortcuts)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_shortcut",
		Description: "Change a move-window shortcut. Pass an accelerator like <Alt><Super>Right, an empty accelerator to disable, or reset=true to restore the default. A running daemon is reloaded.",
	}, s.handleSetShortcut)
}
