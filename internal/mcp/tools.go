package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/cycler"
	"github.com/1broseidon/screenhop/internal/ipc"
)

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, MoveWindowOutput, error) {
	direction, err := cycler.ParseDirection(args.Direction)
	if err != nil {
		return nil, MoveWindowOutput{}, err
	}
	data, err := s.daemon.Move(direction)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", "move_window").Msg("move failed")
		return nil, MoveWindowOutput{}, fmt.Errorf("move %s: %w", cycler.DirectionName(direction), err)
	}
	s.logger.Info().Str("tool", "move_window").Str("outcome", data.Outcome).Int("from", data.From).Int("to", data.To).Msg("tool call")
	return nil, MoveWindowOutput{
		Outcome:  data.Outcome,
		WindowID: data.WindowID,
		Title:    data.Title,
		Class:    data.Class,
		From:     data.From,
		To:       data.To,
	}, nil
}

func (s *Server) handleListMonitors(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListMonitorsInput) (*mcpsdk.CallToolResult, ListMonitorsOutput, error) {
	data, err := s.daemon.GetMonitors()
	if err != nil {
		return nil, ListMonitorsOutput{}, fmt.Errorf("list monitors: %w", err)
	}
	monitors := data.Monitors
	if monitors == nil {
		monitors = []ipc.MonitorInfo{}
	}
	return nil, ListMonitorsOutput{Monitors: monitors}, nil
}

func (s *Server) handleListShortcuts(_ context.Context, _ *mcpsdk.CallToolRequest, _ ListShortcutsInput) (*mcpsdk.CallToolResult, ListShortcutsOutput, error) {
	// Other processes edit the same file; read what is on disk now.
	if err := s.store.Reload(); err != nil {
		return nil, ListShortcutsOutput{}, err
	}
	registered := map[string]bool{}
	out := ListShortcutsOutput{}
	if data, err := s.daemon.GetShortcuts(); err == nil {
		out.DaemonRunning = true
		for _, sc := range data.Shortcuts {
			registered[sc.Name] = sc.Registered
		}
	} else {
		s.logger.Debug().Err(err).Msg("daemon not reachable, reporting file state only")
	}

	for _, key := range s.store.Keys() {
		a, err := s.store.Accelerator(key)
		if err != nil {
			return nil, ListShortcutsOutput{}, err
		}
		out.Shortcuts = append(out.Shortcuts, ipc.ShortcutInfo{
			Name:        key,
			Summary:     s.store.Summary(key),
			Accelerator: a,
			Default:     s.store.IsDefault(key),
			Registered:  registered[key],
		})
	}
	return nil, out, nil
}

func (s *Server) handleSetShortcut(_ context.Context, _ *mcpsdk.CallToolRequest, args SetShortcutInput) (*mcpsdk.CallToolResult, SetShortcutOutput, error) {
	key, err := s.schema.ResolveKey(args.Binding)
	if err != nil {
		return nil, SetShortcutOutput{}, err
	}

	if args.Reset {
		err = s.store.Reset(key)
	} else {
		value := strings.TrimSpace(args.Accelerator)
		if value != "" {
			a, perr := accel.Parse(value)
			if perr != nil {
				return nil, SetShortcutOutput{}, perr
			}
			value = a.Name()
		}
		err = s.store.SetAccelerator(key, value)
	}
	if err != nil {
		return nil, SetShortcutOutput{}, err
	}

	current, err := s.store.Accelerator(key)
	if err != nil {
		return nil, SetShortcutOutput{}, err
	}
	out := SetShortcutOutput{
		Binding:     key,
		Accelerator: current,
		Default:     s.store.IsDefault(key),
	}
	if err := s.daemon.Reload(); err == nil {
		out.DaemonReloaded = true
	} else {
		s.logger.Debug().Err(err).Msg("daemon not reloaded")
	}
	s.logger.Info().Str("tool", "set_shortcut").Str("binding", key).Str("accelerator", current).Msg("tool call")
	return nil, out, nil
}
