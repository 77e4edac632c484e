package daemon

import (
	"context"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/cycler"
	"github.com/1broseidon/screenhop/internal/ipc"
	"github.com/1broseidon/screenhop/internal/platform"
	"github.com/1broseidon/screenhop/internal/settings"
)

type mover interface {
	Trigger(ctx context.Context, direction int) (cycler.Result, error)
	Enabled() bool
}

type monitorLister interface {
	Monitors() ([]platform.Monitor, error)
}

type boundLookup interface {
	Bound(name string) (accel.Accelerator, bool)
}

// controller answers IPC requests for a running daemon.
type controller struct {
	mover      mover
	monitors   monitorLister
	store      *settings.Store
	bound      boundLookup
	reload     func() error
	configPath string
}

var _ ipc.Controller = (*controller)(nil)

func (c *controller) Move(ctx context.Context, direction int) (ipc.MoveData, error) {
	res, err := c.mover.Trigger(ctx, direction)
	if err != nil {
		return ipc.MoveData{}, err
	}
	return ipc.MoveData{
		Outcome:  string(res.Outcome),
		WindowID: uint32(res.WindowID),
		Title:    res.Title,
		Class:    res.Class,
		From:     res.From,
		To:       res.To,
	}, nil
}

func (c *controller) Monitors() ([]ipc.MonitorInfo, error) {
	monitors, err := c.monitors.Monitors()
	if err != nil {
		return nil, err
	}
	out := make([]ipc.MonitorInfo, len(monitors))
	for i, m := range monitors {
		out[i] = ipc.MonitorInfo{
			ID:     m.Index,
			Name:   m.Name,
			X:      m.Bounds.X,
			Y:      m.Bounds.Y,
			Width:  m.Bounds.Width,
			Height: m.Bounds.Height,
		}
	}
	return out, nil
}

func (c *controller) Shortcuts() ([]ipc.ShortcutInfo, error) {
	keys := c.store.Keys()
	out := make([]ipc.ShortcutInfo, 0, len(keys))
	for _, key := range keys {
		name, err := c.store.Accelerator(key)
		if err != nil {
			return nil, err
		}
		info := ipc.ShortcutInfo{
			Name:        key,
			Summary:     c.store.Summary(key),
			Accelerator: name,
			Default:     c.store.IsDefault(key),
		}
		if c.bound != nil {
			_, info.Registered = c.bound.Bound(key)
		}
		out = append(out, info)
	}
	return out, nil
}

func (c *controller) Reload() error {
	if c.reload == nil {
		return nil
	}
	return c.reload()
}

func (c *controller) Status() ipc.StatusData {
	status := ipc.StatusData{
		ExtensionEnabled: c.mover.Enabled(),
		ConfigFile:       c.configPath,
		SettingsFile:     c.store.Path(),
	}
	if monitors, err := c.monitors.Monitors(); err == nil {
		status.MonitorCount = len(monitors)
	}
	return status
}
