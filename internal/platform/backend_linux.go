//go:build linux

package platform

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"

	"github.com/1broseidon/screenhop/internal/x11"
)

// LinuxOptions tune how windows are moved.
type LinuxOptions struct {
	// RestoreMaximized re-applies maximized/fullscreen state after a move.
	RestoreMaximized bool
}

// LinuxBackend wraps an existing X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection

	mu   sync.RWMutex
	opts LinuxOptions
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection, opts LinuxOptions) *LinuxBackend {
	return &LinuxBackend{conn: conn, opts: opts}
}

// NewLinuxBackendFromDisplay creates a new Linux backend by opening a fresh X11 connection.
func NewLinuxBackendFromDisplay(display string, opts LinuxOptions) (*LinuxBackend, error) {
	conn, err := x11.NewConnection(display)
	if err != nil {
		return nil, err
	}
	return &LinuxBackend{conn: conn, opts: opts}, nil
}

// SetOptions replaces the move options. A move already under way keeps the
// options it started with.
func (b *LinuxBackend) SetOptions(opts LinuxOptions) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.opts = opts
}

func (b *LinuxBackend) options() LinuxOptions {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.opts
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking).
func (b *LinuxBackend) EventLoop() {
	if b != nil && b.conn != nil {
		b.conn.EventLoop()
	}
}

// Quit stops EventLoop.
func (b *LinuxBackend) Quit() {
	if b != nil && b.conn != nil {
		b.conn.Quit()
	}
}

// Connection returns the underlying X11 connection.
func (b *LinuxBackend) Connection() *x11.Connection {
	return b.conn
}

// XUtil returns the underlying xgbutil connection for X11-specific operations.
func (b *LinuxBackend) XUtil() *xgbutil.XUtil {
	if b == nil || b.conn == nil {
		return nil
	}
	return b.conn.XUtil
}

// RootWindow returns the X11 root window ID.
func (b *LinuxBackend) RootWindow() xproto.Window {
	if b == nil || b.conn == nil {
		return 0
	}
	return b.conn.Root
}

// Monitors returns the active monitors in index order.
func (b *LinuxBackend) Monitors() ([]Monitor, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	raw, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}
	out := make([]Monitor, 0, len(raw))
	for _, m := range raw {
		out = append(out, Monitor{
			Index:  m.ID,
			Name:   m.Name,
			Bounds: Rect(m.Bounds),
			Usable: Rect(m.Usable),
		})
	}
	return out, nil
}

// ActiveWorkspace returns the current virtual desktop.
func (b *LinuxBackend) ActiveWorkspace() (Workspace, error) {
	conn, err := b.connection()
	if err != nil {
		return nil, err
	}
	desktop, err := conn.GetCurrentDesktop()
	if err != nil {
		// Window managers without desktops still manage windows.
		desktop = x11.StickyDesktop
	}
	return &linuxWorkspace{backend: b, desktop: desktop}, nil
}

type linuxWorkspace struct {
	backend *LinuxBackend
	desktop int
}

func (w *linuxWorkspace) Display() Display {
	return linuxDisplay{backend: w.backend}
}

// Windows lists normal, visible windows on this desktop.
func (w *linuxWorkspace) Windows() ([]Window, error) {
	conn := w.backend.conn

	clients, err := conn.ClientList()
	if err != nil {
		return nil, err
	}
	active, err := conn.GetActiveWindow()
	if err != nil {
		active = 0
	}

	windows := make([]Window, 0, len(clients))
	for _, id := range clients {
		if !conn.IsNormalWindow(id) {
			continue
		}
		if w.desktop != x11.StickyDesktop {
			desktop, err := conn.GetWindowDesktop(id)
			if err == nil && desktop != x11.StickyDesktop && desktop != w.desktop {
				continue
			}
		}
		if w.backend.isHidden(id) {
			continue
		}
		windows = append(windows, &linuxWindow{
			backend: w.backend,
			id:      id,
			focused: id == active && active != 0,
		})
	}
	return windows, nil
}

type linuxDisplay struct {
	backend *LinuxBackend
}

func (d linuxDisplay) MonitorCount() (int, error) {
	monitors, err := d.backend.conn.GetMonitors()
	if err != nil {
		return 0, err
	}
	return len(monitors), nil
}

type linuxWindow struct {
	backend *LinuxBackend
	id      xproto.Window
	focused bool
}

func (w *linuxWindow) ID() WindowID {
	return WindowID(w.id)
}

func (w *linuxWindow) Title() string {
	return w.backend.conn.WindowTitle(w.id)
}

func (w *linuxWindow) Class() string {
	return w.backend.conn.WindowClass(w.id)
}

func (w *linuxWindow) HasFocus() bool {
	return w.focused
}

// Monitor returns the index of the monitor holding the window frame.
func (w *linuxWindow) Monitor() (int, error) {
	conn := w.backend.conn
	monitors, err := conn.GetMonitors()
	if err != nil {
		return 0, err
	}
	frame, err := w.frameRect()
	if err != nil {
		return 0, err
	}
	idx := x11.MonitorForRect(monitors, frame)
	if idx < 0 {
		return 0, nil
	}
	return idx, nil
}

// MoveToMonitor moves the window frame onto monitor index, keeping its
// relative position and maximized state.
func (w *linuxWindow) MoveToMonitor(index int) error {
	conn := w.backend.conn
	opts := w.backend.options()

	monitors, err := conn.GetMonitors()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(monitors) {
		return fmt.Errorf("monitor %d out of range (have %d)", index, len(monitors))
	}

	frame, err := w.frameRect()
	if err != nil {
		return err
	}
	from := x11.MonitorForRect(monitors, frame)
	if from < 0 {
		from = 0
	}
	if from == index {
		return nil
	}

	maxH, maxV, fullscreen := w.stateFlags()
	if maxH || maxV {
		if err := conn.SetWindowState(w.id, x11.StateRemove, x11.StateMaximizedHorz, x11.StateMaximizedVert); err != nil {
			return fmt.Errorf("failed to unmaximize window: %w", err)
		}
	}
	if fullscreen {
		if err := conn.SetWindowState(w.id, x11.StateRemove, x11.StateFullscreen, ""); err != nil {
			return fmt.Errorf("failed to leave fullscreen: %w", err)
		}
	}

	src, dst := monitors[from].Usable, monitors[index].Usable
	if fullscreen {
		src, dst = monitors[from].Bounds, monitors[index].Bounds
	}
	target := PlaceOnMonitor(Rect(frame), Rect(src), Rect(dst))

	ext := conn.GetFrameExtents(w.id)
	client := x11.Rect{
		X:      target.X + ext.Left,
		Y:      target.Y + ext.Top,
		Width:  max(1, target.Width-ext.Left-ext.Right),
		Height: max(1, target.Height-ext.Top-ext.Bottom),
	}
	if err := conn.MoveResizeWindow(w.id, client); err != nil {
		return fmt.Errorf("failed to move window: %w", err)
	}

	if !opts.RestoreMaximized {
		return nil
	}
	if maxH || maxV {
		first, second := x11.StateMaximizedHorz, x11.StateMaximizedVert
		switch {
		case !maxH:
			first, second = x11.StateMaximizedVert, ""
		case !maxV:
			second = ""
		}
		if err := conn.SetWindowState(w.id, x11.StateAdd, first, second); err != nil {
			return fmt.Errorf("failed to re-maximize window: %w", err)
		}
	}
	if fullscreen {
		if err := conn.SetWindowState(w.id, x11.StateAdd, x11.StateFullscreen, ""); err != nil {
			return fmt.Errorf("failed to restore fullscreen: %w", err)
		}
	}
	return nil
}

// frameRect is the client rect grown by the decoration extents.
func (w *linuxWindow) frameRect() (x11.Rect, error) {
	conn := w.backend.conn
	rect, err := conn.WindowRect(w.id)
	if err != nil {
		return x11.Rect{}, err
	}
	ext := conn.GetFrameExtents(w.id)
	return x11.Rect{
		X:      rect.X - ext.Left,
		Y:      rect.Y - ext.Top,
		Width:  rect.Width + ext.Left + ext.Right,
		Height: rect.Height + ext.Top + ext.Bottom,
	}, nil
}

func (w *linuxWindow) stateFlags() (maxH, maxV, fullscreen bool) {
	states, err := w.backend.conn.WindowStates(w.id)
	if err != nil {
		return false, false, false
	}
	for _, s := range states {
		switch s {
		case x11.StateMaximizedHorz:
			maxH = true
		case x11.StateMaximizedVert:
			maxV = true
		case x11.StateFullscreen:
			fullscreen = true
		}
	}
	return maxH, maxV, fullscreen
}

func (b *LinuxBackend) isHidden(windowID xproto.Window) bool {
	states, err := b.conn.WindowStates(windowID)
	if err != nil {
		return false
	}
	for _, state := range states {
		if state == x11.StateHidden {
			return true
		}
	}
	return false
}

func (b *LinuxBackend) connection() (*x11.Connection, error) {
	if b == nil || b.conn == nil {
		return nil, fmt.Errorf("x11 backend connection is nil")
	}
	return b.conn, nil
}
