package x11

import (
	"context"
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// KeyPress is one key press seen while the keyboard is grabbed.
type KeyPress struct {
	Keysym uint32
	State  uint16
}

// CaptureKeys grabs the keyboard and feeds every key press to handle until
// handle returns true or ctx is done. It runs its own event loop, so it
// must not be called while EventLoop is running on the same connection.
func (c *Connection) CaptureKeys(ctx context.Context, handle func(KeyPress) bool) error {
	xu := c.XUtil

	grabWindow, err := c.createGrabWindow()
	if err != nil {
		return fmt.Errorf("failed to create grab window: %w", err)
	}
	defer xproto.DestroyWindow(xu.Conn(), grabWindow)

	if err := c.grabKeyboard(); err != nil {
		return err
	}
	defer func() {
		xproto.UngrabKeyboard(xu.Conn(), xproto.TimeCurrentTime)
		xevent.RedirectKeyEvents(xu, 0)
		xevent.Detach(xu, grabWindow)
	}()

	// Redirect all key events to the grab window while capturing.
	xevent.RedirectKeyEvents(xu, grabWindow)

	done := false
	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		if done {
			return
		}
		sym := keybind.KeysymGet(xu, ev.Detail, 0)
		if handle(KeyPress{Keysym: uint32(sym), State: ev.State}) {
			done = true
			xevent.Quit(xu)
		}
	}).Connect(xu, grabWindow)

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			c.Quit()
		case <-stop:
		}
	}()

	xevent.Main(xu)
	if done {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("x11 event loop ended before a key was captured")
}

func (c *Connection) grabKeyboard() error {
	xu := c.XUtil
	grab := func() (*xproto.GrabKeyboardReply, error) {
		return xproto.GrabKeyboard(
			xu.Conn(),
			false,                  // owner_events (report events to grab_window)
			c.Root,                 // grab_window (must be viewable)
			xproto.TimeCurrentTime, // time
			xproto.GrabModeAsync,   // pointer_mode
			xproto.GrabModeAsync,   // keyboard_mode
		).Reply()
	}

	reply, err := grab()
	if err != nil {
		return fmt.Errorf("keyboard grab failed: %w", err)
	}

	// A hotkey grab held by this client shows up as AlreadyGrabbed; release
	// and retry once.
	if reply.Status == xproto.GrabStatusAlreadyGrabbed {
		xproto.UngrabKeyboard(xu.Conn(), xproto.TimeCurrentTime)
		if reply, err = grab(); err != nil {
			return fmt.Errorf("keyboard grab failed: %w", err)
		}
	}

	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
	}
	return nil
}

func (c *Connection) createGrabWindow() (xproto.Window, error) {
	conn := c.XUtil.Conn()

	wid, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}

	// InputOnly window that never draws anything; used solely as a safe target
	// for key event callbacks while the keyboard is grabbed.
	err = xproto.CreateWindowChecked(
		conn,
		0, // depth (must be 0 for InputOnly)
		wid,
		c.Root,
		0, 0, // x, y
		1, 1, // width, height
		0, // border_width
		xproto.WindowClassInputOnly,
		xproto.Visualid(0), // CopyFromParent
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskKeyPress)},
	).Check()
	if err != nil {
		return 0, err
	}

	xproto.MapWindow(conn, wid)
	return wid, nil
}
