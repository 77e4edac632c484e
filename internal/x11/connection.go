package x11

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	wakeOnce sync.Once
	wakeWin  xproto.Window
}

// NewConnection connects to display, or to $DISPLAY when display is empty.
func NewConnection(display string) (*Connection, error) {
	var (
		xu  *xgbutil.XUtil
		err error
	)
	if strings.TrimSpace(display) == "" {
		xu, err = xgbutil.NewConn()
	} else {
		xu, err = xgbutil.NewConnDisplay(display)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}

	// Required before any keybind grab or keysym lookup.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// EventLoop starts the main X11 event loop (blocking)
func (c *Connection) EventLoop() {
	xevent.Main(c.XUtil)
}

// Quit makes EventLoop return. It is safe to call from any goroutine.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
	c.wake()
}

// wake sends a no-op event to ourselves so a loop blocked in WaitForEvent
// notices the quit flag.
func (c *Connection) wake() {
	conn := c.XUtil.Conn()
	c.wakeOnce.Do(func() {
		wid, err := xproto.NewWindowId(conn)
		if err != nil {
			return
		}
		err = xproto.CreateWindowChecked(conn, 0, wid, c.Root, 0, 0, 1, 1, 0,
			xproto.WindowClassInputOnly, xproto.Visualid(0), 0, nil).Check()
		if err != nil {
			return
		}
		c.wakeWin = wid
	})
	if c.wakeWin == 0 {
		return
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.wakeWin,
		Type:   xproto.AtomNone,
		Data:   xproto.ClientMessageDataUnionData32New(make([]uint32, 5)),
	}
	// An empty event mask delivers to the window's creator, which is us.
	xproto.SendEvent(conn, false, c.wakeWin, xproto.EventMaskNoEvent, string(ev.Bytes()))
	c.XUtil.Sync()
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}

func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// sendRootMessage delivers an EWMH client message to the root window. The
// message is built by hand because the xgbutil ewmh request helpers panic on
// this library version (uint vs int type assertion).
func (c *Connection) sendRootMessage(windowID xproto.Window, atom string, data ...uint32) error {
	typ, err := c.internAtom(atom)
	if err != nil {
		return err
	}
	for len(data) < 5 {
		data = append(data, 0)
	}
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   typ,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
