package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Monitor describes a physical display and its usable work area. Index is
// the position in the left-to-right, top-to-bottom ordering.
type Monitor struct {
	Index  int
	Name   string
	Bounds Rect
	Usable Rect
}

// Host is the window system as seen by the monitor cycler.
type Host interface {
	ActiveWorkspace() (Workspace, error)
}

// Workspace is the set of windows on the current virtual desktop.
type Workspace interface {
	Windows() ([]Window, error)
	Display() Display
}

// Display answers questions about the monitor layout.
type Display interface {
	MonitorCount() (int, error)
}

// Window is a top-level window that can be moved between monitors.
type Window interface {
	ID() WindowID
	Title() string
	// Class is the WM_CLASS class name, or "".
	Class() string
	HasFocus() bool
	Monitor() (int, error)
	MoveToMonitor(index int) error
}

// Backend is a Host that can also describe the monitor layout.
type Backend interface {
	Host
	Monitors() ([]Monitor, error)
}
