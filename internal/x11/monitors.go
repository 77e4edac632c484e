package x11

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Rect is a rectangle in root window coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}

func (r Rect) contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Monitor represents a physical display. ID is the position in the
// left-to-right, top-to-bottom ordering.
type Monitor struct {
	ID     int
	Name   string
	Bounds Rect
	// Usable excludes dock struts and panels.
	Usable Rect
}

// GetMonitors retrieves all active monitors using XRandR
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		bounds := Rect{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		monitors = append(monitors, Monitor{Name: outputName, Bounds: bounds, Usable: bounds})
	}

	monitors = orderMonitors(monitors)
	c.applyWorkAreas(monitors)
	return monitors, nil
}

// orderMonitors drops mirrored CRTCs and numbers the rest left-to-right,
// then top-to-bottom.
func orderMonitors(monitors []Monitor) []Monitor {
	seen := make(map[Rect]bool, len(monitors))
	out := monitors[:0]
	for _, m := range monitors {
		if seen[m.Bounds] {
			continue
		}
		seen[m.Bounds] = true
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bounds.X != out[j].Bounds.X {
			return out[i].Bounds.X < out[j].Bounds.X
		}
		return out[i].Bounds.Y < out[j].Bounds.Y
	})
	for i := range out {
		out[i].ID = i
	}
	return out
}

// MonitorForRect returns the index of the monitor holding the window's
// center, or the one it overlaps most. It returns -1 when the window is
// entirely off-screen.
func MonitorForRect(monitors []Monitor, win Rect) int {
	cx, cy := win.center()
	for i, m := range monitors {
		if m.Bounds.contains(cx, cy) {
			return i
		}
	}

	best, bestArea := -1, 0
	for i, m := range monitors {
		isect := intersectionSize(
			m.Bounds.X, m.Bounds.Y, m.Bounds.X+m.Bounds.Width, m.Bounds.Y+m.Bounds.Height,
			win.X, win.Y, win.X+win.Width, win.Y+win.Height,
		)
		if area := isect.w * isect.h; area > bestArea {
			best, bestArea = i, area
		}
	}
	return best
}

func (c *Connection) applyWorkAreas(monitors []Monitor) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return
	}
	partials := c.dockStrutPartials(int(rootGeom.Width), int(rootGeom.Height))

	for i := range monitors {
		m := &monitors[i]
		if len(partials) > 0 {
			var struts dockStruts
			for _, sp := range partials {
				updateStrutsForMonitor(m.Bounds, int(rootGeom.Width), int(rootGeom.Height), sp, &struts)
			}
			m.Usable = struts.shrink(m.Bounds)
			continue
		}
		m.Usable = c.clipToWorkarea(m.Bounds)
	}
}

// clipToWorkarea intersects bounds with _NET_WORKAREA for the current desktop.
func (c *Connection) clipToWorkarea(bounds Rect) Rect {
	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return bounds
	}
	desktopIndex := 0
	if currentDesktop, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil {
		if int(currentDesktop) < len(workArea) {
			desktopIndex = int(currentDesktop)
		}
	}
	wa := workArea[desktopIndex]

	x1 := max(bounds.X, int(wa.X))
	y1 := max(bounds.Y, int(wa.Y))
	x2 := min(bounds.X+bounds.Width, int(wa.X)+int(wa.Width))
	y2 := min(bounds.Y+bounds.Height, int(wa.Y)+int(wa.Height))
	if x2 <= x1 || y2 <= y1 {
		return bounds
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

type dockStruts struct {
	left   int
	right  int
	top    int
	bottom int
}

func (s dockStruts) shrink(r Rect) Rect {
	r.X += s.left
	r.Y += s.top
	r.Width = max(1, r.Width-(s.left+s.right))
	r.Height = max(1, r.Height-(s.top+s.bottom))
	return r
}

func (c *Connection) dockStrutPartials(rootWidth, rootHeight int) []*ewmh.WmStrutPartial {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []*ewmh.WmStrutPartial
	for _, windowID := range clients {
		types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
		if err != nil || !hasAtom(types, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}

		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			out = append(out, sp)
			continue
		}

		// Some docks only set _NET_WM_STRUT (no partial ranges).
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			out = append(out, &ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(rootHeight - 1),
				RightEndY:  uint(rootHeight - 1),
				TopEndX:    uint(rootWidth - 1),
				BottomEndX: uint(rootWidth - 1),
			})
		}
	}
	return out
}

func updateStrutsForMonitor(mon Rect, rootWidth, rootHeight int, sp *ewmh.WmStrutPartial, acc *dockStruts) {
	monX1 := mon.X
	monY1 := mon.Y
	monX2 := mon.X + mon.Width
	monY2 := mon.Y + mon.Height

	// Top strut: y=[0,Top), x=[TopStartX,TopEndX]
	if sp.Top > 0 {
		isect := intersectionSize(monX1, monY1, monX2, monY2, int(sp.TopStartX), 0, int(sp.TopEndX)+1, int(sp.Top))
		acc.top = max(acc.top, isect.h)
	}

	// Bottom strut: y=[rootHeight-Bottom,rootHeight)
	if sp.Bottom > 0 {
		isect := intersectionSize(monX1, monY1, monX2, monY2, int(sp.BottomStartX), rootHeight-int(sp.Bottom), int(sp.BottomEndX)+1, rootHeight)
		acc.bottom = max(acc.bottom, isect.h)
	}

	// Left strut: x=[0,Left), y=[LeftStartY,LeftEndY]
	if sp.Left > 0 {
		isect := intersectionSize(monX1, monY1, monX2, monY2, 0, int(sp.LeftStartY), int(sp.Left), int(sp.LeftEndY)+1)
		acc.left = max(acc.left, isect.w)
	}

	// Right strut: x=[rootWidth-Right,rootWidth)
	if sp.Right > 0 {
		isect := intersectionSize(monX1, monY1, monX2, monY2, rootWidth-int(sp.Right), int(sp.RightStartY), rootWidth, int(sp.RightEndY)+1)
		acc.right = max(acc.right, isect.w)
	}
}

type intersection struct {
	w int
	h int
}

func intersectionSize(ax1, ay1, ax2, ay2, bx1, by1, bx2, by2 int) intersection {
	x1 := max(ax1, bx1)
	y1 := max(ay1, by1)
	x2 := min(ax2, bx2)
	y2 := min(ay2, by2)

	if x2 <= x1 || y2 <= y1 {
		return intersection{}
	}
	return intersection{w: x2 - x1, h: y2 - y1}
}

func hasAtom(atoms []string, want string) bool {
	for _, a := range atoms {
		if a == want {
			return true
		}
	}
	return false
}
