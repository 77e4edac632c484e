package platform

// PlaceOnMonitor maps a window from one monitor's area onto another's. The
// window keeps its offset relative to the area origin, scaled by the area
// size ratio, and is then shrunk and clamped so it lies entirely inside
// the target area.
func PlaceOnMonitor(win, from, to Rect) Rect {
	out := win

	if from.Width > 0 {
		out.X = to.X + scale(win.X-from.X, to.Width, from.Width)
	} else {
		out.X = to.X + (win.X - from.X)
	}
	if from.Height > 0 {
		out.Y = to.Y + scale(win.Y-from.Y, to.Height, from.Height)
	} else {
		out.Y = to.Y + (win.Y - from.Y)
	}

	if out.Width > to.Width {
		out.Width = to.Width
	}
	if out.Height > to.Height {
		out.Height = to.Height
	}

	if out.X+out.Width > to.X+to.Width {
		out.X = to.X + to.Width - out.Width
	}
	if out.Y+out.Height > to.Y+to.Height {
		out.Y = to.Y + to.Height - out.Height
	}
	if out.X < to.X {
		out.X = to.X
	}
	if out.Y < to.Y {
		out.Y = to.Y
	}
	return out
}

func scale(offset, num, den int) int {
	return offset * num / den
}

// Contains reports whether r fully contains other.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}
