// Package cycler moves the focused window to the next or previous monitor.
package cycler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/platform"
)

// Directions accepted by Handle.
const (
	Next     = 1
	Previous = -1
)

var ErrInvalidDirection = errors.New("direction must be +1 or -1")

// Outcome reports what Handle did.
type Outcome string

const (
	OutcomeMoved           Outcome = "moved"
	OutcomeNoFocusedWindow Outcome = "no_focused_window"
	OutcomeSingleMonitor   Outcome = "single_monitor"
)

// Result describes one Handle call.
type Result struct {
	Outcome  Outcome
	WindowID platform.WindowID
	Title    string
	Class    string
	From     int
	To       int
}

// Cycle returns (current + direction) mod count, always in [0, count).
// count <= 0 returns current unchanged.
func Cycle(current, direction, count int) int {
	if count <= 0 {
		return current
	}
	return ((current+direction)%count + count) % count
}

// Cycler resolves the focused window and monitor count on every call and
// holds no other state.
type Cycler struct {
	host   platform.Host
	logger zerolog.Logger
}

func New(host platform.Host, logger zerolog.Logger) *Cycler {
	return &Cycler{host: host, logger: logger}
}

// Handle moves the focused window one monitor in direction.
func (c *Cycler) Handle(ctx context.Context, direction int) (Result, error) {
	if direction != Next && direction != Previous {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidDirection, direction)
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	workspace, err := c.host.ActiveWorkspace()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get active workspace: %w", err)
	}
	windows, err := workspace.Windows()
	if err != nil {
		return Result{}, fmt.Errorf("failed to list windows: %w", err)
	}

	var focused platform.Window
	for _, w := range windows {
		if w.HasFocus() {
			focused = w
			break
		}
	}
	if focused == nil {
		c.logger.Warn().Msg("No focused window - ignoring keyboard shortcut to move window")
		return Result{Outcome: OutcomeNoFocusedWindow}, nil
	}

	count, err := workspace.Display().MonitorCount()
	if err != nil {
		return Result{}, fmt.Errorf("failed to count monitors: %w", err)
	}
	if count <= 1 {
		c.logger.Warn().Msg("Only one monitor - ignoring keyboard shortcut to move window")
		return Result{Outcome: OutcomeSingleMonitor, WindowID: focused.ID()}, nil
	}

	current, err := focused.Monitor()
	if err != nil {
		return Result{}, fmt.Errorf("failed to get window monitor: %w", err)
	}
	target := Cycle(current, direction, count)

	if err := focused.MoveToMonitor(target); err != nil {
		return Result{}, fmt.Errorf("failed to move window %d to monitor %d: %w", focused.ID(), target, err)
	}

	res := Result{
		Outcome:  OutcomeMoved,
		WindowID: focused.ID(),
		Title:    focused.Title(),
		Class:    focused.Class(),
		From:     current,
		To:       target,
	}
	c.logger.Debug().
		Uint32("window", uint32(res.WindowID)).
		Str("class", res.Class).
		Int("from", current).
		Int("to", target).
		Msg("moved window")
	return res, nil
}

// DirectionName returns "next" or "previous".
func DirectionName(direction int) string {
	if direction == Previous {
		return "previous"
	}
	return "next"
}

// ParseDirection accepts next, previous, prev, +1, 1 and -1.
func ParseDirection(s string) (int, error) {
	switch s {
	case "next", "+1", "1":
		return Next, nil
	case "previous", "prev", "-1":
		return Previous, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
