// Package extension ties the shortcut settings to the hotkey registry and
// the monitor cycler.
package extension

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/cycler"
	"github.com/1broseidon/screenhop/internal/hotkeys"
	"github.com/1broseidon/screenhop/internal/settings"
)

// Settings is the part of the settings store the extension reads.
type Settings interface {
	Accelerator(key string) (string, error)
	Subscribe(key string, fn settings.ChangeFunc) func()
}

// Mover performs one hop.
type Mover interface {
	Handle(ctx context.Context, direction int) (cycler.Result, error)
}

// Binding maps a settings key to a direction.
type Binding struct {
	Key       string
	Direction int
}

// Bindings returns the two shortcut bindings.
func Bindings() []Binding {
	return []Binding{
		{Key: settings.KeyNextScreen, Direction: cycler.Next},
		{Key: settings.KeyPreviousScreen, Direction: cycler.Previous},
	}
}

// Extension owns the registered shortcuts while enabled.
type Extension struct {
	store    Settings
	registry hotkeys.Registry
	mover    Mover
	logger   zerolog.Logger

	mu      sync.Mutex
	flags   hotkeys.Flags
	enabled bool
	cancels []func()
	// nil while disabled; cancelled by Disable to stop in-flight hops.
	ctx    context.Context
	cancel context.CancelFunc
}

func New(store Settings, registry hotkeys.Registry, mover Mover, logger zerolog.Logger) *Extension {
	return &Extension{
		store:    store,
		registry: registry,
		mover:    mover,
		logger:   logger,
		flags:    hotkeys.FlagIgnoreAutorepeat,
	}
}

// SetFlags changes the registry flags used for both shortcuts. It takes
// effect on the next registration.
func (e *Extension) SetFlags(flags hotkeys.Flags) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flags = flags
}

// Enable registers both shortcuts and follows their settings. Calling it
// while enabled is a no-op.
func (e *Extension) Enable() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.enabled {
		return nil
	}
	if e.store == nil {
		return fmt.Errorf("extension has no settings store")
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())

	for _, b := range Bindings() {
		e.registerLocked(b)
		cancel := e.store.Subscribe(b.Key, func(string, []string) {
			e.mu.Lock()
			defer e.mu.Unlock()
			if !e.enabled {
				return
			}
			e.registerLocked(b)
		})
		e.cancels = append(e.cancels, cancel)
	}

	e.enabled = true
	e.logger.Info().Msg("extension enabled")
	return nil
}

// Disable unregisters both shortcuts and drops the subscriptions. Calling
// it while disabled is a no-op.
func (e *Extension) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return
	}
	for _, cancel := range e.cancels {
		cancel()
	}
	e.cancels = nil

	for _, b := range Bindings() {
		if err := e.registry.Unregister(b.Key); err != nil {
			e.logger.Error().Err(err).Str("binding", b.Key).Msg("failed to unregister shortcut")
		}
	}
	e.cancel()
	e.ctx, e.cancel = nil, nil
	e.enabled = false
	e.logger.Info().Msg("extension disabled")
}

// Refresh re-registers both shortcuts from the current settings.
func (e *Extension) Refresh() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.enabled {
		return
	}
	for _, b := range Bindings() {
		e.registerLocked(b)
	}
}

// Enabled reports whether the shortcuts are registered.
func (e *Extension) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// Trigger runs the same hop a shortcut press would.
func (e *Extension) Trigger(ctx context.Context, direction int) (cycler.Result, error) {
	return e.mover.Handle(ctx, direction)
}

// registerLocked (re)binds b from the current settings value. A value that
// does not parse leaves the binding disabled.
func (e *Extension) registerLocked(b Binding) {
	name, err := e.store.Accelerator(b.Key)
	if err != nil {
		e.logger.Error().Err(err).Str("binding", b.Key).Msg("failed to read shortcut")
		e.unregisterLocked(b)
		return
	}
	if name == "" {
		e.unregisterLocked(b)
		return
	}
	a, err := accel.Parse(name)
	if err != nil {
		e.logger.Error().Err(err).Str("binding", b.Key).Msg("invalid shortcut, leaving it disabled")
		e.unregisterLocked(b)
		return
	}

	direction := b.Direction
	err = e.registry.Register(b.Key, a, e.flags, func() {
		e.onShortcut(direction)
	})
	if err != nil {
		// The registry keeps the old accelerator on failure; drop it so the
		// key no longer fires for a value the settings have moved away from.
		e.logger.Error().Err(err).Str("binding", b.Key).Msg("failed to register shortcut, leaving it disabled")
		e.unregisterLocked(b)
	}
}

func (e *Extension) unregisterLocked(b Binding) {
	if err := e.registry.Unregister(b.Key); err != nil {
		e.logger.Error().Err(err).Str("binding", b.Key).Msg("failed to unregister shortcut")
	}
}

func (e *Extension) onShortcut(direction int) {
	e.mu.Lock()
	ctx := e.ctx
	e.mu.Unlock()
	if ctx == nil {
		return
	}

	res, err := e.mover.Handle(ctx, direction)
	if err != nil {
		e.logger.Error().Err(err).Str("direction", cycler.DirectionName(direction)).Msg("failed to move window")
		return
	}
	if res.Outcome == cycler.OutcomeMoved {
		e.logger.Info().
			Str("direction", cycler.DirectionName(direction)).
			Str("title", res.Title).
			Int("from", res.From).
			Int("to", res.To).
			Msg("moved window")
	}
}
