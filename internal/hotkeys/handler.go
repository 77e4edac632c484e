package hotkeys

import (
	"fmt"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/accel"
	"github.com/1broseidon/screenhop/internal/platform"
)

// Flags change how a binding fires.
type Flags uint8

const (
	FlagNone Flags = 0
	// FlagIgnoreAutorepeat drops presses generated by holding the key down.
	FlagIgnoreAutorepeat Flags = 1 << 0
)

// Registry registers named global shortcuts.
type Registry interface {
	Register(name string, a accel.Accelerator, flags Flags, callback func()) error
	Unregister(name string) error
}

// x11Accessor is an optional interface for backends that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// KeyGrabber is the X side of the registry.
type KeyGrabber interface {
	// ReleaseAll drops every grab and callback on the root window.
	ReleaseAll()
	// Grab grabs keystr and routes its events. onRelease may be nil.
	Grab(keystr string, onPress, onRelease func(ts uint32)) error
}

type binding struct {
	accel    accel.Accelerator
	flags    Flags
	callback func()

	held        bool
	lastRelease uint32
}

// Handler manages global keyboard shortcuts
type Handler struct {
	grabber KeyGrabber
	logger  zerolog.Logger

	mu       sync.Mutex
	bindings map[string]*binding
}

var _ Registry = (*Handler)(nil)

var ignoreModsOnce sync.Once

// NewHandler creates a new hotkey handler on an X11 backend.
func NewHandler(backend platform.Backend, logger zerolog.Logger) (*Handler, error) {
	accessor, ok := backend.(x11Accessor)
	if !ok || accessor.XUtil() == nil {
		return nil, fmt.Errorf("global hotkeys require an X11 backend")
	}
	xu := accessor.XUtil()

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return NewHandlerWithGrabber(&x11Grabber{xu: xu, root: accessor.RootWindow()}, logger), nil
}

// NewHandlerWithGrabber creates a handler that grabs keys through grabber.
func NewHandlerWithGrabber(grabber KeyGrabber, logger zerolog.Logger) *Handler {
	return &Handler{
		grabber:  grabber,
		logger:   logger,
		bindings: make(map[string]*binding),
	}
}

// Register binds name to a. A zero accelerator unregisters name. An
// existing binding with the same name is replaced.
func (h *Handler) Register(name string, a accel.Accelerator, flags Flags, callback func()) error {
	if a.IsZero() {
		return h.Unregister(name)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for other, b := range h.bindings {
		if other != name && b.accel == a {
			return fmt.Errorf("%s is already bound to %s", a.Name(), other)
		}
	}

	prev, hadPrev := h.bindings[name]
	h.bindings[name] = &binding{accel: a, flags: flags, callback: callback}
	if err := h.rebindLocked(); err != nil {
		if hadPrev {
			h.bindings[name] = prev
		} else {
			delete(h.bindings, name)
		}
		if rerr := h.rebindLocked(); rerr != nil {
			h.logger.Error().Err(rerr).Msg("failed to restore hotkeys")
		}
		return fmt.Errorf("failed to grab %s for %s: %w", a.Name(), name, err)
	}

	h.logger.Info().Str("binding", name).Str("accelerator", a.Name()).Msg("registered hotkey")
	return nil
}

// Unregister removes name. Unknown names are ignored.
func (h *Handler) Unregister(name string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.bindings[name]; !ok {
		return nil
	}
	delete(h.bindings, name)
	if err := h.rebindLocked(); err != nil {
		return fmt.Errorf("failed to re-grab hotkeys: %w", err)
	}
	h.logger.Info().Str("binding", name).Msg("unregistered hotkey")
	return nil
}

// Bound returns the accelerator registered under name.
func (h *Handler) Bound(name string) (accel.Accelerator, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, ok := h.bindings[name]
	if !ok {
		return accel.Accelerator{}, false
	}
	return b.accel, true
}

// xgbutil can only detach every key callback on a window at once, so all
// remaining bindings are re-grabbed after each change.
func (h *Handler) rebindLocked() error {
	h.grabber.ReleaseAll()

	names := make([]string, 0, len(h.bindings))
	for name := range h.bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b := h.bindings[name]
		b.held = false
		var onRelease func(uint32)
		if b.flags&FlagIgnoreAutorepeat != 0 {
			onRelease = h.releaseFunc(name)
		}
		if err := h.grabber.Grab(b.accel.KeybindString(), h.pressFunc(name), onRelease); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) pressFunc(name string) func(uint32) {
	return func(ts uint32) {
		h.mu.Lock()
		b, ok := h.bindings[name]
		if !ok {
			h.mu.Unlock()
			return
		}
		if b.flags&FlagIgnoreAutorepeat != 0 {
			// A held key repeats either as release+press pairs sharing a
			// timestamp or as presses with no release in between.
			if b.held || (b.lastRelease != 0 && ts == b.lastRelease) {
				b.held = true
				h.mu.Unlock()
				return
			}
			b.held = true
		}
		callback := b.callback
		h.mu.Unlock()

		if callback != nil {
			callback()
		}
	}
}

func (h *Handler) releaseFunc(name string) func(uint32) {
	return func(ts uint32) {
		h.mu.Lock()
		defer h.mu.Unlock()
		if b, ok := h.bindings[name]; ok {
			b.held = false
			b.lastRelease = ts
		}
	}
}

type x11Grabber struct {
	xu   *xgbutil.XUtil
	root xproto.Window
}

func (g *x11Grabber) ReleaseAll() {
	keybind.Detach(g.xu, g.root)
}

func (g *x11Grabber) Grab(keystr string, onPress, onRelease func(uint32)) error {
	err := keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		onPress(uint32(ev.Time))
	}).Connect(g.xu, g.root, keystr, true)
	if err != nil {
		return err
	}
	if onRelease == nil {
		return nil
	}
	// The press grab already routes the release to us; no second grab.
	return keybind.KeyReleaseFun(func(xu *xgbutil.XUtil, ev xevent.KeyReleaseEvent) {
		onRelease(uint32(ev.Time))
	}).Connect(g.xu, g.root, keystr, false)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
