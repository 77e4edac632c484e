// Package prefsgui is the graphical shortcut editor.
package prefsgui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/capture"
	"github.com/1broseidon/screenhop/internal/settings"
)

// Store is the settings API the editor uses.
type Store interface {
	Keys() []string
	Summary(key string) string
	Accelerator(key string) (string, error)
	SetStringList(key string, values []string) error
	Reset(key string) error
	Subscribe(key string, fn settings.ChangeFunc) func()
	Watch(ctx context.Context) error
}

// Daemon is the running daemon, if any.
type Daemon interface {
	Reload() error
}

type editor struct {
	store  Store
	daemon Daemon
	logger zerolog.Logger

	window  fyne.Window
	buttons map[string]*widget.Button
	status  *widget.Label
}

// Run opens the editor window and blocks until it is closed. daemon may be
// nil.
func Run(store Store, daemon Daemon, logger zerolog.Logger) error {
	a := app.NewWithID("io.github.screenhop.prefs")
	e := &editor{
		store:   store,
		daemon:  daemon,
		logger:  logger,
		window:  a.NewWindow("Screenhop Shortcuts"),
		buttons: make(map[string]*widget.Button),
		status:  widget.NewLabel(""),
	}

	grid := container.NewGridWithColumns(3)
	for _, k := range store.Keys() {
		key := k
		btn := widget.NewButton("", func() { e.openCapture(key) })
		e.buttons[key] = btn
		reset := widget.NewButton("Reset", func() {
			if err := store.Reset(key); err != nil {
				e.setStatus(err.Error())
				return
			}
			e.saved(key)
		})
		grid.Add(widget.NewLabel(store.Summary(key)))
		grid.Add(btn)
		grid.Add(reset)
		e.refresh(key)

		cancel := store.Subscribe(key, func(string, []string) { e.refresh(key) })
		defer cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := store.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("not watching settings file")
		}
	}()

	e.window.SetContent(container.NewVBox(grid, e.status))
	e.window.Resize(fyne.NewSize(640, 160))
	e.window.ShowAndRun()
	return nil
}

func (e *editor) refresh(key string) {
	btn, ok := e.buttons[key]
	if !ok {
		return
	}
	a, err := e.store.Accelerator(key)
	if err != nil {
		btn.SetText("Invalid")
		return
	}
	btn.SetText(settings.DisplayLabel(a))
}

func (e *editor) setStatus(text string) {
	e.status.SetText(text)
}

func (e *editor) saved(key string) {
	e.refresh(key)
	a, _ := e.store.Accelerator(key)
	e.setStatus(fmt.Sprintf("%s: %s", e.store.Summary(key), settings.DisplayLabel(a)))
	if e.daemon == nil {
		return
	}
	go func() {
		if err := e.daemon.Reload(); err != nil {
			e.logger.Debug().Err(err).Msg("daemon not reloaded")
			return
		}
		e.setStatus(fmt.Sprintf("%s: %s (daemon reloaded)", e.store.Summary(key), settings.DisplayLabel(a)))
	}()
}

// openCapture shows the capture dialog and routes window key events to it
// until a key settles the binding.
func (e *editor) openCapture(key string) {
	dc, ok := e.window.Canvas().(desktop.Canvas)
	if !ok {
		e.setStatus("key capture needs a desktop window")
		return
	}

	kc := newKeyCapture(key)
	body := widget.NewLabel("Press any key combination...\nPress Esc to cancel, Backspace to disable")
	dlg := dialog.NewCustom(fmt.Sprintf("Set Shortcut for %s", e.store.Summary(key)), "Cancel", body, e.window)

	dc.SetOnKeyDown(func(ev *fyne.KeyEvent) {
		out := kc.KeyDown(ev.Name)
		if !out.Closes() {
			return
		}
		dlg.Hide()
		if out.Action == capture.Cancel {
			return
		}
		if err := kc.session.Commit(e.store, out); err != nil {
			e.setStatus(err.Error())
			return
		}
		e.saved(key)
	})
	dc.SetOnKeyUp(func(ev *fyne.KeyEvent) {
		kc.KeyUp(ev.Name)
	})
	dlg.SetOnClosed(func() {
		dc.SetOnKeyDown(nil)
		dc.SetOnKeyUp(nil)
	})
	dlg.Show()
}
