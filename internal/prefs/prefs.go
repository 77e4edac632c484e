// Package prefs is the terminal shortcut editor.
package prefs

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/1broseidon/screenhop/internal/settings"
)

// Run shows the editor until the user quits. daemon may be nil.
func Run(store *settings.Store, daemon Daemon, logger zerolog.Logger) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("prefs requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(store, daemon), tea.WithAltScreen())

	// Writes made from Update notify synchronously; Send must not block the
	// event loop that is running Update.
	for _, k := range store.Keys() {
		cancel := store.Subscribe(k, func(key string, _ []string) {
			go p.Send(settingChangedMsg{key: key})
		})
		defer cancel()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := store.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("not watching settings file")
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("prefs: %w", err)
	}
	return nil
}
