// Package daemon runs the shortcut listener, the IPC server and the
// settings watch for one X session.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/1broseidon/screenhop/internal/config"
	"github.com/1broseidon/screenhop/internal/cycler"
	"github.com/1broseidon/screenhop/internal/extension"
	"github.com/1broseidon/screenhop/internal/hotkeys"
	"github.com/1broseidon/screenhop/internal/ipc"
	"github.com/1broseidon/screenhop/internal/platform"
	"github.com/1broseidon/screenhop/internal/runtimepath"
	"github.com/1broseidon/screenhop/internal/settings"
	"github.com/1broseidon/screenhop/internal/x11"
)

// Daemon owns the X connection and everything registered on it.
type Daemon struct {
	configPath string
	logger     zerolog.Logger

	mu  sync.Mutex
	cfg *config.Config

	backend *platform.LinuxBackend
	store   *settings.Store
	ext     *extension.Extension

	closeOnce sync.Once
}

// New creates a daemon for cfg, which was loaded from configPath.
func New(configPath string, cfg *config.Config, logger zerolog.Logger) *Daemon {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Daemon{
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run connects to the X server, registers the shortcuts and serves IPC
// until ctx is done. SIGHUP reloads config and settings.
func (d *Daemon) Run(ctx context.Context) error {
	cfg := d.config()

	env, err := x11.ResolveSessionEnv(os.Environ(), cfg.Display, cfg.XAuthority)
	if err != nil {
		return err
	}
	if err := env.Apply(); err != nil {
		return fmt.Errorf("failed to apply X11 environment: %w", err)
	}

	backend, err := platform.NewLinuxBackendFromDisplay(env.Display, platform.LinuxOptions{
		RestoreMaximized: cfg.RestoreMaximized,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to display: %w", err)
	}
	d.backend = backend
	defer d.shutdown()
	d.logger.Info().Str("display", env.Display).Msg("connected to X server")

	settingsPath, err := settingsPath(cfg)
	if err != nil {
		return err
	}
	store, err := settings.Open(settingsPath, settings.DefaultSchema(), d.component("settings"))
	if err != nil {
		return err
	}
	d.store = store

	handler, err := hotkeys.NewHandler(backend, d.component("hotkeys"))
	if err != nil {
		return err
	}
	mover := cycler.New(backend, d.component("cycler"))
	d.ext = extension.New(store, handler, mover, d.component("extension"))
	d.ext.SetFlags(flagsFor(cfg))
	if err := d.ext.Enable(); err != nil {
		return err
	}

	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		return fmt.Errorf("failed to resolve IPC socket path: %w", err)
	}
	srv, err := ipc.NewServer(socketPath, &controller{
		mover:      d.ext,
		monitors:   backend,
		store:      store,
		bound:      handler,
		reload:     d.Reload,
		configPath: d.configPath,
	}, d.component("ipc"))
	if err != nil {
		return err
	}
	if err := srv.Start(ctx); err != nil {
		return err
	}
	defer srv.Stop()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := store.Watch(runCtx); err != nil {
			d.logger.Error().Err(err).Msg("settings watch stopped")
		}
	}()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	go func() {
		for {
			select {
			case <-runCtx.Done():
				d.logger.Info().Msg("shutting down")
				d.shutdown()
				return
			case <-hup:
				d.logger.Info().Msg("received SIGHUP, reloading")
				if err := d.Reload(); err != nil {
					d.logger.Error().Err(err).Msg("reload failed")
				}
			}
		}
	}()

	d.logger.Info().
		Str("settings", store.Path()).
		Str("socket", socketPath).
		Msg("screenhop daemon started")
	backend.EventLoop()
	return nil
}

// Reload re-reads the config file and the settings file and re-registers
// the shortcuts.
func (d *Daemon) Reload() error {
	res, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return fmt.Errorf("failed to reload config: %w", err)
	}
	newCfg := res.Config

	d.mu.Lock()
	old := d.cfg
	d.cfg = newCfg
	d.mu.Unlock()

	if newCfg.SettingsFile != old.SettingsFile || newCfg.Display != old.Display || newCfg.LogLevel != old.LogLevel || newCfg.LogFile != old.LogFile {
		d.logger.Warn().Msg("display, settings_file and logging changes take effect after a restart")
	}

	if d.backend != nil {
		d.backend.SetOptions(platform.LinuxOptions{RestoreMaximized: newCfg.RestoreMaximized})
	}
	if d.store != nil {
		if err := d.store.Reload(); err != nil {
			return fmt.Errorf("failed to reload settings: %w", err)
		}
	}
	if d.ext != nil {
		d.ext.SetFlags(flagsFor(newCfg))
		d.ext.Refresh()
	}
	d.logger.Info().Msg("config reloaded")
	return nil
}

func (d *Daemon) config() *config.Config {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Daemon) component(name string) zerolog.Logger {
	return d.logger.With().Str("component", name).Logger()
}

// shutdown releases the grabs while the connection is still open, then
// stops the event loop and disconnects.
func (d *Daemon) shutdown() {
	d.closeOnce.Do(func() {
		if d.ext != nil {
			d.ext.Disable()
		}
		if d.backend != nil {
			d.backend.Quit()
			d.backend.Disconnect()
		}
	})
}

func settingsPath(cfg *config.Config) (string, error) {
	path, err := cfg.ResolveSettingsFile()
	if err != nil {
		return "", err
	}
	if path != "" {
		return path, nil
	}
	return settings.DefaultPath()
}

func flagsFor(cfg *config.Config) hotkeys.Flags {
	if cfg.IgnoreAutorepeat {
		return hotkeys.FlagIgnoreAutorepeat
	}
	return hotkeys.FlagNone
}
