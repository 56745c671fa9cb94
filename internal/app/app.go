package app

import (
	"context"
	"log"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"

	"tickerbar/internal/assets"
	"tickerbar/internal/bridge"
	"tickerbar/internal/config"
	"tickerbar/internal/dock"
	"tickerbar/internal/helper"
	"tickerbar/internal/history"
	"tickerbar/internal/hotkeys"
	"tickerbar/internal/platform"
	"tickerbar/internal/ui"
)

// App is the main application
type App struct {
	fyneApp   fyne.App
	config    *config.Config
	coord     *dock.Coordinator
	bridge    *bridge.Bridge
	history   *history.Store
	recorder  *recorder
	hotkeyMgr *hotkeys.Manager

	// UI components
	tray     *ui.TrayManager
	ticker   *ui.TickerWindow
	settings *ui.SettingsWindow

	// State
	ctx     context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
	running bool
}

// Run starts the application and blocks until it quits
func Run(cfg *config.Config) error {
	a := &App{config: cfg}
	a.ctx, a.cancel = context.WithCancel(context.Background())

	// Initialize Fyne app
	a.fyneApp = app.NewWithID("com.tickerbar.app")
	a.fyneApp.Settings().SetTheme(theme.DarkTheme())
	a.fyneApp.SetIcon(assets.AppIcon())

	// Placement history is diagnostics only; the bar runs without it
	if cfg.History.Enabled {
		store, err := history.Open(cfg.HistoryPath(), cfg.History.Keep)
		if err != nil {
			log.Printf("Warning: placement history disabled: %v", err)
		} else {
			a.history = store
		}
	}
	a.recorder = newRecorder(cfg, a.history)

	// Docking core
	opts := []dock.Option{dock.WithSettings(cfg.Settings())}
	if h := selectHelper(cfg, platform.HelperSupported); h != nil {
		opts = append(opts, dock.WithHelper(h))
	}
	a.coord = dock.NewCoordinator(dock.ScreenFunc(platform.Features.PrimaryDisplay), opts...)
	a.coord.OnApplied(a.onApplied)
	a.bridge = bridge.New(a.ctx, a.coord)

	// Initialize hotkey manager
	a.hotkeyMgr = hotkeys.NewManager()

	// Initialize UI
	a.initUI()

	// Start hotkey listener
	a.hotkeyMgr.SetDockCallback(a.dockTo)
	a.hotkeyMgr.SetSettingsCallback(func() {
		fyne.Do(a.settings.Show)
	})
	if err := a.hotkeyMgr.Start(); err != nil {
		log.Printf("Warning: Failed to start hotkey listener: %v", err)
	}

	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	// Run the app (blocking)
	a.fyneApp.Run()

	// Cleanup
	a.shutdown()

	return nil
}

// initUI creates the ticker, settings and tray and wires them to the bridge
func (a *App) initUI() {
	display, err := platform.Features.PrimaryDisplay()
	if err != nil || display.Width <= 0 || display.Height <= 0 {
		log.Printf("Primary display unavailable (%v), assuming %dx%d", err, dock.DefaultDisplay.Width, dock.DefaultDisplay.Height)
		display = dock.DefaultDisplay
	}

	a.ticker = ui.NewTickerWindow(a.fyneApp, a.bridge, ui.TickerOptions{
		Text:    a.config.Ticker.Text,
		Speed:   a.config.Ticker.Speed,
		Opacity: a.config.Opacity,
	})
	a.ticker.Setup(a.coord.Settings(), display)
	a.ticker.GetWindow().SetCloseIntercept(a.quit)
	a.coord.Bind(a.ticker)

	a.settings = ui.NewSettingsWindow(a.fyneApp, a.bridge, a.coord.Settings)

	a.bridge.OnOpenSettings(func() {
		fyne.Do(a.settings.Show)
	})
	a.bridge.OnSettingsUpdated(func(s dock.Settings) {
		a.ticker.ApplySettings(s)
		fyne.Do(func() {
			a.settings.Refresh(s)
		})
	})

	a.tray = ui.NewTrayManager(a.fyneApp)
	a.tray.SetCallbacks(a.dockTo, a.settings.Show, a.quit)
	if err := a.tray.Setup(); err != nil {
		log.Printf("Warning: System tray setup failed: %v", err)
	}

	// Dock once the native window exists
	a.ticker.Show(func() {
		a.coord.ApplyDock(a.ctx)
	})
}

// selectHelper picks the AppBar helper according to helper.mode. It returns
// nil when docking should use geometry only.
func selectHelper(cfg *config.Config, supported bool) dock.Helper {
	if cfg.Helper.Mode == config.HelperNever {
		log.Println("AppBar helper disabled by config")
		return nil
	}
	if !supported && cfg.Helper.Mode != config.HelperAlways {
		return nil
	}

	path := cfg.Helper.Path
	if path == "" {
		path = helper.DefaultPath()
	}
	h := helper.NewExec(path, cfg.Helper.Timeout)

	if cfg.Helper.Mode == config.HelperAuto {
		if err := h.Probe(); err != nil {
			log.Printf("AppBar helper not used: %v", err)
			return nil
		}
	}
	log.Printf("Using AppBar helper %s (timeout %s)", path, cfg.Helper.Timeout)
	return h
}

// onApplied runs after every placement, on the goroutine that docked
func (a *App) onApplied(p dock.Placement) {
	if p.Source == dock.SourceFallback && !platform.HelperSupported {
		if handle := a.ticker.Handle(); handle != 0 {
			if err := platform.Features.ReserveEdge(handle, p.Settings.Position, p.Rect); err != nil {
				log.Printf("Failed to reserve %s edge: %v", p.Settings.Position, err)
			}
		}
	}

	fyne.Do(func() {
		a.tray.UpdatePlacement(p)
	})
	a.recorder.Push(p)
}

// dockTo re-docks to edge. Safe to call from any goroutine; the helper
// runs off the UI thread.
func (a *App) dockTo(edge dock.Edge) {
	pos := string(edge)
	go a.bridge.SaveSettings(bridge.SavePayload{Position: &pos})
}

// quit removes the dock reservation and shuts down the application
func (a *App) quit() {
	a.shutdown()
	a.fyneApp.Quit()
}

// shutdown cleans up resources
func (a *App) shutdown() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return
	}
	a.running = false

	log.Println("Shutting down...")

	// Release the screen edge before the window goes away
	a.coord.RemoveDock()
	if !platform.HelperSupported {
		if handle := a.ticker.Handle(); handle != 0 {
			if err := platform.Features.ReleaseEdge(handle); err != nil {
				log.Printf("Failed to release edge: %v", err)
			}
		}
	}
	a.coord.Unbind()

	// Stop hotkey listener
	a.hotkeyMgr.Stop()

	a.cancel()
	a.recorder.Close()
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	log.Println("Shutdown complete")
}
