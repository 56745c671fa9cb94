package ui

import (
	"fmt"
	"log"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"tickerbar/internal/assets"
	"tickerbar/internal/dock"
)

// TrayManager handles the system tray icon and menu
type TrayManager struct {
	app        fyne.App
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	edgeItems  map[dock.Edge]*fyne.MenuItem
	onDock     func(dock.Edge)
	onSettings func()
	onQuit     func()
}

// NewTrayManager creates a new tray manager
func NewTrayManager(app fyne.App) *TrayManager {
	return &TrayManager{
		app:       app,
		edgeItems: make(map[dock.Edge]*fyne.MenuItem),
	}
}

// SetCallbacks sets the callback functions for tray actions
func (t *TrayManager) SetCallbacks(onDock func(dock.Edge), onSettings, onQuit func()) {
	t.onDock = onDock
	t.onSettings = onSettings
	t.onQuit = onQuit
}

// Setup initializes the system tray
func (t *TrayManager) Setup() error {
	desk, ok := t.app.(desktop.App)
	if !ok {
		return fmt.Errorf("system tray not supported on this platform")
	}

	t.statusItem = fyne.NewMenuItem("Docking...", nil)
	t.statusItem.Disabled = true

	items := []*fyne.MenuItem{t.statusItem, fyne.NewMenuItemSeparator()}
	for _, edge := range dock.Edges {
		item := fyne.NewMenuItem("Dock "+edgeTitle(edge), func() {
			if t.onDock != nil {
				t.onDock(edge)
			}
		})
		t.edgeItems[edge] = item
		items = append(items, item)
	}

	settingsItem := fyne.NewMenuItem("Settings...", func() {
		if t.onSettings != nil {
			t.onSettings()
		}
	})

	quitItem := fyne.NewMenuItem("Quit", func() {
		if t.onQuit != nil {
			t.onQuit()
		}
	})
	quitItem.IsQuit = true

	items = append(items, fyne.NewMenuItemSeparator(), settingsItem, fyne.NewMenuItemSeparator(), quitItem)
	t.menu = fyne.NewMenu("TickerBar", items...)

	desk.SetSystemTrayMenu(t.menu)
	desk.SetSystemTrayIcon(assets.TrayIcon())
	log.Println("System tray initialized")
	return nil
}

// UpdatePlacement shows the latest placement and checks its edge. It must
// run on the UI goroutine.
func (t *TrayManager) UpdatePlacement(p dock.Placement) {
	if t.menu == nil {
		return
	}
	t.statusItem.Label = placementLabel(p)
	for edge, item := range t.edgeItems {
		item.Checked = edge == p.Settings.Position
	}
	t.menu.Refresh()
}

// placementLabel renders a placement for the tray status line
func placementLabel(p dock.Placement) string {
	return fmt.Sprintf("%s %d px (%s) at %d,%d",
		edgeTitle(p.Settings.Position), p.Settings.BarSize, p.Source, p.Rect.X, p.Rect.Y)
}

func edgeTitle(e dock.Edge) string {
	if e == "" {
		return ""
	}
	return strings.ToUpper(string(e[:1])) + string(e[1:])
}
