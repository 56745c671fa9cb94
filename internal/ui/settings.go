package ui

import (
	"fmt"
	"strconv"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"tickerbar/internal/bridge"
	"tickerbar/internal/dock"
)

const settingsTitle = "Ticker Settings"

// SettingsWindow manages the single settings window
type SettingsWindow struct {
	app     fyne.App
	bridge  *bridge.Bridge
	current func() dock.Settings

	mu      sync.Mutex
	window  fyne.Window
	edge    *widget.Select
	size    *widget.Entry
	status  binding.String
	saveBtn *widget.Button
}

// NewSettingsWindow creates the settings window manager. current reports
// the live settings used to fill the form.
func NewSettingsWindow(app fyne.App, b *bridge.Bridge, current func() dock.Settings) *SettingsWindow {
	return &SettingsWindow{
		app:     app,
		bridge:  b,
		current: current,
		status:  binding.NewString(),
	}
}

// edgeOptions lists the edges in the order the select shows them
func edgeOptions() []string {
	opts := make([]string, len(dock.Edges))
	for i, e := range dock.Edges {
		opts[i] = string(e)
	}
	return opts
}

// Show opens the settings window, or focuses it if it is already open
func (s *SettingsWindow) Show() {
	s.mu.Lock()
	if s.window != nil {
		w := s.window
		s.mu.Unlock()
		w.RequestFocus()
		return
	}

	window := s.app.NewWindow(settingsTitle)
	window.Resize(fyne.NewSize(400, 260))
	s.window = window
	s.mu.Unlock()

	cur := s.current()

	// --- Dock ---
	dockLabel := widget.NewLabel("Dock")
	dockLabel.TextStyle = fyne.TextStyle{Bold: true}

	s.edge = widget.NewSelect(edgeOptions(), nil)
	s.edge.SetSelected(string(cur.Position))

	s.size = widget.NewEntry()
	s.size.SetText(strconv.Itoa(cur.BarSize))
	s.size.Validator = func(text string) error {
		_, err := dock.ParseBarSize(text)
		return err
	}

	form := widget.NewForm(
		widget.NewFormItem("Edge", s.edge),
		widget.NewFormItem("Bar size (px)", container.New(&fixedWidthLayout{width: 120}, s.size)),
	)

	statusLabel := widget.NewLabelWithData(s.status)
	s.status.Set(fmt.Sprintf("Docked %s, %d px", cur.Position, cur.BarSize))

	// --- Buttons ---
	s.saveBtn = widget.NewButton("Save", func() {
		s.save(window)
	})
	s.saveBtn.Importance = widget.HighImportance

	closeBtn := widget.NewButton("Close", func() {
		window.Close()
	})

	buttons := container.NewHBox(layout.NewSpacer(), s.saveBtn, closeBtn, layout.NewSpacer())

	content := container.NewVBox(
		dockLabel,
		form,
		widget.NewSeparator(),
		statusLabel,
		buttons,
	)

	window.SetOnClosed(func() {
		s.mu.Lock()
		s.window = nil
		s.mu.Unlock()
	})
	window.SetContent(container.NewPadded(content))
	window.Show()
}

// save sends save-settings off the UI goroutine so the helper never blocks
// the event loop
func (s *SettingsWindow) save(window fyne.Window) {
	if _, err := dock.ParseBarSize(s.size.Text); err != nil {
		dialog.ShowError(fmt.Errorf("bar size must be a whole number from 1 to %d", dock.MaxBarSize-1), window)
		return
	}

	pos := s.edge.Selected
	payload := bridge.SavePayload{BarSize: bridge.BarSizeText(s.size.Text)}
	if pos != "" {
		payload.Position = &pos
	}

	s.saveBtn.Disable()
	s.status.Set("Docking...")
	go func() {
		applied := s.bridge.SaveSettings(payload)
		fyne.Do(func() {
			s.saveBtn.Enable()
			s.Refresh(applied)
		})
	}()
}

// Refresh shows applied settings in the open window. It must run on the
// UI goroutine.
func (s *SettingsWindow) Refresh(applied dock.Settings) {
	s.mu.Lock()
	open := s.window != nil
	s.mu.Unlock()
	if !open {
		return
	}
	s.edge.SetSelected(string(applied.Position))
	s.size.SetText(strconv.Itoa(applied.BarSize))
	s.status.Set(fmt.Sprintf("Docked %s, %d px", applied.Position, applied.BarSize))
}

// IsOpen reports whether the settings window is showing
func (s *SettingsWindow) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window != nil
}
