package hotkeys

import (
	"log"
	"sync"

	"tickerbar/internal/dock"
	"tickerbar/internal/platform"
)

// DockCallback is called when a dock-to-edge hotkey is pressed
type DockCallback func(edge dock.Edge)

// SettingsCallback is called when the open settings hotkey is pressed
type SettingsCallback func()

// Manager handles global hotkey registration and events
type Manager struct {
	platform         platform.PlatformFeatures
	dockCallback     DockCallback
	settingsCallback SettingsCallback
	mu               sync.Mutex
	running          bool
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{
		platform: platform.Features,
	}
}

// SetDockCallback sets the callback for dock hotkeys
func (m *Manager) SetDockCallback(callback DockCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dockCallback = callback
}

// SetSettingsCallback sets the callback for the open settings hotkey
func (m *Manager) SetSettingsCallback(callback SettingsCallback) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settingsCallback = callback
}

// Start begins listening for hotkeys
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return nil
	}
	m.running = true
	m.mu.Unlock()

	err := m.platform.SetupHotkeyListener(m.handleHotkey)
	if err != nil {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		log.Printf("Failed to setup hotkey listener: %v", err)
		return err
	}

	log.Println("Hotkey listener started")
	for _, hk := range platform.Hotkeys {
		log.Printf("  %s", hk.Name)
	}
	return nil
}

// Stop stops listening for hotkeys
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.platform.StopHotkeyListener()
	m.running = false
	log.Println("Hotkey listener stopped")
}

// handleHotkey processes hotkey events
func (m *Manager) handleHotkey(id int) {
	m.mu.Lock()
	dockCb := m.dockCallback
	settingsCb := m.settingsCallback
	m.mu.Unlock()

	if id == platform.HotkeyOpenSettings {
		log.Println("Hotkey: Open settings")
		if settingsCb != nil {
			settingsCb()
		}
		return
	}

	var edge dock.Edge
	switch id {
	case platform.HotkeyDockTop:
		edge = dock.EdgeTop
	case platform.HotkeyDockBottom:
		edge = dock.EdgeBottom
	case platform.HotkeyDockLeft:
		edge = dock.EdgeLeft
	case platform.HotkeyDockRight:
		edge = dock.EdgeRight
	default:
		log.Printf("Unknown hotkey ID: %d", id)
		return
	}

	log.Printf("Hotkey: Dock %s", edge)
	if dockCb != nil {
		dockCb(edge)
	}
}

// IsRunning returns whether the hotkey listener is active
func (m *Manager) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}
