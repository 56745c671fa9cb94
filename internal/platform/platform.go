package platform

import (
	"encoding/binary"
	"strconv"

	"tickerbar/internal/dock"
)

// WindowHandle represents a platform-specific window handle
type WindowHandle uintptr

// BarWindowTitle is the title of the ticker window. Platforms that cannot
// address a window by handle look it up by this name.
const BarWindowTitle = "TickerBar"

// PlatformFeatures defines the interface for platform-specific features.
// Each platform (Windows, Linux, macOS) must implement this interface.
type PlatformFeatures interface {
	// Window management
	SetAlwaysOnTop(handle WindowHandle, onTop bool) error
	SetTransparency(handle WindowHandle, opacity float64) error
	MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error

	// Screen info
	PrimaryDisplay() (dock.Display, error)

	// Edge reservation for platforms that dock without the AppBar helper
	ReserveEdge(handle WindowHandle, edge dock.Edge, rect dock.Rect) error
	ReleaseEdge(handle WindowHandle) error

	// Global hotkeys
	RegisterHotkey(id int, modifiers uint, keyCode uint) error
	UnregisterHotkey(id int) error
	SetupHotkeyListener(callback func(id int)) error
	StopHotkeyListener()
}

// Hotkey modifiers
const (
	ModAlt   uint = 0x0001
	ModCtrl  uint = 0x0002
	ModShift uint = 0x0004
	ModWin   uint = 0x0008
)

// Virtual key codes
const (
	VK_LEFT       uint = 0x25
	VK_UP         uint = 0x26
	VK_RIGHT      uint = 0x27
	VK_DOWN       uint = 0x28
	VK_OEM_PERIOD uint = 0xBE // '.' key
)

// Hotkey IDs
const (
	HotkeyDockTop      = 1
	HotkeyDockBottom   = 2
	HotkeyDockLeft     = 3
	HotkeyDockRight    = 4
	HotkeyOpenSettings = 5
)

// Hotkey is one global shortcut binding
type Hotkey struct {
	ID   int
	Mods uint
	Key  uint
	Name string
}

// Hotkeys are the global shortcuts every platform tries to register:
//
//	Ctrl+Alt+Arrow = dock to that edge
//	Ctrl+Alt+.     = open settings
var Hotkeys = []Hotkey{
	{HotkeyDockTop, ModCtrl | ModAlt, VK_UP, "Ctrl+Alt+Up (dock top)"},
	{HotkeyDockBottom, ModCtrl | ModAlt, VK_DOWN, "Ctrl+Alt+Down (dock bottom)"},
	{HotkeyDockLeft, ModCtrl | ModAlt, VK_LEFT, "Ctrl+Alt+Left (dock left)"},
	{HotkeyDockRight, ModCtrl | ModAlt, VK_RIGHT, "Ctrl+Alt+Right (dock right)"},
	{HotkeyOpenSettings, ModCtrl | ModAlt, VK_OEM_PERIOD, "Ctrl+Alt+. (settings)"},
}

// EncodeHandle renders h as little-endian bytes sized to the platform
// pointer width.
func EncodeHandle(h WindowHandle) []byte {
	if strconv.IntSize == 32 {
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(h))
		return buf
	}
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(h))
	return buf
}
