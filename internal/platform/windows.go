//go:build windows

package platform

import (
	"fmt"
	"log"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"tickerbar/internal/dock"
)

// HelperSupported reports whether the AppBar helper can run on this OS
const HelperSupported = true

var (
	user32                   = syscall.NewLazyDLL("user32.dll")
	kernel32                 = syscall.NewLazyDLL("kernel32.dll")
	procSetWindowPos         = user32.NewProc("SetWindowPos")
	procMoveWindow           = user32.NewProc("MoveWindow")
	procGetWindowLong        = user32.NewProc("GetWindowLongW")
	procSetWindowLong        = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttr = user32.NewProc("SetLayeredWindowAttributes")
	procGetSystemMetrics     = user32.NewProc("GetSystemMetrics")
	procRegisterHotKey       = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey     = user32.NewProc("UnregisterHotKey")
	procGetMessage           = user32.NewProc("GetMessageW")
	procPostThreadMessage    = user32.NewProc("PostThreadMessageW")
	procGetCurrentThreadId   = kernel32.NewProc("GetCurrentThreadId")
)

// Windows constants
const (
	HWND_TOPMOST   = ^uintptr(0) // -1
	HWND_NOTOPMOST = ^uintptr(1) // -2
	SWP_NOMOVE     = 0x0002
	SWP_NOSIZE     = 0x0001
	SWP_NOACTIVATE = 0x0010

	WS_EX_LAYERED = 0x00080000

	LWA_ALPHA = 0x00000002

	SM_CXSCREEN = 0
	SM_CYSCREEN = 1

	WM_HOTKEY = 0x0312
	WM_QUIT   = 0x0012
)

// gwlExStyle is GWL_EXSTYLE (-20) as uintptr, computed at runtime to avoid overflow
var gwlExStyle = negativeToUintptr(-20)

func negativeToUintptr(v int32) uintptr {
	return uintptr(uint32(v))
}

// MSG structure for Windows message loop
type MSG struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// WindowsFeatures implements PlatformFeatures for Windows
type WindowsFeatures struct {
	mu             sync.Mutex
	hotkeyThreadID uint32
	hotkeyRunning  bool
}

// NewWindowsFeatures creates a new Windows platform features instance
func NewWindowsFeatures() *WindowsFeatures {
	return &WindowsFeatures{}
}

// SetAlwaysOnTop sets the window to always be on top
func (w *WindowsFeatures) SetAlwaysOnTop(handle WindowHandle, onTop bool) error {
	insertAfter := HWND_NOTOPMOST
	if onTop {
		insertAfter = HWND_TOPMOST
	}

	ret, _, err := procSetWindowPos.Call(
		uintptr(handle),
		insertAfter,
		0, 0, 0, 0,
		SWP_NOMOVE|SWP_NOSIZE|SWP_NOACTIVATE,
	)
	if ret == 0 {
		return fmt.Errorf("SetWindowPos failed: %w", err)
	}
	return nil
}

// SetTransparency sets the window transparency
func (w *WindowsFeatures) SetTransparency(handle WindowHandle, opacity float64) error {
	exStyle, _, _ := procGetWindowLong.Call(uintptr(handle), gwlExStyle)
	procSetWindowLong.Call(uintptr(handle), gwlExStyle, exStyle|WS_EX_LAYERED)

	alpha := byte(opacity * 255)
	ret, _, err := procSetLayeredWindowAttr.Call(
		uintptr(handle),
		0,
		uintptr(alpha),
		LWA_ALPHA,
	)
	if ret == 0 {
		return fmt.Errorf("SetLayeredWindowAttributes failed: %w", err)
	}
	return nil
}

// MoveAndResizeWindow moves and resizes a window
func (w *WindowsFeatures) MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error {
	ret, _, err := procMoveWindow.Call(
		uintptr(handle),
		uintptr(x),
		uintptr(y),
		uintptr(width),
		uintptr(height),
		1, // bRepaint = TRUE
	)
	if ret == 0 {
		return fmt.Errorf("MoveWindow failed: %w", err)
	}
	return nil
}

// PrimaryDisplay returns the primary monitor, which Windows always places
// at the origin.
func (w *WindowsFeatures) PrimaryDisplay() (dock.Display, error) {
	cx, _, _ := procGetSystemMetrics.Call(SM_CXSCREEN)
	cy, _, _ := procGetSystemMetrics.Call(SM_CYSCREEN)
	if cx == 0 || cy == 0 {
		return dock.Display{}, fmt.Errorf("GetSystemMetrics returned %dx%d", cx, cy)
	}
	return dock.Display{X: 0, Y: 0, Width: int(cx), Height: int(cy)}, nil
}

// ReserveEdge is a no-op; the AppBar helper owns the reservation on Windows
func (w *WindowsFeatures) ReserveEdge(handle WindowHandle, edge dock.Edge, rect dock.Rect) error {
	return nil
}

// ReleaseEdge is a no-op; see ReserveEdge
func (w *WindowsFeatures) ReleaseEdge(handle WindowHandle) error {
	return nil
}

// RegisterHotkey registers a global hotkey
func (w *WindowsFeatures) RegisterHotkey(id int, modifiers uint, keyCode uint) error {
	ret, _, err := procRegisterHotKey.Call(
		0,
		uintptr(id),
		uintptr(modifiers),
		uintptr(keyCode),
	)
	if ret == 0 {
		return fmt.Errorf("RegisterHotKey failed for id %d: %w", id, err)
	}
	return nil
}

// UnregisterHotkey removes a registered hotkey
func (w *WindowsFeatures) UnregisterHotkey(id int) error {
	ret, _, err := procUnregisterHotKey.Call(
		0,
		uintptr(id),
	)
	if ret == 0 {
		return fmt.Errorf("UnregisterHotKey failed for id %d: %w", id, err)
	}
	return nil
}

// SetupHotkeyListener sets up the hotkey message loop
func (w *WindowsFeatures) SetupHotkeyListener(callback func(id int)) error {
	w.mu.Lock()
	if w.hotkeyRunning {
		w.mu.Unlock()
		return nil
	}
	w.hotkeyRunning = true
	w.mu.Unlock()

	go func() {
		// RegisterHotKey and GetMessage must run on the same OS thread.
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		threadID, _, _ := procGetCurrentThreadId.Call()
		w.mu.Lock()
		w.hotkeyThreadID = uint32(threadID)
		w.mu.Unlock()

		for _, hk := range Hotkeys {
			if err := w.RegisterHotkey(hk.ID, hk.Mods, hk.Key); err != nil {
				log.Printf("Failed to register %s: %v", hk.Name, err)
			} else {
				log.Printf("Registered hotkey: %s", hk.Name)
			}
		}

		// GetMessage blocks until a message arrives
		var msg MSG
		for {
			ret, _, _ := procGetMessage.Call(
				uintptr(unsafe.Pointer(&msg)),
				0, 0, 0,
			)

			// ret == 0 means WM_QUIT, ret == -1 means error
			if ret == 0 || int32(ret) == -1 {
				break
			}

			if msg.Message == WM_HOTKEY {
				callback(int(msg.WParam))
			}
		}

		for _, hk := range Hotkeys {
			w.UnregisterHotkey(hk.ID)
		}
		log.Println("Hotkey message loop exited")
	}()

	return nil
}

// StopHotkeyListener stops the hotkey message loop
func (w *WindowsFeatures) StopHotkeyListener() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.hotkeyRunning {
		return
	}
	w.hotkeyRunning = false

	// Post WM_QUIT to the hotkey thread to unblock GetMessage
	if w.hotkeyThreadID != 0 {
		procPostThreadMessage.Call(
			uintptr(w.hotkeyThreadID),
			WM_QUIT,
			0,
			0,
		)
	}
}

// Global instance
var Features = NewWindowsFeatures()
