//go:build darwin

package platform

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"tickerbar/internal/dock"
)

// HelperSupported reports whether the AppBar helper can run on this OS
const HelperSupported = false

// DarwinFeatures implements PlatformFeatures for macOS
type DarwinFeatures struct {
	mu            sync.Mutex
	hotkeyRunning bool
}

// NewDarwinFeatures creates a new macOS platform features instance
func NewDarwinFeatures() *DarwinFeatures {
	return &DarwinFeatures{}
}

// SetAlwaysOnTop is not reachable without CGO; Fyne keeps splash windows
// above normal ones on macOS.
func (d *DarwinFeatures) SetAlwaysOnTop(handle WindowHandle, onTop bool) error {
	log.Println("SetAlwaysOnTop: limited support on macOS (window may not stay on top)")
	return nil
}

// SetTransparency sets window opacity via NSWindow
func (d *DarwinFeatures) SetTransparency(handle WindowHandle, opacity float64) error {
	log.Printf("SetTransparency: set to %.0f%% (native macOS transparency requires CGO)", opacity*100)
	return nil
}

// MoveAndResizeWindow moves and resizes the ticker window of this process
// using AppleScript. The handle is not usable from System Events, so the
// window is found by process id and title.
func (d *DarwinFeatures) MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error {
	script := moveResizeScript(os.Getpid(), BarWindowTitle, x, y, width, height)
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("AppleScript move/resize failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// moveResizeScript targets the window named title of the process with the
// given pid. It errors out instead of touching any other window.
func moveResizeScript(pid int, title string, x, y, width, height int) string {
	return fmt.Sprintf(`
		tell application "System Events"
			tell (first process whose unix id is %d)
				if not (exists window %s) then error "window not found"
				set position of window %s to {%d, %d}
				set size of window %s to {%d, %d}
			end tell
		end tell`, pid, appleScriptString(title), appleScriptString(title), x, y, appleScriptString(title), width, height)
}

// appleScriptString quotes s as an AppleScript string literal
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// PrimaryDisplay returns the main display size reported by system_profiler
func (d *DarwinFeatures) PrimaryDisplay() (dock.Display, error) {
	out, err := exec.Command("system_profiler", "SPDisplaysDataType").Output()
	if err != nil {
		return dock.Display{}, fmt.Errorf("system_profiler failed: %w", err)
	}
	w, h, ok := parseResolution(string(out))
	if !ok {
		return dock.Display{}, fmt.Errorf("no display resolution in system_profiler output")
	}
	return dock.Display{X: 0, Y: 0, Width: w, Height: h}, nil
}

// parseResolution finds "Resolution: 2560 x 1440" in system_profiler output
func parseResolution(out string) (int, int, bool) {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "Resolution:") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) >= 4 {
			w, _ := strconv.Atoi(parts[1])
			h, _ := strconv.Atoi(parts[3])
			if w > 0 && h > 0 {
				return w, h, true
			}
		}
	}
	return 0, 0, false
}

// ReserveEdge has no public API on macOS
func (d *DarwinFeatures) ReserveEdge(handle WindowHandle, edge dock.Edge, rect dock.Rect) error {
	return nil
}

// ReleaseEdge has no public API on macOS
func (d *DarwinFeatures) ReleaseEdge(handle WindowHandle) error {
	return nil
}

// RegisterHotkey - global hotkeys on macOS require Carbon API or CGO
func (d *DarwinFeatures) RegisterHotkey(id int, modifiers uint, keyCode uint) error {
	log.Printf("RegisterHotkey: global hotkeys require CGO on macOS (id=%d)", id)
	return nil
}

// UnregisterHotkey removes a registered hotkey
func (d *DarwinFeatures) UnregisterHotkey(id int) error {
	return nil
}

// SetupHotkeyListener sets up hotkey listening (stub on macOS)
func (d *DarwinFeatures) SetupHotkeyListener(callback func(id int)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.hotkeyRunning {
		return nil
	}
	d.hotkeyRunning = true

	log.Println("Global hotkeys not yet implemented on macOS (requires Carbon API)")
	return nil
}

// StopHotkeyListener stops the hotkey listener
func (d *DarwinFeatures) StopHotkeyListener() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hotkeyRunning = false
}

// Global instance
var Features = NewDarwinFeatures()
