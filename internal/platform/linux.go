//go:build linux

package platform

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"

	"tickerbar/internal/dock"
)

// HelperSupported reports whether the AppBar helper can run on this OS.
// X11 docks are reserved in-process through struts instead.
const HelperSupported = false

// LinuxFeatures implements PlatformFeatures for X11 using xgbutil
type LinuxFeatures struct {
	connOnce sync.Once
	xu       *xgbutil.XUtil
	connErr  error

	mu            sync.Mutex
	hotkeyRunning bool
	callback      func(id int)
}

// NewLinuxFeatures creates a new Linux platform features instance.
// The X connection is opened on first use.
func NewLinuxFeatures() *LinuxFeatures {
	return &LinuxFeatures{}
}

func (l *LinuxFeatures) conn() (*xgbutil.XUtil, error) {
	l.connOnce.Do(func() {
		l.xu, l.connErr = xgbutil.NewConn()
		if l.connErr != nil {
			l.connErr = fmt.Errorf("connect to X server: %w", l.connErr)
			return
		}
		keybind.Initialize(l.xu)
	})
	return l.xu, l.connErr
}

// SetAlwaysOnTop toggles _NET_WM_STATE_ABOVE
func (l *LinuxFeatures) SetAlwaysOnTop(handle WindowHandle, onTop bool) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}
	action := ewmh.StateRemove
	if onTop {
		action = ewmh.StateAdd
	}
	if err := ewmh.WmStateReq(xu, xproto.Window(handle), action, "_NET_WM_STATE_ABOVE"); err != nil {
		return fmt.Errorf("set above state: %w", err)
	}
	return nil
}

// SetTransparency sets _NET_WM_WINDOW_OPACITY
func (l *LinuxFeatures) SetTransparency(handle WindowHandle, opacity float64) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}
	if err := ewmh.WmWindowOpacitySet(xu, xproto.Window(handle), opacity); err != nil {
		return fmt.Errorf("transparency not available: %w", err)
	}
	return nil
}

// MoveAndResizeWindow moves and resizes a window
func (l *LinuxFeatures) MoveAndResizeWindow(handle WindowHandle, x, y, width, height int) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}
	win := xproto.Window(handle)
	if err := ewmh.MoveresizeWindow(xu, win, x, y, width, height); err != nil {
		// Fallback to direct window manipulation
		xwindow.New(xu, win).MoveResize(x, y, width, height)
	}
	return nil
}

// PrimaryDisplay returns the RandR primary output, or the root window when
// no primary output is set.
func (l *LinuxFeatures) PrimaryDisplay() (dock.Display, error) {
	xu, err := l.conn()
	if err != nil {
		return dock.Display{}, err
	}
	conn := xu.Conn()
	root := xu.RootWin()

	if err := randr.Init(conn); err == nil {
		if d, ok := primaryOutput(conn, root); ok {
			return d, nil
		}
	} else {
		log.Printf("RandR unavailable: %v", err)
	}

	geom, err := xproto.GetGeometry(conn, xproto.Drawable(root)).Reply()
	if err != nil {
		return dock.Display{}, fmt.Errorf("root geometry: %w", err)
	}
	return dock.Display{X: 0, Y: 0, Width: int(geom.Width), Height: int(geom.Height)}, nil
}

func primaryOutput(conn *xgb.Conn, root xproto.Window) (dock.Display, bool) {
	primary, err := randr.GetOutputPrimary(conn, root).Reply()
	if err != nil || primary.Output == 0 {
		return dock.Display{}, false
	}
	output, err := randr.GetOutputInfo(conn, primary.Output, xproto.TimeCurrentTime).Reply()
	if err != nil || output.Crtc == 0 {
		return dock.Display{}, false
	}
	crtc, err := randr.GetCrtcInfo(conn, output.Crtc, xproto.TimeCurrentTime).Reply()
	if err != nil || crtc.Width == 0 || crtc.Height == 0 {
		return dock.Display{}, false
	}
	return dock.Display{
		X:      int(crtc.X),
		Y:      int(crtc.Y),
		Width:  int(crtc.Width),
		Height: int(crtc.Height),
	}, true
}

// ReserveEdge marks the window as a dock and sets _NET_WM_STRUT_PARTIAL so
// the window manager keeps other windows out of rect.
func (l *LinuxFeatures) ReserveEdge(handle WindowHandle, edge dock.Edge, rect dock.Rect) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}
	win := xproto.Window(handle)
	geom, err := xproto.GetGeometry(xu.Conn(), xproto.Drawable(xu.RootWin())).Reply()
	if err != nil {
		return fmt.Errorf("root geometry: %w", err)
	}

	if err := ewmh.WmWindowTypeSet(xu, win, []string{"_NET_WM_WINDOW_TYPE_DOCK"}); err != nil {
		log.Printf("Failed to set dock window type: %v", err)
	}
	strut := strutFor(edge, rect, int(geom.Width), int(geom.Height))
	if err := ewmh.WmStrutPartialSet(xu, win, strut); err != nil {
		return fmt.Errorf("set strut: %w", err)
	}
	return nil
}

// ReleaseEdge clears the strut reservation
func (l *LinuxFeatures) ReleaseEdge(handle WindowHandle) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}
	return ewmh.WmStrutPartialSet(xu, xproto.Window(handle), &ewmh.WmStrutPartial{})
}

// strutFor converts a docked rect into strut distances from the root edges
func strutFor(edge dock.Edge, r dock.Rect, rootW, rootH int) *ewmh.WmStrutPartial {
	sp := &ewmh.WmStrutPartial{}
	clamp := func(v int) uint {
		if v < 0 {
			return 0
		}
		return uint(v)
	}
	switch edge {
	case dock.EdgeBottom:
		sp.Bottom = clamp(rootH - r.Y)
		sp.BottomStartX = clamp(r.X)
		sp.BottomEndX = clamp(r.X + r.Width - 1)
	case dock.EdgeLeft:
		sp.Left = clamp(r.X + r.Width)
		sp.LeftStartY = clamp(r.Y)
		sp.LeftEndY = clamp(r.Y + r.Height - 1)
	case dock.EdgeRight:
		sp.Right = clamp(rootW - r.X)
		sp.RightStartY = clamp(r.Y)
		sp.RightEndY = clamp(r.Y + r.Height - 1)
	default:
		sp.Top = clamp(r.Y + r.Height)
		sp.TopStartX = clamp(r.X)
		sp.TopEndX = clamp(r.X + r.Width - 1)
	}
	return sp
}

// keySequence maps a hotkey to an xgbutil key sequence like "Control-Mod1-Up"
func keySequence(mods, key uint) (string, bool) {
	var name string
	switch key {
	case VK_UP:
		name = "Up"
	case VK_DOWN:
		name = "Down"
	case VK_LEFT:
		name = "Left"
	case VK_RIGHT:
		name = "Right"
	case VK_OEM_PERIOD:
		name = "period"
	default:
		return "", false
	}
	seq := ""
	if mods&ModCtrl != 0 {
		seq += "Control-"
	}
	if mods&ModAlt != 0 {
		seq += "Mod1-"
	}
	if mods&ModShift != 0 {
		seq += "Shift-"
	}
	if mods&ModWin != 0 {
		seq += "Mod4-"
	}
	return seq + name, true
}

// RegisterHotkey grabs a global key on the root window
func (l *LinuxFeatures) RegisterHotkey(id int, modifiers uint, keyCode uint) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}
	seq, ok := keySequence(modifiers, keyCode)
	if !ok {
		return fmt.Errorf("no X11 key for code 0x%x", keyCode)
	}
	err = keybind.KeyPressFun(func(_ *xgbutil.XUtil, _ xevent.KeyPressEvent) {
		l.mu.Lock()
		cb := l.callback
		l.mu.Unlock()
		if cb != nil {
			cb(id)
		}
	}).Connect(xu, xu.RootWin(), seq, true)
	if err != nil {
		return fmt.Errorf("grab %s: %w", seq, err)
	}
	return nil
}

// UnregisterHotkey is handled by detaching every root binding on stop
func (l *LinuxFeatures) UnregisterHotkey(id int) error {
	return nil
}

// SetupHotkeyListener grabs the shared hotkeys and runs the X event loop
func (l *LinuxFeatures) SetupHotkeyListener(callback func(id int)) error {
	xu, err := l.conn()
	if err != nil {
		return err
	}

	l.mu.Lock()
	if l.hotkeyRunning {
		l.mu.Unlock()
		return nil
	}
	l.hotkeyRunning = true
	l.callback = callback
	l.mu.Unlock()

	for _, hk := range Hotkeys {
		if err := l.RegisterHotkey(hk.ID, hk.Mods, hk.Key); err != nil {
			log.Printf("Failed to register %s: %v", hk.Name, err)
		} else {
			log.Printf("Registered hotkey: %s", hk.Name)
		}
	}

	go func() {
		xevent.Main(xu)
		log.Println("X event loop exited")
	}()
	return nil
}

// StopHotkeyListener releases key grabs and stops the event loop
func (l *LinuxFeatures) StopHotkeyListener() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.hotkeyRunning {
		return
	}
	l.hotkeyRunning = false
	l.callback = nil
	if l.xu != nil {
		keybind.Detach(l.xu, l.xu.RootWin())
		xevent.Quit(l.xu)
	}
}

// Global instance
var Features = NewLinuxFeatures()
