package ui

import (
	"errors"
	"log"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"tickerbar/internal/assets"
	"tickerbar/internal/bridge"
	"tickerbar/internal/dock"
	"tickerbar/internal/platform"
)

const tickerTitle = platform.BarWindowTitle

var errNoNativeHandle = errors.New("native window handle not captured yet")

// TickerOptions configures the ticker surface
type TickerOptions struct {
	Text    string
	Speed   float64 // pixels per second
	Opacity float64
}

// TickerWindow is the borderless, always-on-top bar. It implements
// dock.Window so the coordinator can place it.
type TickerWindow struct {
	window   fyne.Window
	app      fyne.App
	bridge   *bridge.Bridge
	platform platform.PlatformFeatures
	opts     TickerOptions

	marquee     *Marquee
	settingsBtn *widget.Button
	body        *fyne.Container

	mu          sync.RWMutex
	initialized bool
	horizontal  bool
	handle      platform.WindowHandle
}

// NewTickerWindow creates the ticker window wrapper
func NewTickerWindow(app fyne.App, b *bridge.Bridge, opts TickerOptions) *TickerWindow {
	return &TickerWindow{
		app:        app,
		bridge:     b,
		platform:   platform.Features,
		opts:       opts,
		horizontal: true,
	}
}

// Setup creates the window with initial bounds taken from the primary
// display: full width at the top, BarSize tall.
func (t *TickerWindow) Setup(initial dock.Settings, display dock.Display) {
	if drv, ok := t.app.Driver().(desktop.Driver); ok {
		t.window = drv.CreateSplashWindow()
		t.window.SetTitle(tickerTitle)
	} else {
		t.window = t.app.NewWindow(tickerTitle)
	}
	t.window.SetPadded(false)
	t.window.SetFixedSize(true)
	t.window.SetIcon(assets.AppIcon())

	t.marquee = NewMarquee(t.opts.Text, t.opts.Speed)
	t.settingsBtn = widget.NewButtonWithIcon("", theme.SettingsIcon(), func() {
		if err := t.bridge.Emit(bridge.EventOpenSettings, nil); err != nil {
			log.Printf("Failed to open settings: %v", err)
		}
	})
	t.settingsBtn.Importance = widget.LowImportance

	t.body = container.NewStack()
	t.window.SetContent(container.NewStack(canvas.NewRectangle(colorBg), t.body))
	t.applyLayout(initial.Position.Horizontal())

	start := dock.FallbackRect(display, dock.EdgeTop, initial.BarSize)
	t.window.Resize(t.logicalSize(start))

	t.mu.Lock()
	t.initialized = true
	t.mu.Unlock()
}

// applyLayout arranges the marquee and settings button for the bar's
// orientation
func (t *TickerWindow) applyLayout(horizontal bool) {
	t.mu.Lock()
	t.horizontal = horizontal
	t.mu.Unlock()

	t.marquee.SetVertical(!horizontal)
	var content fyne.CanvasObject
	if horizontal {
		content = container.NewBorder(nil, nil, nil, t.settingsBtn, t.marquee)
	} else {
		content = container.NewBorder(nil, t.settingsBtn, nil, nil, t.marquee)
	}
	t.body.Objects = []fyne.CanvasObject{content}
	t.body.Refresh()
}

// Show displays the window. Once the native window exists its handle is
// captured, always-on-top and opacity are applied, and onReady runs on a
// background goroutine.
func (t *TickerWindow) Show(onReady func()) {
	t.mu.RLock()
	ok := t.initialized
	t.mu.RUnlock()
	if !ok {
		return
	}

	t.window.Show()
	t.marquee.Start()

	go func() {
		time.Sleep(200 * time.Millisecond)
		t.applyWindowFeatures()
		if onReady != nil {
			onReady()
		}
	}()
}

// applyWindowFeatures captures the native handle and applies the platform
// features Fyne does not expose
func (t *TickerWindow) applyWindowFeatures() {
	handle := nativeHandle(t.window)
	if handle == 0 {
		log.Println("Failed to get native window handle; docking with geometry only")
		return
	}
	t.mu.Lock()
	t.handle = handle
	t.mu.Unlock()

	if err := t.platform.SetAlwaysOnTop(handle, true); err != nil {
		log.Printf("Failed to set always on top: %v", err)
	}

	opacity := t.opts.Opacity
	if opacity <= 0 || opacity > 1 {
		opacity = 0.9
	}
	if err := t.platform.SetTransparency(handle, opacity); err != nil {
		log.Printf("Failed to set transparency: %v", err)
	}

	log.Printf("Window features applied (handle: %v, opacity: %.2f)", handle, opacity)
}

// nativeHandle reads the OS window identifier through the driver
func nativeHandle(w fyne.Window) platform.WindowHandle {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return 0
	}
	var (
		handle uintptr
		wg     sync.WaitGroup
	)
	wg.Add(1)
	nw.RunNative(func(ctx any) {
		defer wg.Done()
		switch c := ctx.(type) {
		case driver.WindowsWindowContext:
			handle = c.HWND
		case driver.X11WindowContext:
			handle = c.WindowHandle
		case driver.MacWindowContext:
			handle = c.NSWindow
		}
	})
	wg.Wait()
	return platform.WindowHandle(handle)
}

// NativeHandle returns the captured handle in pointer-size little-endian form
func (t *TickerWindow) NativeHandle() ([]byte, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.handle == 0 {
		return nil, errNoNativeHandle
	}
	return platform.EncodeHandle(t.handle), nil
}

// Handle returns the captured native handle, or 0 before the window is shown
func (t *TickerWindow) Handle() platform.WindowHandle {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.handle
}

// SetBounds moves and resizes the window to r. Fyne cannot position
// windows, so the move goes through the platform layer when the native
// handle is known.
func (t *TickerWindow) SetBounds(r dock.Rect) error {
	t.mu.RLock()
	handle := t.handle
	t.mu.RUnlock()

	fyne.Do(func() {
		horizontal := r.Width >= r.Height
		t.mu.RLock()
		changed := horizontal != t.horizontal
		t.mu.RUnlock()
		if changed {
			t.applyLayout(horizontal)
		}
		t.window.Resize(t.logicalSize(r))

		if handle == 0 {
			return
		}
		if err := t.platform.MoveAndResizeWindow(handle, r.X, r.Y, r.Width, r.Height); err != nil {
			log.Printf("Failed to move window: %v", err)
		}
	})
	return nil
}

// logicalSize converts screen pixels to Fyne units
func (t *TickerWindow) logicalSize(r dock.Rect) fyne.Size {
	scale := float32(1)
	if c := t.window.Canvas(); c != nil && c.Scale() > 0 {
		scale = c.Scale()
	}
	return fyne.NewSize(float32(r.Width)/scale, float32(r.Height)/scale)
}

// ApplySettings is the settings-updated listener. Orientation follows the
// edge so the layout is right even before the bounds arrive.
func (t *TickerWindow) ApplySettings(s dock.Settings) {
	fyne.Do(func() {
		t.mu.RLock()
		changed := s.Position.Horizontal() != t.horizontal
		t.mu.RUnlock()
		if changed {
			t.applyLayout(s.Position.Horizontal())
		}
	})
}

// GetWindow returns the underlying Fyne window
func (t *TickerWindow) GetWindow() fyne.Window {
	return t.window
}
