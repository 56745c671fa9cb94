package dock

import (
	"context"
	"log"
	"sync"
)

// State is the coordinator lifecycle state
type State int

const (
	Unbound State = iota
	Bound
	Docked
)

func (s State) String() string {
	switch s {
	case Bound:
		return "bound"
	case Docked:
		return "docked"
	default:
		return "unbound"
	}
}

// Source says which path produced a placement
type Source string

const (
	SourceHelper   Source = "helper"
	SourceFallback Source = "fallback"
)

// Placement is the outcome of one ApplyDock run
type Placement struct {
	Settings Settings
	Rect     Rect
	Source   Source
}

// SetRequest asks the AppBar helper to reserve an edge for a window
type SetRequest struct {
	Position Edge
	BarSize  int
	Handle   string
}

// Helper reserves screen space through an external process
type Helper interface {
	Set(ctx context.Context, req SetRequest) (Rect, error)
	// RemoveNoWait releases the reservation. It is best effort and never
	// reports failure.
	RemoveNoWait(handle string)
}

// Screen reports the primary display geometry
type Screen interface {
	PrimaryDisplay() (Display, error)
}

// ScreenFunc adapts a function to Screen
type ScreenFunc func() (Display, error)

func (f ScreenFunc) PrimaryDisplay() (Display, error) { return f() }

// Option configures a Coordinator
type Option func(*Coordinator)

// WithHelper enables the AppBar helper path. A nil helper means the
// platform does not support it.
func WithHelper(h Helper) Option {
	return func(c *Coordinator) { c.helper = h }
}

// WithSettings sets the initial settings. Invalid fields keep the defaults.
func WithSettings(s Settings) Option {
	return func(c *Coordinator) {
		pos := string(s.Position)
		size := s.BarSize
		c.settings, _ = c.settings.Merge(Patch{Position: &pos, BarSize: &size})
	}
}

// Coordinator keeps a window docked to a screen edge. It owns the live
// settings and holds a non-owning reference to the window.
type Coordinator struct {
	screen Screen
	helper Helper

	// applyMu serializes ApplyDock runs
	applyMu sync.Mutex

	mu        sync.Mutex
	window    Window
	state     State
	settings  Settings
	gen       uint64
	listeners []func(Placement)
}

// NewCoordinator creates an unbound coordinator with default settings
func NewCoordinator(screen Screen, opts ...Option) *Coordinator {
	c := &Coordinator{
		screen:   screen,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Bind attaches the window to dock
func (c *Coordinator) Bind(w Window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = w
	c.state = Bound
	c.gen++
}

// Unbind drops the window reference. Later operations are no-ops until the
// next Bind.
func (c *Coordinator) Unbind() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = nil
	c.state = Unbound
	c.gen++
}

// Settings returns a copy of the current settings
func (c *Coordinator) Settings() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

// State returns the lifecycle state
func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HelperEnabled reports whether ApplyDock will try the AppBar helper
func (c *Coordinator) HelperEnabled() bool {
	return c.helper != nil
}

// OnApplied registers fn to run after every applied placement
func (c *Coordinator) OnApplied(fn func(Placement)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// UpdateSettings merges p into the current settings and re-docks. Invalid
// fields are logged and dropped.
func (c *Coordinator) UpdateSettings(ctx context.Context, p Patch) Settings {
	c.mu.Lock()
	next, rejected := c.settings.Merge(p)
	c.settings = next
	c.gen++
	c.mu.Unlock()

	for _, err := range rejected {
		log.Printf("Ignoring settings field: %v", err)
	}

	c.ApplyDock(ctx)
	return next
}

// ApplyDock positions the window for the current settings. It returns false
// when no window is bound or the run was superseded by a newer change.
func (c *Coordinator) ApplyDock(ctx context.Context) (Placement, bool) {
	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	c.mu.Lock()
	w := c.window
	settings := c.settings
	gen := c.gen
	c.mu.Unlock()

	if w == nil {
		return Placement{}, false
	}

	placement := Placement{Settings: settings, Source: SourceFallback}
	if c.helper != nil {
		if rect, ok := c.trySetHelper(ctx, w, settings); ok {
			placement.Rect = rect
			placement.Source = SourceHelper
		}
	}
	if placement.Source == SourceFallback {
		placement.Rect = FallbackRect(c.display(), settings.Position, settings.BarSize)
	}

	c.mu.Lock()
	if c.window != w || c.gen != gen {
		c.mu.Unlock()
		log.Printf("Discarding stale placement for %s", settings)
		return Placement{}, false
	}
	c.mu.Unlock()

	if err := w.SetBounds(placement.Rect); err != nil {
		log.Printf("Failed to set window bounds: %v", err)
	}

	c.mu.Lock()
	if c.window == w {
		c.state = Docked
	}
	listeners := append([]func(Placement){}, c.listeners...)
	c.mu.Unlock()

	log.Printf("Docked %s at (%d, %d) size %dx%d via %s",
		settings, placement.Rect.X, placement.Rect.Y,
		placement.Rect.Width, placement.Rect.Height, placement.Source)

	for _, fn := range listeners {
		fn(placement)
	}
	return placement, true
}

// RemoveDock releases the OS reservation and drops the window, so later
// ApplyDock calls are no-ops until Bind. Window bounds are left alone since
// the window is assumed to be closing.
func (c *Coordinator) RemoveDock() {
	c.mu.Lock()
	w := c.window
	c.window = nil
	c.state = Unbound
	c.gen++
	c.mu.Unlock()

	if w == nil || c.helper == nil {
		return
	}
	handle, err := ResolveHandle(w)
	if err != nil {
		log.Printf("Skipping dock removal: %v", err)
		return
	}
	c.helper.RemoveNoWait(handle)
}

func (c *Coordinator) trySetHelper(ctx context.Context, w Window, s Settings) (Rect, bool) {
	handle, err := ResolveHandle(w)
	if err != nil {
		log.Printf("Native handle unavailable, using fallback: %v", err)
		return Rect{}, false
	}
	rect, err := c.helper.Set(ctx, SetRequest{
		Position: s.Position,
		BarSize:  s.BarSize,
		Handle:   handle,
	})
	if err != nil {
		log.Printf("AppBar helper failed, using fallback: %v", err)
		return Rect{}, false
	}
	return rect, true
}

func (c *Coordinator) display() Display {
	if c.screen == nil {
		return DefaultDisplay
	}
	d, err := c.screen.PrimaryDisplay()
	if err != nil || d.Width <= 0 || d.Height <= 0 {
		log.Printf("Primary display unavailable, assuming %dx%d: %v",
			DefaultDisplay.Width, DefaultDisplay.Height, err)
		return DefaultDisplay
	}
	return d
}
