// Package bridge relays settings events between the settings surface, the
// ticker surface and the dock coordinator.
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"sync"

	"tickerbar/internal/dock"
)

// Event names
const (
	EventOpenSettings    = "open-settings"
	EventSaveSettings    = "save-settings"
	EventSettingsUpdated = "settings-updated"
)

var (
	ErrUnknownEvent = errors.New("unknown event")
	ErrBadPayload   = errors.New("bad event payload")
)

// Coordinator is the part of the dock coordinator the bridge drives
type Coordinator interface {
	UpdateSettings(ctx context.Context, p dock.Patch) dock.Settings
	OnApplied(fn func(dock.Placement))
}

// SavePayload is the body of a save-settings event. Both fields are
// optional; barSize may arrive as a JSON number or string.
type SavePayload struct {
	Position *string  `json:"position,omitempty"`
	BarSize  *BarSize `json:"barSize,omitempty"`
}

// BarSize holds a bar size exactly as the surface sent it
type BarSize struct {
	raw string
}

// BarSizeOf wraps an integer bar size
func BarSizeOf(n int) *BarSize {
	return &BarSize{raw: strconv.Itoa(n)}
}

// BarSizeText wraps a bar size typed into a text field
func BarSizeText(s string) *BarSize {
	return &BarSize{raw: s}
}

func (b *BarSize) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return fmt.Errorf("%w: barSize %v", ErrBadPayload, n)
		}
		b.raw = strconv.FormatInt(int64(math.Trunc(n)), 10)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: barSize must be a number or string", ErrBadPayload)
	}
	b.raw = s
	return nil
}

func (b BarSize) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.raw)
}

// Patch converts the payload into a coordinator patch. A bar size that does
// not parse is dropped and logged.
func (p SavePayload) Patch() dock.Patch {
	var patch dock.Patch
	if p.Position != nil {
		pos := *p.Position
		patch.Position = &pos
	}
	if p.BarSize != nil {
		if n, err := dock.ParseBarSize(p.BarSize.raw); err != nil {
			log.Printf("Ignoring settings field: %v", err)
		} else {
			patch.BarSize = &n
		}
	}
	return patch
}

// Bridge routes settings events. Handlers run on the goroutine that emitted
// the event.
type Bridge struct {
	ctx   context.Context
	coord Coordinator

	mu              sync.Mutex
	openHandlers    []func()
	updatedHandlers []func(dock.Settings)
}

// New creates a bridge bound to coord and subscribes to its placements
func New(ctx context.Context, coord Coordinator) *Bridge {
	b := &Bridge{ctx: ctx, coord: coord}
	coord.OnApplied(func(p dock.Placement) {
		b.broadcast(p.Settings)
	})
	return b
}

// OnOpenSettings registers a handler for open-settings
func (b *Bridge) OnOpenSettings(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.openHandlers = append(b.openHandlers, fn)
}

// OnSettingsUpdated registers a listener for settings-updated
func (b *Bridge) OnSettingsUpdated(fn func(dock.Settings)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updatedHandlers = append(b.updatedHandlers, fn)
}

// OpenSettings asks the shell to present the settings surface
func (b *Bridge) OpenSettings() {
	b.mu.Lock()
	handlers := append([]func(){}, b.openHandlers...)
	b.mu.Unlock()
	for _, fn := range handlers {
		fn()
	}
}

// SaveSettings applies a settings change and re-docks. It blocks while the
// AppBar helper runs, so UI callers should invoke it off the main thread.
func (b *Bridge) SaveSettings(p SavePayload) dock.Settings {
	return b.coord.UpdateSettings(b.ctx, p.Patch())
}

// Emit dispatches a named inbound event with an optional JSON payload
func (b *Bridge) Emit(event string, payload []byte) error {
	switch event {
	case EventOpenSettings:
		b.OpenSettings()
		return nil
	case EventSaveSettings:
		p, err := decodeSave(payload)
		if err != nil {
			return err
		}
		b.SaveSettings(p)
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}
}

// decodeSave reads a save-settings body one field at a time. A field of the
// wrong JSON type is logged and dropped so the others still apply; only a
// body that is not a JSON object is an error.
func decodeSave(payload []byte) (SavePayload, error) {
	var p SavePayload
	if len(payload) == 0 {
		return p, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return p, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	if raw, ok := fields["position"]; ok && !isNull(raw) {
		var pos string
		if err := json.Unmarshal(raw, &pos); err != nil {
			log.Printf("Ignoring settings field: position must be a string, got %s", raw)
		} else {
			p.Position = &pos
		}
	}
	if raw, ok := fields["barSize"]; ok && !isNull(raw) {
		var size BarSize
		if err := size.UnmarshalJSON(raw); err != nil {
			log.Printf("Ignoring settings field: %v", err)
		} else {
			p.BarSize = &size
		}
	}
	return p, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (b *Bridge) broadcast(s dock.Settings) {
	b.mu.Lock()
	handlers := append([]func(dock.Settings){}, b.updatedHandlers...)
	b.mu.Unlock()
	for _, fn := range handlers {
		fn(s)
	}
}
