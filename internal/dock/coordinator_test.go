package dock

import (
	"context"
	"encoding/binary"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	mu     sync.Mutex
	handle []byte
	err    error
	bounds []Rect
	setErr error
}

func newFakeWindow(h uint64) *fakeWindow {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, h)
	return &fakeWindow{handle: buf}
}

func (w *fakeWindow) NativeHandle() ([]byte, error) {
	return w.handle, w.err
}

func (w *fakeWindow) SetBounds(r Rect) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.bounds = append(w.bounds, r)
	return w.setErr
}

func (w *fakeWindow) last() Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.bounds) == 0 {
		return Rect{}
	}
	return w.bounds[len(w.bounds)-1]
}

type fakeHelper struct {
	mu      sync.Mutex
	rect    Rect
	err     error
	sets    []SetRequest
	removes []string
	// onSet runs inside Set before it returns
	onSet func()
}

func (h *fakeHelper) Set(ctx context.Context, req SetRequest) (Rect, error) {
	h.mu.Lock()
	h.sets = append(h.sets, req)
	onSet := h.onSet
	h.onSet = nil
	h.mu.Unlock()
	if onSet != nil {
		onSet()
	}
	return h.rect, h.err
}

func (h *fakeHelper) RemoveNoWait(handle string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removes = append(h.removes, handle)
}

func fixedScreen(d Display) Screen {
	return ScreenFunc(func() (Display, error) { return d, nil })
}

var fullHD = Display{X: 0, Y: 0, Width: 1920, Height: 1080}

func TestApplyDockFallbackDefaults(t *testing.T) {
	c := NewCoordinator(fixedScreen(fullHD))
	w := newFakeWindow(42)
	c.Bind(w)
	assert.Equal(t, Bound, c.State())

	p, ok := c.ApplyDock(context.Background())
	require.True(t, ok)
	assert.Equal(t, SourceFallback, p.Source)
	assert.Equal(t, Rect{0, 0, 1920, 80}, w.last())
	assert.Equal(t, Docked, c.State())
}

func TestUpdateSettingsRedocks(t *testing.T) {
	c := NewCoordinator(fixedScreen(fullHD))
	w := newFakeWindow(42)
	c.Bind(w)

	pos := "right"
	size := 100
	got := c.UpdateSettings(context.Background(), Patch{Position: &pos, BarSize: &size})
	assert.Equal(t, Settings{Position: EdgeRight, BarSize: 100}, got)
	assert.Equal(t, Rect{1820, 0, 100, 1080}, w.last())

	p, ok := c.ApplyDock(context.Background())
	require.True(t, ok)
	assert.Equal(t, Rect{1820, 0, 100, 1080}, p.Rect)
}

func TestUpdateSettingsRejectsInvalid(t *testing.T) {
	c := NewCoordinator(fixedScreen(fullHD))
	c.Bind(newFakeWindow(1))

	c.UpdateSettings(context.Background(), SizePatch(0))
	assert.Equal(t, 80, c.Settings().BarSize)
	c.UpdateSettings(context.Background(), SizePatch(2000))
	assert.Equal(t, 80, c.Settings().BarSize)
	c.UpdateSettings(context.Background(), SizePatch(1999))
	assert.Equal(t, 1999, c.Settings().BarSize)
	c.UpdateSettings(context.Background(), PositionPatch("diagonal"))
	assert.Equal(t, EdgeTop, c.Settings().Position)
}

func TestApplyDockIdempotent(t *testing.T) {
	for _, helper := range []*fakeHelper{nil, {rect: Rect{0, 0, 1920, 80}}} {
		var opts []Option
		if helper != nil {
			opts = append(opts, WithHelper(helper))
		}
		c := NewCoordinator(fixedScreen(fullHD), opts...)
		w := newFakeWindow(7)
		c.Bind(w)

		first, ok := c.ApplyDock(context.Background())
		require.True(t, ok)
		second, ok := c.ApplyDock(context.Background())
		require.True(t, ok)
		assert.Equal(t, first, second)
	}
}

func TestApplyDockUsesHelperRect(t *testing.T) {
	h := &fakeHelper{rect: Rect{0, 0, 1920, 80}}
	c := NewCoordinator(fixedScreen(Display{0, 0, 2560, 1440}), WithHelper(h))
	w := newFakeWindow(0x1234)
	c.Bind(w)

	p, ok := c.ApplyDock(context.Background())
	require.True(t, ok)
	assert.Equal(t, SourceHelper, p.Source)
	assert.Equal(t, Rect{0, 0, 1920, 80}, w.last())

	require.Len(t, h.sets, 1)
	assert.Equal(t, SetRequest{Position: EdgeTop, BarSize: 80, Handle: "4660"}, h.sets[0])
}

func TestApplyDockHelperFailureFallsBack(t *testing.T) {
	h := &fakeHelper{err: errors.New("malformed output")}
	c := NewCoordinator(fixedScreen(fullHD), WithHelper(h))
	w := newFakeWindow(9)
	c.Bind(w)
	c.UpdateSettings(context.Background(), PositionPatch("bottom"))

	assert.Equal(t, FallbackRect(fullHD, EdgeBottom, 80), w.last())
}

func TestApplyDockHandleFailureSkipsHelper(t *testing.T) {
	h := &fakeHelper{rect: Rect{1, 2, 3, 4}}
	c := NewCoordinator(fixedScreen(fullHD), WithHelper(h))
	w := &fakeWindow{handle: []byte{1, 2, 3}}
	c.Bind(w)

	p, ok := c.ApplyDock(context.Background())
	require.True(t, ok)
	assert.Equal(t, SourceFallback, p.Source)
	assert.Empty(t, h.sets)
	assert.Equal(t, Rect{0, 0, 1920, 80}, w.last())
}

func TestApplyDockDisplayErrorUsesDefault(t *testing.T) {
	screen := ScreenFunc(func() (Display, error) { return Display{}, errors.New("no display") })
	c := NewCoordinator(screen)
	w := newFakeWindow(1)
	c.Bind(w)

	c.ApplyDock(context.Background())
	assert.Equal(t, FallbackRect(DefaultDisplay, EdgeTop, 80), w.last())
}

func TestApplyDockUnboundIsNoop(t *testing.T) {
	c := NewCoordinator(fixedScreen(fullHD))
	_, ok := c.ApplyDock(context.Background())
	assert.False(t, ok)

	w := newFakeWindow(1)
	c.Bind(w)
	c.Unbind()
	_, ok = c.ApplyDock(context.Background())
	assert.False(t, ok)
	assert.Empty(t, w.bounds)
	assert.Equal(t, Unbound, c.State())
}

func TestApplyDockDiscardsStaleHelperResult(t *testing.T) {
	h := &fakeHelper{rect: Rect{0, 0, 1920, 80}}
	c := NewCoordinator(fixedScreen(fullHD), WithHelper(h))
	w := newFakeWindow(5)
	c.Bind(w)

	// Settings change lands while the helper is still running.
	h.onSet = func() {
		c.mu.Lock()
		c.settings.Position = EdgeLeft
		c.gen++
		c.mu.Unlock()
	}

	_, ok := c.ApplyDock(context.Background())
	assert.False(t, ok)
	assert.Empty(t, w.bounds)
}

func TestOnAppliedListeners(t *testing.T) {
	c := NewCoordinator(fixedScreen(fullHD))
	c.Bind(newFakeWindow(1))

	var got []Placement
	c.OnApplied(func(p Placement) { got = append(got, p) })

	c.UpdateSettings(context.Background(), SizePatch(120))
	require.Len(t, got, 1)
	assert.Equal(t, Settings{Position: EdgeTop, BarSize: 120}, got[0].Settings)
	assert.Equal(t, Rect{0, 0, 1920, 120}, got[0].Rect)
}

func TestRemoveDock(t *testing.T) {
	t.Run("no window no helper", func(t *testing.T) {
		c := NewCoordinator(nil)
		assert.NotPanics(t, c.RemoveDock)
	})

	t.Run("helper without window", func(t *testing.T) {
		h := &fakeHelper{}
		c := NewCoordinator(fixedScreen(fullHD), WithHelper(h))
		assert.NotPanics(t, c.RemoveDock)
		assert.Empty(t, h.removes)
	})

	t.Run("unresolvable handle", func(t *testing.T) {
		h := &fakeHelper{}
		c := NewCoordinator(fixedScreen(fullHD), WithHelper(h))
		c.Bind(&fakeWindow{err: errors.New("destroyed")})
		assert.NotPanics(t, c.RemoveDock)
		assert.Empty(t, h.removes)
	})

	t.Run("releases reservation", func(t *testing.T) {
		h := &fakeHelper{rect: Rect{0, 0, 1920, 80}}
		c := NewCoordinator(fixedScreen(fullHD), WithHelper(h))
		w := newFakeWindow(99)
		c.Bind(w)
		c.ApplyDock(context.Background())
		bounds := len(w.bounds)

		c.RemoveDock()
		assert.Equal(t, []string{"99"}, h.removes)
		assert.Equal(t, Unbound, c.State())
		assert.Len(t, w.bounds, bounds)
	})

	t.Run("later apply is a no-op", func(t *testing.T) {
		c := NewCoordinator(fixedScreen(fullHD))
		w := newFakeWindow(7)
		c.Bind(w)
		c.ApplyDock(context.Background())
		require.Len(t, w.bounds, 1)

		c.RemoveDock()
		_, ok := c.ApplyDock(context.Background())
		assert.False(t, ok)
		left := "left"
		c.UpdateSettings(context.Background(), Patch{Position: &left})
		assert.Len(t, w.bounds, 1)
		assert.Equal(t, Unbound, c.State())
	})
}

func TestWithSettingsValidates(t *testing.T) {
	c := NewCoordinator(nil, WithSettings(Settings{Position: "left", BarSize: 9000}))
	assert.Equal(t, Settings{Position: EdgeLeft, BarSize: DefaultBarSize}, c.Settings())
}

func TestConcurrentUpdatesLastWriteWins(t *testing.T) {
	c := NewCoordinator(fixedScreen(fullHD))
	w := newFakeWindow(3)
	c.Bind(w)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.UpdateSettings(context.Background(), SizePatch(n))
		}(i)
	}
	wg.Wait()

	final := c.Settings()
	p, ok := c.ApplyDock(context.Background())
	require.True(t, ok)
	assert.Equal(t, FallbackRect(fullHD, EdgeTop, final.BarSize), p.Rect)
	assert.Equal(t, p.Rect, w.last())
}
