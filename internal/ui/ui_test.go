package ui

import (
	"context"
	"sync"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerbar/internal/bridge"
	"tickerbar/internal/dock"
)

func TestMarqueeOffset(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		speed   float32
		want    float32
	}{
		{"starts at the far edge", 0, 60, 200},
		{"moves left at speed", time.Second, 60, 140},
		{"passes zero", 5 * time.Second, 60, -100},
		// 408px travelled is one 348px cycle plus 60px
		{"wraps after a cycle", 6800 * time.Millisecond, 60, 140},
		{"zero speed parks", 3 * time.Second, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := marqueeOffset(tt.elapsed, tt.speed, 100, 200)
			assert.InDelta(t, tt.want, got, 0.01)
		})
	}
}

func TestEdgeOptionsFollowEdges(t *testing.T) {
	assert.Equal(t, []string{"top", "bottom", "left", "right"}, edgeOptions())
}

func TestPlacementLabel(t *testing.T) {
	p := dock.Placement{
		Settings: dock.Settings{Position: dock.EdgeRight, BarSize: 100},
		Rect:     dock.Rect{X: 1820, Y: 0, Width: 100, Height: 1080},
		Source:   dock.SourceFallback,
	}
	assert.Equal(t, "Right 100 px (fallback) at 1820,0", placementLabel(p))
	assert.Equal(t, "", edgeTitle(""))
}

// fakeCoordinator records settings patches
type fakeCoordinator struct {
	mu      sync.Mutex
	patches []dock.Patch
	current dock.Settings
}

func (f *fakeCoordinator) UpdateSettings(_ context.Context, p dock.Patch) dock.Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, p)
	f.current, _ = f.current.Merge(p)
	return f.current
}

func (f *fakeCoordinator) OnApplied(func(dock.Placement)) {}

func (f *fakeCoordinator) calls() []dock.Patch {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]dock.Patch(nil), f.patches...)
}

func newSettingsFixture(t *testing.T) (*SettingsWindow, *fakeCoordinator) {
	t.Helper()
	a := test.NewTempApp(t)
	coord := &fakeCoordinator{current: dock.DefaultSettings()}
	b := bridge.New(context.Background(), coord)
	s := NewSettingsWindow(a, b, func() dock.Settings {
		coord.mu.Lock()
		defer coord.mu.Unlock()
		return coord.current
	})
	return s, coord
}

func TestSettingsWindowSingleInstance(t *testing.T) {
	s, _ := newSettingsFixture(t)

	s.Show()
	first := s.window
	s.Show()

	assert.True(t, s.IsOpen())
	assert.Same(t, first, s.window)
	assert.Equal(t, "top", s.edge.Selected)
	assert.Equal(t, "80", s.size.Text)

	first.Close()
	assert.False(t, s.IsOpen())
}

func TestSettingsWindowSave(t *testing.T) {
	s, coord := newSettingsFixture(t)
	s.Show()

	s.edge.SetSelected("right")
	s.size.SetText("100")
	test.Tap(s.saveBtn)

	require.Eventually(t, func() bool { return len(coord.calls()) == 1 }, time.Second, 10*time.Millisecond)
	p := coord.calls()[0]
	require.NotNil(t, p.Position)
	require.NotNil(t, p.BarSize)
	assert.Equal(t, "right", *p.Position)
	assert.Equal(t, 100, *p.BarSize)
}

func TestSettingsWindowRejectsBadSize(t *testing.T) {
	s, coord := newSettingsFixture(t)
	s.Show()

	s.size.SetText("abc")
	test.Tap(s.saveBtn)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, coord.calls())
}
