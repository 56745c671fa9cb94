package hotkeys

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerbar/internal/dock"
	"tickerbar/internal/platform"
)

// fakeFeatures records the listener callback and stop calls
type fakeFeatures struct {
	platform.PlatformFeatures
	setupErr error
	callback func(id int)
	stops    int
}

func (f *fakeFeatures) SetupHotkeyListener(cb func(id int)) error {
	if f.setupErr != nil {
		return f.setupErr
	}
	f.callback = cb
	return nil
}

func (f *fakeFeatures) StopHotkeyListener() { f.stops++ }

func newTestManager(f *fakeFeatures) *Manager {
	return &Manager{platform: f}
}

func TestDockHotkeysMapToEdges(t *testing.T) {
	f := &fakeFeatures{}
	m := newTestManager(f)

	var got []dock.Edge
	m.SetDockCallback(func(e dock.Edge) { got = append(got, e) })
	require.NoError(t, m.Start())
	require.NotNil(t, f.callback)

	f.callback(platform.HotkeyDockTop)
	f.callback(platform.HotkeyDockBottom)
	f.callback(platform.HotkeyDockLeft)
	f.callback(platform.HotkeyDockRight)
	f.callback(99)

	assert.Equal(t, []dock.Edge{dock.EdgeTop, dock.EdgeBottom, dock.EdgeLeft, dock.EdgeRight}, got)
}

func TestSettingsHotkey(t *testing.T) {
	f := &fakeFeatures{}
	m := newTestManager(f)

	opened := 0
	docked := 0
	m.SetSettingsCallback(func() { opened++ })
	m.SetDockCallback(func(dock.Edge) { docked++ })
	require.NoError(t, m.Start())

	f.callback(platform.HotkeyOpenSettings)
	assert.Equal(t, 1, opened)
	assert.Zero(t, docked)
}

func TestStartStop(t *testing.T) {
	f := &fakeFeatures{}
	m := newTestManager(f)

	require.NoError(t, m.Start())
	require.NoError(t, m.Start())
	assert.True(t, m.IsRunning())

	m.Stop()
	m.Stop()
	assert.False(t, m.IsRunning())
	assert.Equal(t, 1, f.stops)
}

func TestStartFailure(t *testing.T) {
	f := &fakeFeatures{setupErr: errors.New("no display")}
	m := newTestManager(f)

	require.Error(t, m.Start())
	assert.False(t, m.IsRunning())
}
