//go:build linux

package platform

import (
	"testing"

	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/stretchr/testify/assert"

	"tickerbar/internal/dock"
)

func TestStrutFor(t *testing.T) {
	d := dock.Display{X: 0, Y: 0, Width: 1920, Height: 1080}

	tests := []struct {
		edge dock.Edge
		want ewmh.WmStrutPartial
	}{
		{dock.EdgeTop, ewmh.WmStrutPartial{Top: 80, TopStartX: 0, TopEndX: 1919}},
		{dock.EdgeBottom, ewmh.WmStrutPartial{Bottom: 80, BottomStartX: 0, BottomEndX: 1919}},
		{dock.EdgeLeft, ewmh.WmStrutPartial{Left: 80, LeftStartY: 0, LeftEndY: 1079}},
		{dock.EdgeRight, ewmh.WmStrutPartial{Right: 80, RightStartY: 0, RightEndY: 1079}},
	}

	for _, tt := range tests {
		t.Run(string(tt.edge), func(t *testing.T) {
			r := dock.FallbackRect(d, tt.edge, 80)
			assert.Equal(t, tt.want, *strutFor(tt.edge, r, 1920, 1080))
		})
	}
}

func TestStrutForSecondaryDisplay(t *testing.T) {
	// Primary monitor to the right of a 1280 wide screen
	d := dock.Display{X: 1280, Y: 0, Width: 1920, Height: 1080}
	r := dock.FallbackRect(d, dock.EdgeTop, 40)

	sp := strutFor(dock.EdgeTop, r, 3200, 1080)
	assert.Equal(t, uint(40), sp.Top)
	assert.Equal(t, uint(1280), sp.TopStartX)
	assert.Equal(t, uint(3199), sp.TopEndX)
}

func TestKeySequence(t *testing.T) {
	seq, ok := keySequence(ModCtrl|ModAlt, VK_UP)
	assert.True(t, ok)
	assert.Equal(t, "Control-Mod1-Up", seq)

	seq, ok = keySequence(ModCtrl|ModAlt, VK_OEM_PERIOD)
	assert.True(t, ok)
	assert.Equal(t, "Control-Mod1-period", seq)

	_, ok = keySequence(ModCtrl, 0x41)
	assert.False(t, ok)
}
