package platform

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerbar/internal/dock"
)

type handleWindow struct {
	h WindowHandle
}

func (w handleWindow) NativeHandle() ([]byte, error) { return EncodeHandle(w.h), nil }
func (w handleWindow) SetBounds(dock.Rect) error { return nil }

func TestEncodeHandleRoundTrip(t *testing.T) {
	for _, h := range []WindowHandle{0, 1, 0x1a2b3c, 0x7fffffff} {
		buf := EncodeHandle(h)
		assert.Len(t, buf, strconv.IntSize/8)

		got, err := dock.ResolveHandle(handleWindow{h: h})
		require.NoError(t, err)
		assert.Equal(t, strconv.FormatUint(uint64(h), 10), got)
	}
}

func TestHotkeyIDsUnique(t *testing.T) {
	seen := map[int]bool{}
	for _, hk := range Hotkeys {
		assert.False(t, seen[hk.ID], "duplicate hotkey id %d", hk.ID)
		seen[hk.ID] = true
	}
}
