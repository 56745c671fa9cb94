//go:build darwin

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseResolution(t *testing.T) {
	out := `Graphics/Displays:

    Apple M1:

      Displays:
        Color LCD:
          Display Type: Built-In Retina LCD
          Resolution: 2560 x 1600 Retina
          Main Display: Yes
`
	w, h, ok := parseResolution(out)
	assert.True(t, ok)
	assert.Equal(t, 2560, w)
	assert.Equal(t, 1600, h)

	_, _, ok = parseResolution("Displays:\n  Resolution: unknown\n")
	assert.False(t, ok)
}

func TestMoveResizeScriptTargetsOwnWindow(t *testing.T) {
	script := moveResizeScript(4242, BarWindowTitle, 0, 1000, 1920, 80)

	assert.Contains(t, script, "first process whose unix id is 4242")
	assert.Contains(t, script, `set position of window "TickerBar" to {0, 1000}`)
	assert.Contains(t, script, `set size of window "TickerBar" to {1920, 80}`)
	assert.Contains(t, script, `if not (exists window "TickerBar") then error`)
	assert.NotContains(t, script, "frontmost")
	assert.NotContains(t, script, "window 1")
}

func TestAppleScriptString(t *testing.T) {
	assert.Equal(t, `"TickerBar"`, appleScriptString("TickerBar"))
	assert.Equal(t, `"a \"b\" \\ c"`, appleScriptString(`a "b" \ c`))
}
