package ui

import (
	"image/color"
	"math"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
)

// Ticker color palette
var (
	colorBg        = color.RGBA{32, 33, 35, 240}    // Bar background
	colorText      = color.RGBA{237, 237, 237, 255} // Ticker text
	colorSeparator = color.RGBA{55, 57, 61, 255}    // Divider line
)

const (
	marqueeTextSize = 16
	marqueeGap      = 48 // blank space between the end and the next pass
)

// Marquee scrolls a single line of text across its area. Horizontal bars
// scroll right to left, vertical bars scroll bottom to top.
type Marquee struct {
	widget.BaseWidget

	mu       sync.RWMutex
	text     string
	speed    float32 // pixels per second
	vertical bool

	label *canvas.Text
	anim  *fyne.Animation
	start time.Time
}

// NewMarquee creates a marquee scrolling text at speed pixels per second
func NewMarquee(text string, speed float64) *Marquee {
	m := &Marquee{text: text, speed: float32(speed)}
	m.ExtendBaseWidget(m)
	return m
}

// SetText replaces the scrolling text
func (m *Marquee) SetText(text string) {
	m.mu.Lock()
	m.text = text
	m.mu.Unlock()
	m.Refresh()
}

// SetVertical switches the scroll direction
func (m *Marquee) SetVertical(vertical bool) {
	m.mu.Lock()
	m.vertical = vertical
	m.mu.Unlock()
	m.Refresh()
}

// Start begins scrolling. It must run on the UI goroutine.
func (m *Marquee) Start() {
	if m.anim != nil {
		return
	}
	m.start = time.Now()
	m.anim = fyne.NewAnimation(time.Second, func(float32) {
		m.step()
	})
	m.anim.Curve = fyne.AnimationLinear
	m.anim.RepeatCount = fyne.AnimationRepeatForever
	m.anim.Start()
}

// Stop halts scrolling
func (m *Marquee) Stop() {
	if m.anim != nil {
		m.anim.Stop()
		m.anim = nil
	}
}

func (m *Marquee) step() {
	if m.label == nil {
		return
	}
	m.mu.RLock()
	speed, vertical := m.speed, m.vertical
	m.mu.RUnlock()

	size := m.Size()
	text := m.label.MinSize()
	elapsed := time.Since(m.start)
	if vertical {
		y := marqueeOffset(elapsed, speed, text.Height, size.Height)
		m.label.Move(fyne.NewPos((size.Width-text.Width)/2, y))
	} else {
		x := marqueeOffset(elapsed, speed, text.Width, size.Width)
		m.label.Move(fyne.NewPos(x, (size.Height-text.Height)/2))
	}
}

// marqueeOffset returns the leading edge of the text after elapsed time.
// The text enters at view and leaves once it is fully past zero, then the
// cycle repeats after marqueeGap.
func marqueeOffset(elapsed time.Duration, speed, textLen, view float32) float32 {
	cycle := float64(textLen + view + marqueeGap)
	if speed <= 0 || cycle <= 0 {
		return 0
	}
	travelled := math.Mod(elapsed.Seconds()*float64(speed), cycle)
	return view - float32(travelled)
}

func (m *Marquee) CreateRenderer() fyne.WidgetRenderer {
	m.mu.RLock()
	text := m.text
	m.mu.RUnlock()

	m.label = canvas.NewText(text, colorText)
	m.label.TextSize = marqueeTextSize
	m.label.TextStyle = fyne.TextStyle{Bold: true}

	return &marqueeRenderer{m: m}
}

type marqueeRenderer struct {
	m *Marquee
}

func (r *marqueeRenderer) Layout(size fyne.Size) {
	r.m.label.Resize(r.m.label.MinSize())
	r.m.step()
}

func (r *marqueeRenderer) MinSize() fyne.Size {
	return fyne.NewSize(marqueeTextSize, marqueeTextSize)
}

func (r *marqueeRenderer) Refresh() {
	r.m.mu.RLock()
	r.m.label.Text = r.m.text
	r.m.mu.RUnlock()
	r.m.label.Resize(r.m.label.MinSize())
	r.m.label.Refresh()
}

func (r *marqueeRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.m.label}
}

func (r *marqueeRenderer) Destroy() {
	r.m.Stop()
}

// SectionHeader creates a bold section header like "Dock"
func SectionHeader(text string) *canvas.Text {
	t := canvas.NewText(text, colorText)
	t.TextSize = 15
	t.TextStyle = fyne.TextStyle{Bold: true}
	return t
}

// Separator creates a thin horizontal divider line
func Separator() *canvas.Rectangle {
	sep := canvas.NewRectangle(colorSeparator)
	sep.SetMinSize(fyne.NewSize(0, 1))
	return sep
}

// fixedWidthLayout forces children to a fixed width
type fixedWidthLayout struct {
	width float32
}

func (l *fixedWidthLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	h := float32(0)
	for _, o := range objects {
		h = fyne.Max(h, o.MinSize().Height)
	}
	return fyne.NewSize(l.width, h)
}

func (l *fixedWidthLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Resize(fyne.NewSize(l.width, size.Height))
		o.Move(fyne.NewPos(0, 0))
	}
}
