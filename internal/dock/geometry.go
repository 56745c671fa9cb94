package dock

// Edge is the screen edge the bar is docked to
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
	EdgeLeft   Edge = "left"
	EdgeRight  Edge = "right"
)

// Edges lists every valid edge in display order
var Edges = []Edge{EdgeTop, EdgeBottom, EdgeLeft, EdgeRight}

// Valid reports whether e is one of the four known edges
func (e Edge) Valid() bool {
	switch e {
	case EdgeTop, EdgeBottom, EdgeLeft, EdgeRight:
		return true
	}
	return false
}

// Horizontal reports whether a bar on this edge runs along the screen width
func (e Edge) Horizontal() bool {
	return e != EdgeLeft && e != EdgeRight
}

// Rect is a window rectangle in screen pixels
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Display is the bounds of the reference monitor
type Display struct {
	X      int
	Y      int
	Width  int
	Height int
}

// DefaultDisplay is used when the platform cannot report the primary monitor
var DefaultDisplay = Display{X: 0, Y: 0, Width: 1920, Height: 1080}

// Contains reports whether r lies fully inside d
func (d Display) Contains(r Rect) bool {
	return r.X >= d.X && r.Y >= d.Y &&
		r.X+r.Width <= d.X+d.Width &&
		r.Y+r.Height <= d.Y+d.Height
}

// FallbackRect computes the strip a bar of the given thickness occupies on
// edge pos of display d. Unknown edges are treated as top.
func FallbackRect(d Display, pos Edge, size int) Rect {
	switch pos {
	case EdgeBottom:
		return Rect{X: d.X, Y: d.Y + d.Height - size, Width: d.Width, Height: size}
	case EdgeLeft:
		return Rect{X: d.X, Y: d.Y, Width: size, Height: d.Height}
	case EdgeRight:
		return Rect{X: d.X + d.Width - size, Y: d.Y, Width: size, Height: d.Height}
	default:
		return Rect{X: d.X, Y: d.Y, Width: d.Width, Height: size}
	}
}
