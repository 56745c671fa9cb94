package dock

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultBarSize is the thickness used until the user picks another
	DefaultBarSize = 80
	// MaxBarSize is the exclusive upper bound for BarSize
	MaxBarSize = 2000
)

var (
	ErrInvalidEdge    = errors.New("invalid dock edge")
	ErrInvalidBarSize = errors.New("invalid bar size")
)

// Settings is the live dock configuration owned by a Coordinator
type Settings struct {
	Position Edge `json:"position"`
	BarSize  int  `json:"barSize"`
}

// DefaultSettings returns the settings a new process starts with
func DefaultSettings() Settings {
	return Settings{Position: EdgeTop, BarSize: DefaultBarSize}
}

// Patch is a partial settings update. Nil fields are left alone.
type Patch struct {
	Position *string
	BarSize  *int
}

// PositionPatch builds a patch that only changes the edge
func PositionPatch(pos string) Patch {
	return Patch{Position: &pos}
}

// SizePatch builds a patch that only changes the thickness
func SizePatch(size int) Patch {
	return Patch{BarSize: &size}
}

// ParseEdge parses a case-insensitive edge name
func ParseEdge(s string) (Edge, error) {
	e := Edge(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidEdge, s)
	}
	return e, nil
}

// ValidBarSize reports whether n is inside the open range (0, MaxBarSize)
func ValidBarSize(n int) bool {
	return n > 0 && n < MaxBarSize
}

// ParseBarSize reads the leading integer of s, so "120px" yields 120 and
// "12.9" yields 12. The result is range checked.
func ParseBarSize(s string) (int, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBarSize, s)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidBarSize, s)
	}
	if !ValidBarSize(n) {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidBarSize, n)
	}
	return n, nil
}

// Merge applies p to s field by field. Invalid fields are dropped and
// reported; valid ones still apply.
func (s Settings) Merge(p Patch) (Settings, []error) {
	var rejected []error
	if p.Position != nil {
		if e, err := ParseEdge(*p.Position); err != nil {
			rejected = append(rejected, err)
		} else {
			s.Position = e
		}
	}
	if p.BarSize != nil {
		if ValidBarSize(*p.BarSize) {
			s.BarSize = *p.BarSize
		} else {
			rejected = append(rejected, fmt.Errorf("%w: %d out of range", ErrInvalidBarSize, *p.BarSize))
		}
	}
	return s, rejected
}

func (s Settings) String() string {
	return fmt.Sprintf("%s/%d", s.Position, s.BarSize)
}
