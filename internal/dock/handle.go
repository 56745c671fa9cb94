package dock

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrNoWindow       = errors.New("no window bound")
	ErrHandleEncoding = errors.New("unsupported native handle encoding")
)

// Window is the part of the GUI window the coordinator needs
type Window interface {
	// NativeHandle returns the OS window identifier as little-endian bytes
	// sized to the platform pointer (8 or 4 bytes).
	NativeHandle() ([]byte, error)
	// SetBounds moves and resizes the window
	SetBounds(r Rect) error
}

// ResolveHandle renders the native handle of w as a decimal string suitable
// for a process argument.
func ResolveHandle(w Window) (string, error) {
	if w == nil {
		return "", ErrNoWindow
	}
	buf, err := w.NativeHandle()
	if err != nil {
		return "", fmt.Errorf("read native handle: %w", err)
	}
	switch len(buf) {
	case 8:
		return strconv.FormatUint(binary.LittleEndian.Uint64(buf), 10), nil
	case 4:
		return strconv.FormatUint(uint64(binary.LittleEndian.Uint32(buf)), 10), nil
	default:
		return "", fmt.Errorf("%w: %d bytes", ErrHandleEncoding, len(buf))
	}
}
