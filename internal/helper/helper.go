// Package helper runs the external AppBar executable that reserves a screen
// edge for the ticker window.
//
// The helper is a black box with a two-command CLI:
//
//	helper set <position> <size> <handle>   prints "x y w h"
//	helper remove <handle>
//
// Results are judged purely by the shape of stdout; the exit code is
// ignored.
package helper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"tickerbar/internal/dock"
)

// DefaultTimeout bounds a single "set" invocation
const DefaultTimeout = 2 * time.Second

var (
	ErrUnavailable     = errors.New("appbar helper unavailable")
	ErrMalformedOutput = errors.New("appbar helper returned malformed output")
	ErrTimeout         = errors.New("appbar helper timed out")
)

// Exec invokes the helper as a subprocess
type Exec struct {
	Path string
	// Timeout caps each "set" call. Zero disables the limit.
	Timeout time.Duration
}

// NewExec creates an invoker for the helper at path
func NewExec(path string, timeout time.Duration) *Exec {
	return &Exec{Path: path, Timeout: timeout}
}

// DefaultPath returns the helper location next to the running binary
func DefaultPath() string {
	name := "tickerbar-appbar"
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	exe, err := os.Executable()
	if err != nil {
		return name
	}
	return filepath.Join(filepath.Dir(exe), name)
}

// Probe checks that the helper exists and is a regular file
func (e *Exec) Probe() error {
	info, err := os.Stat(e.Path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrUnavailable, e.Path)
	}
	return nil
}

// Set registers the window on the requested edge and returns the rectangle
// the helper committed.
func (e *Exec) Set(ctx context.Context, req dock.SetRequest) (dock.Rect, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, e.Path,
		"set", string(req.Position), strconv.Itoa(req.BarSize), req.Handle)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = 500 * time.Millisecond

	if err := cmd.Start(); err != nil {
		return dock.Rect{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	waitErr := cmd.Wait()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return dock.Rect{}, fmt.Errorf("%w after %v", ErrTimeout, e.Timeout)
	}
	if ctx.Err() != nil {
		return dock.Rect{}, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return dock.Rect{}, fmt.Errorf("%w: %v", ErrUnavailable, waitErr)
	}
	if exitErr != nil {
		log.Printf("AppBar helper exited with code %d: %s",
			exitErr.ExitCode(), strings.TrimSpace(stderr.String()))
	}

	return ParseRect(stdout.String())
}

// RemoveNoWait unregisters the window. The process is reaped in the
// background and every failure is swallowed.
func (e *Exec) RemoveNoWait(handle string) {
	cmd := exec.Command(e.Path, "remove", handle)
	if err := cmd.Start(); err != nil {
		log.Printf("AppBar helper remove failed to start: %v", err)
		return
	}
	go func() {
		_ = cmd.Wait()
	}()
}

// ParseRect reads "x y w h" from helper output
func ParseRect(out string) (dock.Rect, error) {
	fields := strings.Fields(out)
	if len(fields) != 4 {
		return dock.Rect{}, fmt.Errorf("%w: want 4 fields, got %d (%q)",
			ErrMalformedOutput, len(fields), strings.TrimSpace(out))
	}
	var vals [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return dock.Rect{}, fmt.Errorf("%w: field %d %q is not an integer",
				ErrMalformedOutput, i+1, f)
		}
		vals[i] = n
	}
	return dock.Rect{X: vals[0], Y: vals[1], Width: vals[2], Height: vals[3]}, nil
}
