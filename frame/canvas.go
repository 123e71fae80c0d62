package frame

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownFitMode indicates an unrecognized fit mode string.
	ErrUnknownFitMode = errors.New("unknown fit mode")
	// ErrUnknownRenderMode indicates an unrecognized render mode string.
	ErrUnknownRenderMode = errors.New("unknown render mode")
)

// FitMode selects how a source frame maps onto a differently-shaped canvas.
type FitMode string

const (
	// FitContain preserves aspect ratio and letterboxes the shorter axis.
	FitContain FitMode = "fit"
	// FitFill preserves aspect ratio and center-crops the longer axis.
	FitFill FitMode = "fill"
	// FitStretch ignores aspect ratio and resizes directly.
	FitStretch FitMode = "stretch"
)

// ParseFitMode parses a fit mode string.
func ParseFitMode(s string) (FitMode, error) {
	switch FitMode(strings.ToLower(s)) {
	case FitContain:
		return FitContain, nil
	case FitFill:
		return FitFill, nil
	case FitStretch:
		return FitStretch, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFitMode, s)
}

// RenderMode selects the pixel-to-cell conversion.
type RenderMode string

const (
	// ModeRGB renders two vertical pixels per cell with truecolor
	// half-blocks.
	ModeRGB RenderMode = "rgb"
	// ModeASCII renders one pixel per cell via a luminance ramp, with no
	// color escapes.
	ModeASCII RenderMode = "ascii"
)

// ParseRenderMode parses a render mode string.
func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(strings.ToLower(s)) {
	case ModeRGB:
		return ModeRGB, nil
	case ModeASCII:
		return ModeASCII, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownRenderMode, s)
}

// CanvasSpec is the target pixel canvas for a session. Immutable once built;
// resize events construct a replacement rather than mutating in place.
type CanvasSpec struct {
	W    int
	H    int
	Fit  FitMode
	Mode RenderMode
}

// Normalize rounds both dimensions down to even values and enforces a
// minimum drawable canvas. Dimensions never round upward past the declared
// bounds.
func (c CanvasSpec) Normalize() CanvasSpec {
	c.W -= c.W % 2
	c.H -= c.H % 2

	if c.W < 2 {
		c.W = 2
	}

	if c.H < 2 {
		c.H = 2
	}

	return c
}

// Grid returns the terminal cell grid this canvas occupies: half-block
// rendering folds two pixel rows into one cell row, ascii maps 1:1.
func (c CanvasSpec) Grid() (cols, rows int) {
	if c.Mode == ModeRGB {
		return c.W, c.H / 2
	}

	return c.W, c.H
}

// FromGrid builds a normalized canvas covering a cols x rows cell grid with
// the given modes.
func FromGrid(cols, rows int, fit FitMode, mode RenderMode) CanvasSpec {
	h := rows
	if mode == ModeRGB {
		h = rows * 2
	}

	return CanvasSpec{W: cols, H: h, Fit: fit, Mode: mode}.Normalize()
}

// SessionConfig carries the parsed playback parameters. Built once at process
// start and passed down to every component; nothing reads ambient globals.
type SessionConfig struct {
	VideoPath string
	AudioPath string
	Canvas    CanvasSpec
	// FPS overrides the stream's native frame rate when > 0.
	FPS float64
}
