// Package platform answers the launcher's one-shot geometry queries.
//
// The launcher computes render dimensions before starting playback; it needs
// the screen pixel size, the terminal's cell grid, and the pixel size of one
// character cell. All of it comes from the terminal driver (TIOCGWINSZ),
// which reports both the cell grid and the window pixel size on terminals
// that support it. Terminals that report zero pixels get a conventional
// 8x16 cell estimate, which is what the launcher's arithmetic assumed
// historically.
//
// Nothing here is used by the steady-state render loop.
package platform

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// ErrNoTerminal indicates the probe could not query a terminal at all.
var ErrNoTerminal = errors.New("no terminal to probe")

// Fallback cell pixel size for terminals that do not report window pixels.
const (
	fallbackCharWidth  = 8
	fallbackCharHeight = 16
)

// Report is the `detect` query result.
type Report struct {
	ScreenWidth    int `json:"screen_width"`
	ScreenHeight   int `json:"screen_height"`
	TerminalWidth  int `json:"terminal_width"`
	TerminalHeight int `json:"terminal_height"`
	CharWidth      int `json:"char_width"`
	CharHeight     int `json:"char_height"`
}

// Size is the `terminal-size` query result. Columns and Rows carry the
// usable grid; the raw values are the driver's unadjusted report and act as
// fallback keys for callers that distrust the primary ones.
type Size struct {
	Columns    int `json:"columns"`
	Rows       int `json:"rows"`
	RawColumns int `json:"raw_columns"`
	RawRows    int `json:"raw_rows"`
}

// Detect probes the terminal attached to stdout.
func Detect() (Report, error) {
	ws, err := winsize()
	if err != nil {
		return Report{}, err
	}

	return reportFrom(int(ws.Col), int(ws.Row), int(ws.Xpixel), int(ws.Ypixel)), nil
}

// TerminalSize reports the current cell grid of the terminal on stdout.
func TerminalSize() (Size, error) {
	ws, err := winsize()
	if err != nil {
		return Size{}, err
	}

	size := Size{
		RawColumns: int(ws.Col),
		RawRows:    int(ws.Row),
	}

	// Prefer the portable query for the primary keys; it agrees with the
	// ioctl on every sane terminal but survives odd ttys.
	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 || rows <= 0 {
		cols, rows = size.RawColumns, size.RawRows
	}

	size.Columns = cols
	size.Rows = rows

	return size, nil
}

func winsize() (*unix.Winsize, error) {
	for _, f := range []*os.File{os.Stdout, os.Stdin, os.Stderr} {
		ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
		if err == nil && ws.Col > 0 && ws.Row > 0 {
			return ws, nil
		}
	}

	return nil, fmt.Errorf("%w: TIOCGWINSZ failed on stdout, stdin, and stderr", ErrNoTerminal)
}

// reportFrom derives the detect report from one winsize measurement.
// Zero pixel dimensions fall back to the conventional cell estimate.
func reportFrom(cols, rows, xpx, ypx int) Report {
	charW, charH := fallbackCharWidth, fallbackCharHeight

	if xpx > 0 && cols > 0 {
		charW = xpx / cols
	}

	if ypx > 0 && rows > 0 {
		charH = ypx / rows
	}

	if xpx == 0 {
		xpx = cols * charW
	}

	if ypx == 0 {
		ypx = rows * charH
	}

	return Report{
		ScreenWidth:    xpx,
		ScreenHeight:   ypx,
		TerminalWidth:  cols,
		TerminalHeight: rows,
		CharWidth:      charW,
		CharHeight:     charH,
	}
}
