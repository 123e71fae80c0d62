// Package screen owns the output terminal during playback.
//
// It switches the terminal into a dedicated playback state (raw mode,
// alternate screen, hidden cursor, wrap disabled), writes frames with cursor
// repositioning rather than full clears, and guarantees the terminal is
// restored on every exit path. Frames are bracketed in synchronized-update
// escapes so the emulator commits each one atomically, which keeps playback
// flicker-free without diffing.
//
// Resize notifications and decoded key presses are delivered on channels;
// the playback session consumes both between frames.
package screen

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// ErrTerminalIO indicates a write to the terminal failed. Fatal: the session
// restores terminal state and exits.
var ErrTerminalIO = errors.New("terminal I/O failure")

// Escape sequences used around playback. Sync begin/end implement the
// synchronized update protocol (mode 2026).
const (
	escAltScreenOn  = "\x1b[?1049h"
	escAltScreenOff = "\x1b[?1049l"
	escCursorHide   = "\x1b[?25l"
	escCursorShow   = "\x1b[?25h"
	escWrapOff      = "\x1b[?7l"
	escWrapOn       = "\x1b[?7h"
	escClear        = "\x1b[2J"
	escHome         = "\x1b[H"
	escReset        = "\x1b[0m"
	escSyncBegin    = "\x1b[?2026h"
	escSyncEnd      = "\x1b[?2026l"
)

// Grid is a terminal cell grid size.
type Grid struct {
	Cols int
	Rows int
}

// Key is a decoded playback control key.
type Key int

const (
	// KeyQuit ends the session (q, Esc, or ctrl+c on the raw stream).
	KeyQuit Key = iota
	// KeyPause toggles pause (space).
	KeyPause
)

// Terminal presents cell buffers on a real terminal.
//
// Create instances with [New]. [Terminal.Enter] and [Terminal.Leave] bracket
// a playback session; Leave is idempotent and safe to defer alongside
// signal-driven shutdown paths.
type Terminal struct {
	out io.Writer
	in  io.Reader
	fd  int

	state      *term.State
	resizes    chan Grid
	keys       chan Key
	stopResize func()

	leaveOnce sync.Once
}

// New returns a Terminal bound to stdout/stdin.
func New() *Terminal {
	return &Terminal{
		out:     os.Stdout,
		in:      os.Stdin,
		fd:      int(os.Stdout.Fd()),
		resizes: make(chan Grid, 1),
		keys:    make(chan Key, 4),
	}
}

// Grid returns the current cell grid, or a fallback 80x24 when the output
// is not a terminal.
func (t *Terminal) Grid() (cols, rows int) {
	cols, rows, err := term.GetSize(t.fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return 80, 24
	}

	return cols, rows
}

// Enter switches the terminal into playback state and starts the resize and
// key listeners. Every successful Enter must be paired with [Terminal.Leave].
func (t *Terminal) Enter() error {
	if term.IsTerminal(t.fd) {
		state, err := term.MakeRaw(t.fd)
		if err != nil {
			return fmt.Errorf("%w: entering raw mode: %w", ErrTerminalIO, err)
		}

		t.state = state
	}

	err := t.write(escAltScreenOn + escCursorHide + escWrapOff + escClear + escHome)
	if err != nil {
		t.restoreMode()

		return err
	}

	t.watchResize()
	go t.readKeys()

	return nil
}

// Present writes one encoded frame, repositioning the cursor to the top-left
// rather than clearing, inside a synchronized update.
func (t *Terminal) Present(encoded []byte) error {
	buf := make([]byte, 0, len(encoded)+len(escSyncBegin)+len(escHome)+len(escSyncEnd))
	buf = append(buf, escSyncBegin...)
	buf = append(buf, escHome...)
	buf = append(buf, encoded...)
	buf = append(buf, escSyncEnd...)

	_, err := t.out.Write(buf)
	if err != nil {
		return fmt.Errorf("%w: writing frame: %w", ErrTerminalIO, err)
	}

	return nil
}

// Leave restores the terminal: visible cursor, wrap, main screen, cooked
// mode. Runs at most once; later calls are no-ops.
func (t *Terminal) Leave() error {
	var err error

	t.leaveOnce.Do(func() {
		if t.stopResize != nil {
			t.stopResize()
		}

		err = t.write(escReset + escWrapOn + escCursorShow + escAltScreenOff)

		t.restoreMode()
	})

	return err
}

// Resizes delivers the new grid after each terminal resize. Only the most
// recent pending resize is retained.
func (t *Terminal) Resizes() <-chan Grid {
	return t.resizes
}

// Keys delivers decoded control keys read from the raw input stream.
func (t *Terminal) Keys() <-chan Key {
	return t.keys
}

func (t *Terminal) write(s string) error {
	_, err := io.WriteString(t.out, s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTerminalIO, err)
	}

	return nil
}

func (t *Terminal) restoreMode() {
	if t.state == nil {
		return
	}

	//nolint:errcheck // Nothing to do about a failed restore at exit.
	term.Restore(t.fd, t.state)
	t.state = nil
}

// watchResize forwards SIGWINCH as grid measurements. A resize arriving
// mid-frame is applied to the next frame; the channel keeps only the latest
// pending grid so a burst of resizes collapses into one.
func (t *Terminal) watchResize() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGWINCH)

	done := make(chan struct{})
	t.stopResize = func() {
		signal.Stop(ch)
		close(done)
	}

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ch:
				cols, rows := t.Grid()

				select {
				case t.resizes <- Grid{Cols: cols, Rows: rows}:
				default:
					// Replace the stale pending grid.
					select {
					case <-t.resizes:
					default:
					}

					t.resizes <- Grid{Cols: cols, Rows: rows}
				}
			}
		}
	}()
}

// readKeys decodes the raw input byte stream into control keys. Escape
// sequences other than a lone Esc are ignored.
func (t *Terminal) readKeys() {
	buf := make([]byte, 64)

	for {
		n, err := t.in.Read(buf)
		if err != nil {
			return
		}

		for _, k := range decodeKeys(buf[:n]) {
			select {
			case t.keys <- k:
			default:
			}
		}
	}
}

// decodeKeys maps raw input bytes to control keys. A lone Esc quits; Esc
// followed by more bytes is an escape sequence and is swallowed.
func decodeKeys(b []byte) []Key {
	var keys []Key

	for i := 0; i < len(b); i++ {
		switch b[i] {
		case 'q', 'Q', 0x03:
			keys = append(keys, KeyQuit)
		case ' ':
			keys = append(keys, KeyPause)
		case 0x1b:
			if i == len(b)-1 {
				keys = append(keys, KeyQuit)
			} else {
				// Swallow the rest of the escape sequence.
				return keys
			}
		}
	}

	return keys
}
