// Package render converts pixel frames into terminal cell buffers.
//
// Two modes exist. RGB mode folds every two vertical pixels into one cell
// drawn as a lower half of a "▀" glyph: the top pixel becomes the foreground
// color and the bottom pixel the background color, doubling effective
// vertical resolution. ASCII mode maps each pixel's luminance onto a fixed
// glyph ramp and emits no color escapes at all, for terminals without
// truecolor support.
//
// Rendering is pure: a [CellBuffer] is returned and the caller decides when
// and where to write it. [CellBuffer.AppendANSI] produces the escape-coded
// byte form.
package render

import (
	"strconv"

	"go.jacobcolvin.com/badapple/frame"
)

// HalfBlock is the glyph carrying two pixels per cell in RGB mode.
const HalfBlock = '▀'

// Ramp is the ASCII luminance ramp, darkest to brightest.
const Ramp = " .:-=+*#%@"

// Cell is one terminal cell: a glyph plus foreground and background colors.
// ASCII cells carry only the glyph.
type Cell struct {
	Ch rune
	Fg [3]uint8
	Bg [3]uint8
}

// CellBuffer is the cell grid for one presented frame. It is rebuilt in full
// every frame; diffing against the previous frame is a presenter concern,
// not a renderer one.
type CellBuffer struct {
	Cells []Cell
	Cols  int
	Rows  int
	Mode  frame.RenderMode
}

// At returns the cell at (col, row).
func (b *CellBuffer) At(col, row int) Cell {
	return b.Cells[row*b.Cols+col]
}

// Render converts a frame into cells under the given mode.
//
// In RGB mode an odd pixel height drops the final pixel row: half-block
// pairing needs two rows per cell, and a lone row has no bottom half. This
// is lossy but well-defined, never an error.
func Render(f *frame.Frame, mode frame.RenderMode) *CellBuffer {
	if mode == frame.ModeASCII {
		return renderASCII(f)
	}

	return renderHalfBlock(f)
}

func renderHalfBlock(f *frame.Frame) *CellBuffer {
	rows := f.H / 2
	buf := &CellBuffer{
		Cells: make([]Cell, f.W*rows),
		Cols:  f.W,
		Rows:  rows,
		Mode:  frame.ModeRGB,
	}

	i := 0

	for row := range rows {
		topY := row * 2

		for x := range f.W {
			tr, tg, tb := f.At(x, topY)
			br, bg, bb := f.At(x, topY+1)

			buf.Cells[i] = Cell{
				Ch: HalfBlock,
				Fg: [3]uint8{tr, tg, tb},
				Bg: [3]uint8{br, bg, bb},
			}
			i++
		}
	}

	return buf
}

func renderASCII(f *frame.Frame) *CellBuffer {
	buf := &CellBuffer{
		Cells: make([]Cell, f.W*f.H),
		Cols:  f.W,
		Rows:  f.H,
		Mode:  frame.ModeASCII,
	}

	i := 0

	for y := range f.H {
		for x := range f.W {
			buf.Cells[i] = Cell{Ch: RampGlyph(f.Luminance(x, y))}
			i++
		}
	}

	return buf
}

// RampGlyph maps a luminance value onto the ramp. The mapping is monotonic:
// brighter input never selects a darker glyph.
func RampGlyph(lum uint8) rune {
	idx := int(lum) * len(Ramp) / 256

	return rune(Ramp[idx])
}

// AppendANSI appends the escape-coded form of the buffer to dst and returns
// the extended slice. Rows are separated by CRLF (the presenter runs the
// terminal in raw mode). Colors are emitted only when they change from the
// previous cell, and every row ends with a full SGR reset so letterbox
// padding never bleeds.
func (b *CellBuffer) AppendANSI(dst []byte) []byte {
	if b.Mode == frame.ModeASCII {
		return b.appendPlain(dst)
	}

	for row := range b.Rows {
		var lastFg, lastBg [3]uint8

		havePrev := false

		for col := range b.Cols {
			c := b.At(col, row)

			if !havePrev || c.Fg != lastFg {
				dst = appendSGR(dst, "38", c.Fg)
				lastFg = c.Fg
			}

			if !havePrev || c.Bg != lastBg {
				dst = appendSGR(dst, "48", c.Bg)
				lastBg = c.Bg
			}

			havePrev = true
			dst = append(dst, string(c.Ch)...)
		}

		dst = append(dst, "\x1b[0m\r\n"...)
	}

	return dst
}

func (b *CellBuffer) appendPlain(dst []byte) []byte {
	for row := range b.Rows {
		for col := range b.Cols {
			dst = append(dst, byte(b.At(col, row).Ch))
		}

		dst = append(dst, "\r\n"...)
	}

	return dst
}

// appendSGR appends a truecolor SGR sequence: ESC[<plane>;2;R;G;Bm.
func appendSGR(dst []byte, plane string, rgb [3]uint8) []byte {
	dst = append(dst, "\x1b["...)
	dst = append(dst, plane...)
	dst = append(dst, ";2;"...)
	dst = strconv.AppendUint(dst, uint64(rgb[0]), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(rgb[1]), 10)
	dst = append(dst, ';')
	dst = strconv.AppendUint(dst, uint64(rgb[2]), 10)
	dst = append(dst, 'm')

	return dst
}
