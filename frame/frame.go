package frame

import (
	"errors"
	"fmt"
	"image"
)

// PixelBytes is the byte width of one RGB24 pixel.
const PixelBytes = 3

// ErrPixelCount indicates a pixel buffer whose length does not match the
// declared dimensions.
var ErrPixelCount = errors.New("pixel count mismatch")

// Frame is a single decoded video frame: RGB triples in row-major order.
//
// Ownership moves down the pipeline with the value; a stage that needs to
// retain pixels beyond one pass must [Frame.Clone].
type Frame struct {
	Pix []byte
	W   int
	H   int
}

// New returns a zeroed (black) frame of the given dimensions.
func New(w, h int) *Frame {
	return &Frame{
		Pix: make([]byte, w*h*PixelBytes),
		W:   w,
		H:   h,
	}
}

// FromPix wraps a raw RGB24 buffer without copying.
func FromPix(pix []byte, w, h int) (*Frame, error) {
	if len(pix) != w*h*PixelBytes {
		return nil, fmt.Errorf("%w: got %d bytes for %dx%d", ErrPixelCount, len(pix), w, h)
	}

	return &Frame{Pix: pix, W: w, H: h}, nil
}

// FromImage copies an [image.Image] into a new frame, dropping alpha.
func FromImage(img image.Image) *Frame {
	b := img.Bounds()
	f := New(b.Dx(), b.Dy())

	i := 0

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			f.Pix[i] = uint8(r >> 8)
			f.Pix[i+1] = uint8(g >> 8)
			f.Pix[i+2] = uint8(bl >> 8)
			i += PixelBytes
		}
	}

	return f
}

// At returns the RGB components of the pixel at (x, y).
func (f *Frame) At(x, y int) (r, g, b uint8) {
	i := (y*f.W + x) * PixelBytes

	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Set writes the pixel at (x, y).
func (f *Frame) Set(x, y int, r, g, b uint8) {
	i := (y*f.W + x) * PixelBytes
	f.Pix[i] = r
	f.Pix[i+1] = g
	f.Pix[i+2] = b
}

// Luminance returns the Rec. 601 luma of the pixel at (x, y).
func (f *Frame) Luminance(x, y int) uint8 {
	r, g, b := f.At(x, y)

	return uint8(0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b))
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)

	return &Frame{Pix: pix, W: f.W, H: f.H}
}

// ToRGBA converts the frame to an [image.RGBA] for use with the x/image
// drawing routines.
func (f *Frame) ToRGBA() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, f.W, f.H))

	si, di := 0, 0
	for range f.W * f.H {
		dst.Pix[di] = f.Pix[si]
		dst.Pix[di+1] = f.Pix[si+1]
		dst.Pix[di+2] = f.Pix[si+2]
		dst.Pix[di+3] = 0xff
		si += PixelBytes
		di += 4
	}

	return dst
}
