// Package scale resizes decoded frames onto the session canvas.
//
// Scaling happens exactly once per frame, between the decoder and the cell
// renderer: output dimensions always equal the [frame.CanvasSpec] exactly,
// whatever the source resolution. The fit policy decides how aspect-ratio
// mismatches are absorbed (letterbox, crop, or distortion).
package scale

import (
	"image"
	"math"

	"golang.org/x/image/draw"

	"go.jacobcolvin.com/badapple/frame"
)

// Scale resamples f onto a new frame of exactly spec.W x spec.H pixels.
//
// FitContain letterboxes with black, FitFill center-crops, FitStretch maps
// the source directly. When the width and height scale ratios agree to
// within one pixel the contain and fill results coincide; the non-cropping
// contain path is used.
func Scale(f *frame.Frame, spec frame.CanvasSpec) *frame.Frame {
	spec = spec.Normalize()

	if f.W == spec.W && f.H == spec.H && spec.Fit == frame.FitStretch {
		// Identity: no resampling pass, pixel-exact copy.
		return f.Clone()
	}

	dst := image.NewRGBA(image.Rect(0, 0, spec.W, spec.H))
	src := f.ToRGBA()

	draw.ApproxBiLinear.Scale(dst, targetRect(f.W, f.H, spec), src, src.Bounds(), draw.Src, nil)

	return fromRGBA(dst, spec.W, spec.H)
}

// targetRect computes where the source lands on the canvas. Rectangles may
// extend past the canvas bounds (fill mode); the draw call clips them.
func targetRect(srcW, srcH int, spec frame.CanvasSpec) image.Rectangle {
	if spec.Fit == frame.FitStretch {
		return image.Rect(0, 0, spec.W, spec.H)
	}

	scaleX := float64(spec.W) / float64(srcW)
	scaleY := float64(spec.H) / float64(srcH)

	scale := math.Min(scaleX, scaleY)
	if spec.Fit == frame.FitFill && !ratiosAgree(scaleX, scaleY, srcW, srcH) {
		scale = math.Max(scaleX, scaleY)
	}

	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))

	offX := (spec.W - w) / 2
	offY := (spec.H - h) / 2

	return image.Rect(offX, offY, offX+w, offY+h)
}

// ratiosAgree reports whether the two axis ratios differ by less than one
// pixel on both axes, in which case cropping would gain nothing.
func ratiosAgree(scaleX, scaleY float64, srcW, srcH int) bool {
	diff := math.Abs(scaleX - scaleY)

	return diff*float64(srcW) < 1 && diff*float64(srcH) < 1
}

func fromRGBA(img *image.RGBA, w, h int) *frame.Frame {
	out := frame.New(w, h)

	si, di := 0, 0
	for range w * h {
		out.Pix[di] = img.Pix[si]
		out.Pix[di+1] = img.Pix[si+1]
		out.Pix[di+2] = img.Pix[si+2]
		si += 4
		di += frame.PixelBytes
	}

	return out
}
