package scale_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/badapple/frame"
	"go.jacobcolvin.com/badapple/scale"
)

func solid(w, h int, r, g, b uint8) *frame.Frame {
	f := frame.New(w, h)
	for y := range h {
		for x := range w {
			f.Set(x, y, r, g, b)
		}
	}

	return f
}

func TestScaleOutputDimensions(t *testing.T) {
	t.Parallel()

	specs := []frame.CanvasSpec{
		{W: 10, H: 10, Fit: frame.FitContain, Mode: frame.ModeASCII},
		{W: 80, H: 48, Fit: frame.FitFill, Mode: frame.ModeRGB},
		{W: 2, H: 2, Fit: frame.FitStretch, Mode: frame.ModeRGB},
		{W: 264, H: 130, Fit: frame.FitContain, Mode: frame.ModeRGB},
	}

	inputs := map[string]*frame.Frame{
		"tiny":            solid(1, 1, 255, 255, 255),
		"wide":            solid(640, 360, 8, 8, 8),
		"tall":            solid(360, 640, 8, 8, 8),
		"matches canvas":  solid(80, 48, 8, 8, 8),
		"larger than out": solid(1920, 1080, 8, 8, 8),
	}

	for _, spec := range specs {
		for name, in := range inputs {
			got := scale.Scale(in, spec)
			assert.Equal(t, spec.W, got.W, "%s onto %+v", name, spec)
			assert.Equal(t, spec.H, got.H, "%s onto %+v", name, spec)
		}
	}
}

func TestScaleStretchIdentity(t *testing.T) {
	t.Parallel()

	in := frame.New(8, 6)
	for y := range 6 {
		for x := range 8 {
			in.Set(x, y, uint8(x*31), uint8(y*41), uint8(x^y))
		}
	}

	out := scale.Scale(in, frame.CanvasSpec{W: 8, H: 6, Fit: frame.FitStretch})

	require.Equal(t, in.W, out.W)
	require.Equal(t, in.H, out.H)
	assert.Equal(t, in.Pix, out.Pix)

	// Identity must copy, not alias.
	out.Set(0, 0, 9, 9, 9)
	r, _, _ := in.At(0, 0)
	assert.Equal(t, uint8(0), r)
}

func TestScaleContainLetterboxes(t *testing.T) {
	t.Parallel()

	// A 2:1 white source onto a square canvas leaves black bands above and
	// below.
	in := solid(100, 50, 255, 255, 255)
	out := scale.Scale(in, frame.CanvasSpec{W: 40, H: 40, Fit: frame.FitContain})

	r, g, b := out.At(20, 20)
	assert.Equal(t, [3]uint8{255, 255, 255}, [3]uint8{r, g, b}, "center is source")

	r, g, b = out.At(20, 0)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b}, "top band is letterbox")

	r, g, b = out.At(20, 39)
	assert.Equal(t, [3]uint8{0, 0, 0}, [3]uint8{r, g, b}, "bottom band is letterbox")
}

func TestScaleFillCrops(t *testing.T) {
	t.Parallel()

	// Same shape mismatch in fill mode: the canvas is covered entirely, no
	// letterbox anywhere.
	in := solid(100, 50, 200, 10, 10)
	out := scale.Scale(in, frame.CanvasSpec{W: 40, H: 40, Fit: frame.FitFill})

	for _, y := range []int{0, 20, 39} {
		r, g, b := out.At(20, y)
		assert.Equal(t, [3]uint8{200, 10, 10}, [3]uint8{r, g, b}, "row %d", y)
	}
}

func TestScaleFillNearEqualRatiosPrefersContain(t *testing.T) {
	t.Parallel()

	// Ratios within a pixel of each other: fill takes the non-cropping
	// path, so the full canvas still shows the whole source.
	in := solid(400, 401, 50, 60, 70)
	out := scale.Scale(in, frame.CanvasSpec{W: 100, H: 100, Fit: frame.FitFill})

	require.Equal(t, 100, out.W)
	require.Equal(t, 100, out.H)

	r, g, b := out.At(50, 50)
	assert.Equal(t, [3]uint8{50, 60, 70}, [3]uint8{r, g, b})
}

func TestScaleNormalizesOddCanvas(t *testing.T) {
	t.Parallel()

	out := scale.Scale(solid(16, 16, 1, 1, 1), frame.CanvasSpec{W: 11, H: 11, Fit: frame.FitStretch})
	assert.Equal(t, 10, out.W)
	assert.Equal(t, 10, out.H)
}
