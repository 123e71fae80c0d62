package play

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"go.jacobcolvin.com/badapple/frame"
)

// Config validation errors.
var (
	ErrMissingVideo = errors.New("video path is required")
	ErrBadCanvas    = errors.New("canvas dimensions must be positive")
	ErrBadFPS       = errors.New("fps must be positive")
)

// Flags holds CLI flag names for playback configuration, allowing callers to
// customize flag names while keeping sensible defaults via [NewConfig].
type Flags struct {
	Video  string
	Audio  string
	Width  string
	Height string
	Mode   string
	FPS    string
	Fill   string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		Flags: f,
		Mode:  string(frame.ModeRGB),
	}
}

// Config holds playback configuration for CLI applications.
//
// Create instances with [NewConfig], register CLI flags with
// [Config.RegisterFlags], and build the validated session parameters with
// [Config.SessionConfig].
type Config struct {
	Flags Flags

	// Video is the input video path. Required.
	Video string
	// Audio is an optional audio track path.
	Audio string
	// Width and Height are the target canvas in pixels.
	Width  int
	Height int
	// Mode selects rgb half-block or ascii rendering.
	Mode string
	// FPS overrides the stream's native frame rate when > 0.
	FPS float64
	// Fill center-crops instead of letterboxing.
	Fill bool
}

// NewConfig creates a new [Config] with default flag names.
func NewConfig() *Config {
	f := Flags{
		Video:  "video",
		Audio:  "audio",
		Width:  "width",
		Height: "height",
		Mode:   "mode",
		FPS:    "fps",
		Fill:   "fill",
	}

	return f.NewConfig()
}

// RegisterFlags adds playback flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.Video, c.Flags.Video, "", "video file to play")
	flags.StringVar(&c.Audio, c.Flags.Audio, "", "audio track to play alongside the video")
	flags.IntVar(&c.Width, c.Flags.Width, 0, "canvas width in pixels (0 = fit terminal)")
	flags.IntVar(&c.Height, c.Flags.Height, 0, "canvas height in pixels (0 = fit terminal)")
	flags.StringVar(&c.Mode, c.Flags.Mode, string(frame.ModeRGB), "render mode (rgb, ascii)")
	flags.Float64Var(&c.FPS, c.Flags.FPS, 0, "playback frame rate (0 = stream native)")
	flags.BoolVar(&c.Fill, c.Flags.Fill, false, "crop to fill the canvas instead of letterboxing")
}

// RegisterCompletions registers shell completions for playback flags on cmd.
// The mode flag completes its enum; numeric flags disable file completion.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.Mode,
		cobra.FixedCompletions(
			[]cobra.Completion{string(frame.ModeRGB), string(frame.ModeASCII)},
			cobra.ShellCompDirectiveNoFileComp,
		),
	)
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.Mode, err)
	}

	noFileComp := func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	for _, name := range []string{c.Flags.Width, c.Flags.Height, c.Flags.FPS} {
		err := cmd.RegisterFlagCompletionFunc(name, noFileComp)
		if err != nil {
			return fmt.Errorf("registering %s completion: %w", name, err)
		}
	}

	return nil
}

// SessionConfig validates the flags and resolves them into session
// parameters. Zero width or height fall back to the terminal grid in
// termCols x termRows.
func (c *Config) SessionConfig(termCols, termRows int) (frame.SessionConfig, error) {
	if c.Video == "" {
		return frame.SessionConfig{}, ErrMissingVideo
	}

	mode, err := frame.ParseRenderMode(c.Mode)
	if err != nil {
		return frame.SessionConfig{}, err
	}

	fit := frame.FitContain
	if c.Fill {
		fit = frame.FitFill
	}

	var canvas frame.CanvasSpec

	switch {
	case c.Width == 0 && c.Height == 0:
		canvas = frame.FromGrid(termCols, termRows, fit, mode)
	case c.Width > 0 && c.Height > 0:
		canvas = frame.CanvasSpec{W: c.Width, H: c.Height, Fit: fit, Mode: mode}.Normalize()
	default:
		return frame.SessionConfig{}, fmt.Errorf("%w: width=%d height=%d", ErrBadCanvas, c.Width, c.Height)
	}

	if c.FPS < 0 {
		return frame.SessionConfig{}, fmt.Errorf("%w: %v", ErrBadFPS, c.FPS)
	}

	return frame.SessionConfig{
		VideoPath: c.Video,
		AudioPath: c.Audio,
		Canvas:    canvas,
		FPS:       c.FPS,
	}, nil
}
