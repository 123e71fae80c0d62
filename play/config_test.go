package play_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/badapple/frame"
	"go.jacobcolvin.com/badapple/play"
)

func TestConfig_RegisterFlags(t *testing.T) {
	t.Parallel()

	cfg := play.NewConfig()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)

	cfg.RegisterFlags(flags)

	for _, name := range []string{"video", "audio", "width", "height", "mode", "fps", "fill"} {
		require.NotNil(t, flags.Lookup(name), "flag %s should be registered", name)
	}
}

func TestConfig_RegisterCompletions(t *testing.T) {
	t.Parallel()

	cfg := play.NewConfig()

	cmd := &cobra.Command{Use: "test"}
	cfg.RegisterFlags(cmd.Flags())

	require.NoError(t, cfg.RegisterCompletions(cmd))

	completionFn, ok := cmd.GetFlagCompletionFunc("mode")
	require.True(t, ok)

	values, directive := completionFn(cmd, nil, "")
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
	assert.Equal(t, []string{"rgb", "ascii"}, values)
}

func TestConfig_SessionConfig(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		mutate      func(*play.Config)
		wantCanvas  frame.CanvasSpec
		expectError error
	}{
		"explicit dimensions": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
				c.Width = 120
				c.Height = 80
			},
			wantCanvas: frame.CanvasSpec{W: 120, H: 80, Fit: frame.FitContain, Mode: frame.ModeRGB},
		},
		"terminal grid when unset": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
			},
			// 80x24 cells, rgb folds two pixel rows per cell.
			wantCanvas: frame.CanvasSpec{W: 80, H: 48, Fit: frame.FitContain, Mode: frame.ModeRGB},
		},
		"odd dimensions normalize down": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
				c.Width = 121
				c.Height = 81
				c.Mode = "ascii"
			},
			wantCanvas: frame.CanvasSpec{W: 120, H: 80, Fit: frame.FitContain, Mode: frame.ModeASCII},
		},
		"fill selects crop": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
				c.Width = 10
				c.Height = 10
				c.Fill = true
			},
			wantCanvas: frame.CanvasSpec{W: 10, H: 10, Fit: frame.FitFill, Mode: frame.ModeRGB},
		},
		"missing video": {
			mutate:      func(*play.Config) {},
			expectError: play.ErrMissingVideo,
		},
		"half-set dimensions": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
				c.Width = 100
			},
			expectError: play.ErrBadCanvas,
		},
		"negative fps": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
				c.Width = 10
				c.Height = 10
				c.FPS = -1
			},
			expectError: play.ErrBadFPS,
		},
		"unknown mode": {
			mutate: func(c *play.Config) {
				c.Video = "in.mp4"
				c.Mode = "sixel"
			},
			expectError: frame.ErrUnknownRenderMode,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			cfg := play.NewConfig()
			tc.mutate(cfg)

			sc, err := cfg.SessionConfig(80, 24)
			if tc.expectError != nil {
				require.ErrorIs(t, err, tc.expectError)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.wantCanvas, sc.Canvas)
			assert.Equal(t, cfg.Video, sc.VideoPath)
		})
	}
}
