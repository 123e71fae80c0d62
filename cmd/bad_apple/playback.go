package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/badapple/audio"
	"go.jacobcolvin.com/badapple/decode"
	"go.jacobcolvin.com/badapple/frame"
	"go.jacobcolvin.com/badapple/log"
	"go.jacobcolvin.com/badapple/menu"
	"go.jacobcolvin.com/badapple/play"
	"go.jacobcolvin.com/badapple/screen"
)

// defaultFPS is the pacing rate used when the stream does not report one.
const defaultFPS = 30.0

func newPlayLiveCmd(logCfg *log.Config) *cobra.Command {
	playCfg := play.NewConfig()

	cmd := &cobra.Command{
		Use:   "play-live",
		Short: "Decode and play a video live in the terminal",
		Long: `play-live decodes the video with ffmpeg and renders it frame by frame in
the terminal. With --audio the track plays through the speaker and becomes
the sync clock. Press space to pause, q or Esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			term := screen.New()

			cols, rows := term.Grid()

			sc, err := playCfg.SessionConfig(cols, rows)
			if err != nil {
				return err
			}

			return runPlayback(cmd.Context(), term, sc, logCfg)
		},
	}

	playCfg.RegisterFlags(cmd.Flags())

	//nolint:errcheck // Flag was registered above.
	cmd.MarkFlagRequired(playCfg.Flags.Video)

	completionErr := playCfg.RegisterCompletions(cmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	return cmd
}

func newInteractiveCmd(logCfg *log.Config) *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Select a video interactively, then play it",
		Long: `interactive chains the selection menu into an in-process playback. The
chosen values are still emitted on stdout before playback starts, so scripts
wrapping the command see the same output as for menu. When no audio file
matches the video, the track is extracted from the video with ffmpeg.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadMenuConfig(configPath)
			if err != nil {
				return err
			}

			selection, err := menu.Run(cfg)
			if err != nil {
				return err
			}

			ctx := cmd.Context()

			if selection.AudioPath == "" {
				extracted, extractErr := audio.Extract(ctx, selection.VideoPath, audioDir(cfg))
				if extractErr != nil {
					fmt.Fprintf(os.Stderr, "extracting audio: %v\n", extractErr)
				} else {
					selection.AudioPath = extracted
				}
			}

			fmt.Print(selection.Assignments())

			fit := frame.FitContain
			if selection.Fill {
				fit = frame.FitFill
			}

			term := screen.New()

			cols, rows := term.Grid()

			sc := frame.SessionConfig{
				VideoPath: selection.VideoPath,
				AudioPath: selection.AudioPath,
				Canvas:    frame.FromGrid(cols, rows, fit, selection.Mode),
			}

			return runPlayback(ctx, term, sc, logCfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "menu config file (YAML)")

	return cmd
}

func audioDir(cfg menu.Config) string {
	if cfg.AudioDir != "" {
		return cfg.AudioDir
	}

	return cfg.AssetsDir
}

// runPlayback opens the decode stream and optional audio track, switches the
// terminal into playback state, and runs the session to completion.
//
// Logs are withheld during playback: the terminal belongs to the frame
// canvas, so diagnostics buffer in a [log.Publisher] and replay to stderr
// after the terminal is restored. --log-file bypasses the buffer entirely.
func runPlayback(ctx context.Context, term *screen.Terminal, sc frame.SessionConfig, logCfg *log.Config) error {
	pub := log.NewPublisher()
	sub := pub.Subscribe()

	defer func() {
		for _, entry := range sub.Drain() {
			os.Stderr.Write(entry) //nolint:errcheck // Best-effort log replay.
		}

		//nolint:errcheck // Close never fails.
		pub.Close()
	}()

	sink, closeSink, err := logCfg.Sink(pub)
	if err != nil {
		return err
	}
	defer closeSink() //nolint:errcheck // Nothing to do about a failed close at exit.

	handler, err := logCfg.NewHandler(sink)
	if err != nil {
		return err
	}

	logger := slog.New(handler)

	meta, err := decode.Probe(sc.VideoPath)
	if err != nil {
		return err
	}

	fps := resolveFPS(sc.FPS, meta.FPS, logger)

	stream, err := decode.Open(ctx, sc.VideoPath, decode.Options{FPS: sc.FPS, Meta: meta, Logger: logger})
	if err != nil {
		return err
	}
	defer stream.Close() //nolint:errcheck // Close never fails.

	opts := play.Options{Logger: logger}

	if sc.AudioPath != "" {
		player, audioErr := audio.Open(sc.AudioPath)
		if audioErr != nil {
			logger.Warn("continuing without audio", "err", audioErr)
		} else {
			opts.Audio = player

			defer player.Close() //nolint:errcheck // Speaker teardown at exit.
		}
	}

	logger.Info("starting playback",
		"video", sc.VideoPath,
		"audio", sc.AudioPath,
		"width", sc.Canvas.W,
		"height", sc.Canvas.H,
		"mode", sc.Canvas.Mode,
		"fps", fps,
	)

	err = term.Enter()
	if err != nil {
		return err
	}

	sess := play.NewSession(stream, term, sc.Canvas, fps, opts)

	stats, runErr := sess.Run(ctx)

	leaveErr := term.Leave()

	logSummary(logger, stats)

	if runErr != nil {
		if errors.Is(runErr, context.Canceled) {
			return nil
		}

		return runErr
	}

	return leaveErr
}

// resolveFPS picks the pacing rate: user override first, then the stream's
// native rate, then a fixed default. A diverging override is allowed but
// logged, since it desyncs video from the audio track.
func resolveFPS(override, native float64, logger *slog.Logger) float64 {
	if override > 0 {
		if native > 0 && math.Abs(override-native) > 0.5 {
			logger.Warn("fps override diverges from stream rate",
				"override", override,
				"native", native,
			)
		}

		return override
	}

	if native > 0 {
		return native
	}

	return defaultFPS
}

func logSummary(logger *slog.Logger, stats play.Stats) {
	attrs := []any{
		"presented", stats.Presented,
		"dropped", stats.Dropped,
		"elapsed", stats.Elapsed,
	}

	if secs := stats.Elapsed.Seconds(); secs > 0 {
		attrs = append(attrs, "effective_fps", float64(stats.Presented)/secs)
	}

	logger.Info("playback finished", attrs...)
}
