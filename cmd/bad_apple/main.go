// Command bad_apple plays video in the terminal.
//
// Frames are decoded with ffmpeg, scaled to the terminal, and rendered
// either as truecolor half-blocks (two pixels per cell via the "▀"
// character) or as an ASCII luminance ramp. Playback is paced against the
// audio track when one is available.
//
// # Usage
//
//	bad_apple play-live --video <path> [--audio <path>] [flags]
//	bad_apple menu [--config <path>]
//	bad_apple interactive [--config <path>]
//	bad_apple detect
//	bad_apple terminal-size
//	bad_apple config-schema
//	bad_apple version
//
// # Exit codes
//
//	0  clean end of stream or quit
//	1  usage error or open-time failure
//	2  fatal video stream corruption
//	3  terminal I/O failure
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/badapple/decode"
	"go.jacobcolvin.com/badapple/log"
	"go.jacobcolvin.com/badapple/menu"
	"go.jacobcolvin.com/badapple/platform"
	"go.jacobcolvin.com/badapple/profile"
	"go.jacobcolvin.com/badapple/screen"
	"go.jacobcolvin.com/badapple/version"
)

const appName = "bad_apple"

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logCfg := log.NewConfig()
	profileCfg := profile.NewConfig()
	profiler := profileCfg.NewProfiler()

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Play video in the terminal",
		Long: `bad_apple decodes video with ffmpeg and renders it live in the terminal,
as truecolor half-block cells or an ASCII luminance ramp, paced to the
stream's frame rate and synced to the audio track when one is available.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return profiler.Start()
		},
	}

	logCfg.RegisterFlags(rootCmd.PersistentFlags())
	profileCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(
		newPlayLiveCmd(logCfg),
		newMenuCmd(),
		newInteractiveCmd(logCfg),
		newDetectCmd(),
		newTerminalSizeCmd(),
		newConfigSchemaCmd(),
		newVersionCmd(),
	)

	for _, register := range []func(*cobra.Command) error{
		logCfg.RegisterCompletions,
		profileCfg.RegisterCompletions,
	} {
		err := register(rootCmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "register completions: %v\n", err)
		}
	}

	err := rootCmd.ExecuteContext(ctx)

	stopErr := profiler.Stop()
	if stopErr != nil {
		fmt.Fprintf(os.Stderr, "stopping profiler: %v\n", stopErr)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)

		return exitCode(err)
	}

	return 0
}

// exitCode maps a playback failure to the documented exit codes.
func exitCode(err error) int {
	switch {
	case errors.Is(err, decode.ErrStreamCorrupt):
		return 2
	case errors.Is(err, screen.ErrTerminalIO):
		return 3
	}

	return 1
}

func newMenuCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Select a video interactively and emit the choice as shell assignments",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadMenuConfig(configPath)
			if err != nil {
				return err
			}

			selection, err := menu.Run(cfg)
			if err != nil {
				return err
			}

			fmt.Print(selection.Assignments())

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "menu config file (YAML)")

	return cmd
}

func loadMenuConfig(path string) (menu.Config, error) {
	if path == "" {
		return menu.DefaultConfig(), nil
	}

	return menu.LoadConfig(path)
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect",
		Short: "Report screen and character cell dimensions as JSON",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			report, err := platform.Detect()
			if err != nil {
				return err
			}

			return printJSON(report)
		},
	}
}

func newTerminalSizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terminal-size",
		Short: "Report the terminal cell grid as JSON",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			size, err := platform.TerminalSize()
			if err != nil {
				return err
			}

			return printJSON(size)
		},
	}
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config-schema",
		Short: "Print the JSON Schema for the menu config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printJSON(menu.ConfigSchema())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(version.Info(appName))
		},
	}
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	out = append(out, '\n')

	_, err = os.Stdout.Write(out)
	if err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}
