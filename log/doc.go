// Package log provides structured logging handler construction for use with
// [log/slog].
//
// It supports multiple output formats ([FormatJSON], [FormatLogfmt], and
// [FormatText]) and severity levels ([LevelError], [LevelWarn], [LevelInfo],
// and [LevelDebug]). Use [NewHandler] to create a handler directly, or use
// [Config] with CLI flag integration via [github.com/spf13/pflag] and shell
// completion support via [github.com/spf13/cobra].
//
// Typical usage creates a [Config], registers flags, then builds a handler
// at startup:
//
//	cfg := log.NewConfig()
//	cfg.RegisterFlags(rootCmd.PersistentFlags())
//	cfg.RegisterCompletions(rootCmd)
//
//	handler, err := cfg.NewHandler(os.Stderr)
//	slog.SetDefault(slog.New(handler))
//
// During playback the terminal is switched to the alternate screen and every
// byte written to it is part of the frame canvas, so logs cannot go to
// stderr. A [Publisher] absorbs log output instead; the subscriber drains
// the withheld entries once the terminal is restored:
//
//	pub := log.NewPublisher()
//	handler := log.NewHandler(pub, log.LevelInfo, log.FormatText)
//	logger := slog.New(handler)
//
//	sub := pub.Subscribe()
//	// ... play ...
//	for _, entry := range sub.Drain() {
//	    os.Stderr.Write(entry)
//	}
//
// Combine it with [io.MultiWriter] to also keep a persistent log file:
//
//	w := io.MultiWriter(logFile, pub)
//	handler := log.NewHandler(w, log.LevelInfo, log.FormatText)
package log
