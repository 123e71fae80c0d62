// Package menu provides the interactive selection flow that precedes a
// playback session.
//
// The menu runs as a [charm.land/bubbletea/v2] program on stderr so that
// stdout stays shell-parseable: the chosen video, audio track, render mode,
// and screen mode are emitted as VAR=value assignments for scripts to eval.
// Video files are discovered under a configurable assets directory and an
// audio track is auto-matched by file stem.
//
// Defaults come from an optional YAML config file, parsed with
// [github.com/goccy/go-yaml]; [ConfigSchema] describes it as JSON Schema.
package menu
