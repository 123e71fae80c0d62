package audio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/badapple/audio"
)

func TestOpenMissingFile(t *testing.T) {
	t.Parallel()

	_, err := audio.Open(filepath.Join(t.TempDir(), "nope.mp3"))
	require.ErrorIs(t, err, audio.ErrUnavailable)
}

func TestOpenUnsupportedExtension(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "track.aiff")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	_, err := audio.Open(path)
	require.ErrorIs(t, err, audio.ErrUnavailable)
}

func TestOpenGarbageData(t *testing.T) {
	t.Parallel()

	// A .wav extension with no RIFF header must fail at decode, before any
	// output device is touched.
	path := filepath.Join(t.TempDir(), "track.wav")
	require.NoError(t, os.WriteFile(path, []byte("not audio"), 0o644))

	_, err := audio.Open(path)
	require.ErrorIs(t, err, audio.ErrUnavailable)
}

func TestExtractedPath(t *testing.T) {
	t.Parallel()

	got := audio.ExtractedPath("/videos/apple.mp4", "/cache")
	require.Equal(t, filepath.Join("/cache", "apple_extracted.mp3"), got)
}
