package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ExtractedPath returns where [Extract] places the track pulled from a
// video: <destDir>/<video stem>_extracted.mp3.
func ExtractedPath(videoPath, destDir string) string {
	stem := strings.TrimSuffix(filepath.Base(videoPath), filepath.Ext(videoPath))

	return filepath.Join(destDir, stem+"_extracted.mp3")
}

// Extract pulls the audio track out of a video file with ffmpeg, writing an
// mp3 next to previously extracted tracks in destDir. An existing extraction
// is reused without re-encoding. Failures return [ErrUnavailable]; the
// session simply plays silently.
func Extract(ctx context.Context, videoPath, destDir string) (string, error) {
	out := ExtractedPath(videoPath, destDir)

	_, err := os.Stat(out)
	if err == nil {
		return out, nil
	}

	_, err = exec.LookPath("ffmpeg")
	if err != nil {
		return "", fmt.Errorf("%w: ffmpeg not found in PATH", ErrUnavailable)
	}

	err = os.MkdirAll(destDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	//nolint:gosec // Paths are caller-provided CLI arguments.
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		out,
	)

	err = cmd.Run()
	if err != nil {
		return "", fmt.Errorf("%w: extracting audio: %w", ErrUnavailable, err)
	}

	return out, nil
}
