package menu

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ErrNoVideos indicates the assets directory holds no playable files.
var ErrNoVideos = errors.New("no video files found")

var (
	videoExts = []string{".mp4", ".mkv", ".avi", ".mov", ".webm"}
	audioExts = []string{".wav", ".mp3", ".m4a", ".flac", ".ogg"}
)

// ScanVideos returns the playable video files directly under dir, sorted by
// name.
func ScanVideos(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", dir, err)
	}

	var videos []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if slices.Contains(videoExts, ext) {
			videos = append(videos, filepath.Join(dir, entry.Name()))
		}
	}

	if len(videos) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoVideos, dir)
	}

	slices.Sort(videos)

	return videos, nil
}

// MatchAudio returns the audio file in dir sharing videoPath's stem, trying
// extensions in preference order. Empty when nothing matches.
func MatchAudio(videoPath, dir string) string {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	for _, ext := range audioExts {
		candidate := filepath.Join(dir, stem+ext)

		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate
		}
	}

	return ""
}
