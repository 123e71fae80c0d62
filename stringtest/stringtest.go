package stringtest

import "strings"

// JoinLF joins multiple strings with LF line endings.
// Use this to construct expected test output with explicit line endings.
//
// Example:
//
//	want := stringtest.JoinLF(
//		"VIDEO_PATH=assets/bad_apple.mp4",
//		"RENDER_MODE=rgb",
//	) // -> "VIDEO_PATH=assets/bad_apple.mp4\nRENDER_MODE=rgb"
func JoinLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}

// JoinCRLF joins multiple strings with CRLF line endings. Rendered cell
// rows end lines with CRLF because playback runs in raw mode, where LF
// alone does not return the cursor to column one.
//
// Example:
//
//	want := stringtest.JoinCRLF(
//		"@@  ",
//		"  @@",
//	) // -> "@@  \r\n  @@"
func JoinCRLF(ss ...string) string {
	var sb strings.Builder
	for i, s := range ss {
		if i > 0 {
			sb.WriteByte('\r')
			sb.WriteByte('\n')
		}

		sb.WriteString(s)
	}

	return sb.String()
}
