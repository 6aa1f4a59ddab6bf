// Package concat writes scripts for ffmpeg's concat demuxer.
package concat

import (
	"fmt"
	"strings"
)

// Frames lists each still with how long it stays on screen. The last file is
// listed a second time without a duration; the demuxer otherwise gives the
// final frame zero length.
func Frames(files []string, durations []float64) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("concat: no frames")
	}
	if len(files) != len(durations) {
		return "", fmt.Errorf("concat: %d frames vs %d durations", len(files), len(durations))
	}
	var b strings.Builder
	for i, f := range files {
		fmt.Fprintf(&b, "file %s\n", quote(f))
		fmt.Fprintf(&b, "duration %.2f\n", durations[i])
	}
	fmt.Fprintf(&b, "file %s\n", quote(files[len(files)-1]))
	return b.String(), nil
}

// Files lists media files to be joined back to back.
func Files(files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("concat: no files")
	}
	var b strings.Builder
	for _, f := range files {
		fmt.Fprintf(&b, "file %s\n", quote(f))
	}
	return b.String(), nil
}

// quote wraps a path in single quotes; an embedded quote becomes '\''.
func quote(p string) string {
	return "'" + strings.ReplaceAll(p, "'", `'\''`) + "'"
}
