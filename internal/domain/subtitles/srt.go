package subtitles

import (
	"fmt"
	"math"
	"strings"

	"github.com/saivivek-01/VISION/internal/types"
)

// BuildCues lays sentences end to end on the timeline, each lasting its
// duration. Only min(len(sentences), len(durations)) cues are produced.
func BuildCues(sentences []string, durations []float64) []types.Cue {
	n := min(len(sentences), len(durations))
	out := make([]types.Cue, 0, n)
	cur := 0.0
	for i := 0; i < n; i++ {
		d := durations[i]
		if d < 0 {
			d = 0
		}
		out = append(out, types.Cue{
			Index: i + 1,
			Start: cur,
			End:   cur + d,
			Text:  sanitizeSRT(sentences[i]),
		})
		cur += d
	}
	return out
}

func RenderSRT(cues []types.Cue) string {
	var b strings.Builder
	for _, c := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", c.Index, FormatTimestamp(c.Start), FormatTimestamp(c.End), c.Text)
	}
	return b.String()
}

// FormatTimestamp renders seconds as HH:MM:SS,mmm.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// Blank lines end an SRT cue, so multi-line sentences are folded.
func sanitizeSRT(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
