package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/saivivek-01/VISION/internal/types"
)

const (
	sampleRate = "44100"
	frameRate  = "25"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

// NormalizeAudio re-encodes any provider output to 16-bit mono PCM so clips
// from different providers can be joined by the concat demuxer.
func (a *Adapter) NormalizeAudio(ctx context.Context, in, outWav string) error {
	return a.run(ctx, "normalize audio",
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", sampleRate,
		"-c:a", "pcm_s16le",
		outWav,
	)
}

func (a *Adapter) Silence(ctx context.Context, d time.Duration, outWav string) error {
	return a.run(ctx, "silence",
		"-y",
		"-f", "lavfi",
		"-i", "anullsrc=r="+sampleRate+":cl=mono",
		"-t", fmtSeconds(d),
		"-c:a", "pcm_s16le",
		outWav,
	)
}

func (a *Adapter) ConcatAudio(ctx context.Context, listPath, outPath string) error {
	return a.run(ctx, "concat audio",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c:a", "libmp3lame",
		"-b:a", "192k",
		outPath,
	)
}

func (a *Adapter) ConcatFrames(ctx context.Context, listPath, outMP4 string) error {
	return a.run(ctx, "concat frames",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-vsync", "vfr",
		"-pix_fmt", "yuv420p",
		outMP4,
	)
}

func (a *Adapter) ConcatClips(ctx context.Context, listPath, outMP4 string) error {
	return a.run(ctx, "concat clips",
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		outMP4,
	)
}

// Mux combines video and audio into the deliverable, burning subtitles in
// when subtitlesPath is set. Output stops at the shorter stream.
func (a *Adapter) Mux(ctx context.Context, videoPath, audioPath, subtitlesPath, outMP4 string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-map", "0:v:0",
		"-map", "1:a:0",
	}
	if subtitlesPath != "" {
		args = append(args, "-vf", "subtitles="+escapeFilterPath(subtitlesPath))
	}
	args = append(args,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "18",
		"-r", frameRate,
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-b:a", "192k",
		"-shortest",
		outMP4,
	)
	return a.run(ctx, "mux", args...)
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func (a *Adapter) run(ctx context.Context, op string, args ...string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return &types.RenderError{
			Op:       "ffmpeg " + op,
			ExitCode: code,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return nil
}

func fmtSeconds(d time.Duration) string {
	sec := float64(d) / float64(time.Second)
	return strconv.FormatFloat(sec, 'f', 3, 64)
}

var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// escapeFilterPath escapes p for use as a filter option value inside a
// -vf graph: once for the option parser, then for the graph parser.
func escapeFilterPath(p string) string {
	return graphEscaper.Replace(optionEscaper.Replace(p))
}
