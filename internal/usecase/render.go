package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/saivivek-01/VISION/internal/domain/concat"
	"github.com/saivivek-01/VISION/internal/domain/subtitles"
	"github.com/saivivek-01/VISION/internal/types"
)

// renderWithAudio turns the numbered stills in frameDir into the final
// video. It returns the video path and the subtitle file it burned in.
func (u Usecase) renderWithAudio(ctx context.Context, frameDir, audioPath string, durations []float64, sentences []string, outDir string) (string, string, error) {
	files, err := sortedGlob(frameDir, "frame_*.png")
	if err != nil {
		return "", "", err
	}
	if len(files) != len(durations) {
		return "", "", fmt.Errorf("%w: %d frames for %d durations", types.ErrAlignmentMismatch, len(files), len(durations))
	}

	srtPath, err := u.writeSubtitles(sentences, durations, outDir)
	if err != nil {
		return "", "", err
	}

	script, err := concat.Frames(files, durations)
	if err != nil {
		return "", "", &types.RenderError{Op: "frames concat list", ExitCode: -1, Err: err}
	}
	listPath := artifact(outDir, "ffmpeg_frames", ".txt")
	if err := writeFile(listPath, []byte(script)); err != nil {
		return "", "", &types.RenderError{Op: "write frames concat list", ExitCode: -1, Err: err}
	}

	raw := artifact(outDir, "video_raw", ".mp4")
	if err := u.d.Media.ConcatFrames(ctx, listPath, raw); err != nil {
		return "", "", err
	}
	final := artifact(outDir, "final", ".mp4")
	if err := u.d.Media.Mux(ctx, raw, audioPath, srtPath, final); err != nil {
		return "", "", err
	}
	return final, srtPath, nil
}

// combineClipsWithAudio joins the scene clips without re-encoding and muxes
// them with the narration. Subtitles are burned in only when timing data is
// available.
func (u Usecase) combineClipsWithAudio(ctx context.Context, clipDir, audioPath string, durations []float64, sentences []string, outDir string) (string, string, error) {
	files, err := sortedGlob(clipDir, "scene_*.mp4")
	if err != nil {
		return "", "", err
	}
	list, err := concat.Files(files)
	if err != nil {
		return "", "", &types.RenderError{Op: "clips concat list", ExitCode: -1, Err: err}
	}
	listPath := artifact(outDir, "ffmpeg_clips", ".txt")
	if err := writeFile(listPath, []byte(list)); err != nil {
		return "", "", &types.RenderError{Op: "write clips concat list", ExitCode: -1, Err: err}
	}
	combined := artifact(outDir, "combined", ".mp4")
	if err := u.d.Media.ConcatClips(ctx, listPath, combined); err != nil {
		return "", "", err
	}

	var srtPath string
	if len(durations) > 0 && len(sentences) > 0 {
		if srtPath, err = u.writeSubtitles(sentences, durations, outDir); err != nil {
			return "", "", err
		}
	}
	final := artifact(outDir, "final", ".mp4")
	if err := u.d.Media.Mux(ctx, combined, audioPath, srtPath, final); err != nil {
		return "", "", err
	}
	return final, srtPath, nil
}

func (u Usecase) writeSubtitles(sentences []string, durations []float64, outDir string) (string, error) {
	srt := subtitles.RenderSRT(subtitles.BuildCues(sentences, durations))
	path := artifact(outDir, "subtitles", ".srt")
	if err := writeFile(path, []byte(srt)); err != nil {
		return "", &types.RenderError{Op: "write subtitles", ExitCode: -1, Err: err}
	}
	return path, nil
}

func sortedGlob(dir, pattern string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, &types.RenderError{Op: "list " + pattern, ExitCode: -1, Err: err}
	}
	sort.Strings(files)
	return files, nil
}
