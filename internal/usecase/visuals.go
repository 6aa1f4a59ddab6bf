package usecase

import (
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/saivivek-01/VISION/internal/domain/frames"
	"github.com/saivivek-01/VISION/internal/fallback"
	"github.com/saivivek-01/VISION/internal/ports"
	"github.com/saivivek-01/VISION/internal/types"
)

// generateFrames renders one still per prompt. Failed scenes are dropped and
// the survivors are numbered frame_0000.png, frame_0001.png, ... in prompt order.
func (u Usecase) generateFrames(ctx context.Context, prompts []string, outDir string) (types.VisualSet, error) {
	imgs := make([]image.Image, len(prompts))
	err := u.forEachPrompt(ctx, prompts, func(ctx context.Context, i int, prompt string) error {
		img, err := fallback.Chain(ctx, u.d.Log, u.d.Images, func(ctx context.Context, p ports.ImageGenerator) (image.Image, error) {
			if err := u.wait(ctx); err != nil {
				return nil, err
			}
			return p.GenerateImage(ctx, prompt)
		})
		if err != nil {
			return err
		}
		imgs[i] = img
		return nil
	})
	if err != nil {
		return types.VisualSet{}, err
	}

	dir := artifact(outDir, "frames", "")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.VisualSet{}, &types.RenderError{Op: "create frames dir", ExitCode: -1, Err: err}
	}
	set := types.VisualSet{Dir: dir}
	for i, img := range imgs {
		if img == nil {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("frame_%04d.png", set.Count()))
		if err := frames.WritePNG(path, img, u.d.Width, u.d.Height); err != nil {
			return types.VisualSet{}, &types.RenderError{Op: "write frame", ExitCode: -1, Err: err}
		}
		set.Files = append(set.Files, path)
		set.Prompts = append(set.Prompts, prompts[i])
		set.SourceIndex = append(set.SourceIndex, i)
	}
	return set, nil
}

// generateClips is generateFrames for video clips (scene_%04d.mp4).
func (u Usecase) generateClips(ctx context.Context, prompts []string, outDir string) (types.VisualSet, error) {
	clips := make([][]byte, len(prompts))
	err := u.forEachPrompt(ctx, prompts, func(ctx context.Context, i int, prompt string) error {
		b, err := fallback.Chain(ctx, u.d.Log, u.d.Clips, func(ctx context.Context, p ports.ClipGenerator) ([]byte, error) {
			if err := u.wait(ctx); err != nil {
				return nil, err
			}
			return p.GenerateClip(ctx, prompt)
		})
		if err != nil {
			return err
		}
		clips[i] = b
		return nil
	})
	if err != nil {
		return types.VisualSet{}, err
	}

	dir := artifact(outDir, "scenes", "")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return types.VisualSet{}, &types.RenderError{Op: "create scenes dir", ExitCode: -1, Err: err}
	}
	set := types.VisualSet{Dir: dir}
	for i, b := range clips {
		if len(b) == 0 {
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("scene_%04d.mp4", set.Count()))
		if err := writeFile(path, b); err != nil {
			return types.VisualSet{}, &types.RenderError{Op: "write clip", ExitCode: -1, Err: err}
		}
		set.Files = append(set.Files, path)
		set.Prompts = append(set.Prompts, prompts[i])
		set.SourceIndex = append(set.SourceIndex, i)
	}
	return set, nil
}

// forEachPrompt runs fn for every prompt on the worker pool. A failing
// prompt is logged and skipped; only cancellation stops the loop.
func (u Usecase) forEachPrompt(ctx context.Context, prompts []string, fn func(ctx context.Context, i int, prompt string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.d.Concurrency)
	for i, prompt := range prompts {
		i, prompt := i, prompt
		g.Go(func() error {
			if err := fn(gctx, i, prompt); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				u.d.Log.Warn().Err(err).Int("index", i).Msg("visual generation failed; dropping scene")
			}
			return nil
		})
	}
	return g.Wait()
}
