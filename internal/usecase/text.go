package usecase

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/saivivek-01/VISION/internal/fallback"
	"github.com/saivivek-01/VISION/internal/ports"
	"github.com/saivivek-01/VISION/internal/types"
)

const (
	summaryInstruction = "You are an educational assistant. Clean and summarize the following into narration-style text."
	promptInstruction  = "Convert the following educational sentence into a highly detailed, realistic, " +
		"context-specific image prompt for a serious educational illustration. " +
		"Avoid cartoon style. Focus on accuracy and relevance: "
)

func (u Usecase) summarize(ctx context.Context, text string) (string, error) {
	out, err := fallback.Chain(ctx, u.d.Log, u.d.Text, func(ctx context.Context, p ports.TextGenerator) (string, error) {
		if err := u.wait(ctx); err != nil {
			return "", err
		}
		s, err := p.Generate(ctx, summaryInstruction, text)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(s) == "" {
			return "", fmt.Errorf("empty summary")
		}
		return strings.TrimSpace(s), nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", types.ErrSummarizationFailed, err)
	}
	return out, nil
}

// enhancePrompts returns one prompt per sentence, in order. A sentence whose
// providers all fail is used as its own prompt.
func (u Usecase) enhancePrompts(ctx context.Context, sentences []string) ([]string, error) {
	prompts := make([]string, len(sentences))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.d.Concurrency)
	for i, s := range sentences {
		i, s := i, s
		g.Go(func() error {
			p, err := fallback.Chain(gctx, u.d.Log, u.d.Text, func(ctx context.Context, gen ports.TextGenerator) (string, error) {
				if err := u.wait(ctx); err != nil {
					return "", err
				}
				out, err := gen.Generate(ctx, promptInstruction, s)
				if err != nil {
					return "", err
				}
				if strings.TrimSpace(out) == "" {
					return "", fmt.Errorf("empty prompt")
				}
				return strings.TrimSpace(out), nil
			})
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				u.d.Log.Warn().Int("index", i).Msg("prompt enhancement failed; using sentence")
				p = s
			}
			prompts[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prompts, nil
}
