package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saivivek-01/VISION/internal/domain/concat"
	"github.com/saivivek-01/VISION/internal/fallback"
	"github.com/saivivek-01/VISION/internal/ports"
	"github.com/saivivek-01/VISION/internal/types"
)

const silenceSec = 1.0

// synthesizeSpeech produces exactly one clip per sentence and joins them
// into a single track. Only a failure to produce the silent placeholder is
// returned as an error.
func (u Usecase) synthesizeSpeech(ctx context.Context, sentences []string, outDir string) (types.SpeechTrack, error) {
	audioDir := filepath.Join(outDir, "audio")
	if err := os.MkdirAll(audioDir, 0o755); err != nil {
		return types.SpeechTrack{}, &types.RenderError{Op: "create audio dir", ExitCode: -1, Err: err}
	}

	clips := make([]types.AudioClip, len(sentences))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.d.Concurrency)
	for i, s := range sentences {
		i, s := i, s
		g.Go(func() error {
			c, err := u.speakSentence(gctx, i, s, audioDir)
			if err != nil {
				return err
			}
			clips[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return types.SpeechTrack{}, err
	}

	paths := make([]string, len(clips))
	for i, c := range clips {
		paths[i] = c.Path
	}
	list, err := concat.Files(paths)
	if err != nil {
		return types.SpeechTrack{}, &types.RenderError{Op: "audio concat list", ExitCode: -1, Err: err}
	}
	listPath := artifact(outDir, "ffmpeg_audio", ".txt")
	if err := writeFile(listPath, []byte(list)); err != nil {
		return types.SpeechTrack{}, &types.RenderError{Op: "write audio concat list", ExitCode: -1, Err: err}
	}
	track := artifact(outDir, "speech", ".mp3")
	if err := u.d.Media.ConcatAudio(ctx, listPath, track); err != nil {
		return types.SpeechTrack{}, err
	}

	return types.SpeechTrack{
		AudioPath: track,
		Clips:     clips,
		Sentences: append([]string(nil), sentences...),
	}, nil
}

func (u Usecase) speakSentence(ctx context.Context, i int, sentence, audioDir string) (types.AudioClip, error) {
	log := u.d.Log.With().Int("index", i).Logger()
	clipPath := filepath.Join(audioDir, fmt.Sprintf("clip_%04d.wav", i))

	// Output that cannot be normalized fails the provider, not the sentence.
	d, err := fallback.Chain(ctx, log, u.d.Speech, func(ctx context.Context, p ports.SpeechSynthesizer) (float64, error) {
		if err := u.wait(ctx); err != nil {
			return 0, err
		}
		raw, err := p.Synthesize(ctx, sentence, filepath.Join(audioDir, fmt.Sprintf("sentence_%04d_%s", i, providerSlug(p.Name()))))
		if err != nil {
			return 0, err
		}
		return u.normalize(ctx, raw, clipPath)
	})
	if err == nil {
		return types.AudioClip{Index: i, Path: clipPath, Duration: d}, nil
	}
	if ctx.Err() != nil {
		return types.AudioClip{}, ctx.Err()
	}

	log.Warn().Err(err).Msg("speech unavailable; inserting silence")
	if serr := u.d.Media.Silence(ctx, time.Duration(silenceSec*float64(time.Second)), clipPath); serr != nil {
		return types.AudioClip{}, serr
	}
	return types.AudioClip{Index: i, Path: clipPath, Duration: silenceSec, Silent: true}, nil
}

// normalize converts a provider clip to the shared WAV layout and measures it.
func (u Usecase) normalize(ctx context.Context, in, outWav string) (float64, error) {
	if err := u.d.Media.NormalizeAudio(ctx, in, outWav); err != nil {
		return 0, err
	}
	d, err := u.d.Media.ProbeDuration(ctx, outWav)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("clip %s has no duration", outWav)
	}
	return d.Seconds(), nil
}

func providerSlug(name string) string {
	b := make([]byte, 0, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= '0' && c <= '9':
			b = append(b, c)
		case c >= 'A' && c <= 'Z':
			b = append(b, c+'a'-'A')
		default:
			if len(b) > 0 && b[len(b)-1] != '-' {
				b = append(b, '-')
			}
		}
	}
	if len(b) == 0 {
		return "provider"
	}
	return string(b)
}
