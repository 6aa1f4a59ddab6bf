package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/saivivek-01/VISION/internal/domain/alignment"
	"github.com/saivivek-01/VISION/internal/domain/document"
	"github.com/saivivek-01/VISION/internal/domain/narration"
	"github.com/saivivek-01/VISION/internal/ports"
	"github.com/saivivek-01/VISION/internal/types"
)

type Deps struct {
	Text   []ports.TextGenerator
	Speech []ports.SpeechSynthesizer
	Images []ports.ImageGenerator
	Clips  []ports.ClipGenerator
	Media  ports.MediaTool
	Log    zerolog.Logger

	// Limiter paces every outbound provider call. Nil means unlimited.
	Limiter     *rate.Limiter
	Concurrency int
	Width       int
	Height      int
}

type Usecase struct{ d Deps }

const (
	defaultConcurrency = 4
	defaultFrameSize   = 768
)

func New(d Deps) Usecase {
	if d.Concurrency <= 0 {
		d.Concurrency = defaultConcurrency
	}
	if d.Width <= 0 {
		d.Width = defaultFrameSize
	}
	if d.Height <= 0 {
		d.Height = defaultFrameSize
	}
	return Usecase{d: d}
}

type Input struct {
	Document string
	Mode     types.Mode
	OutDir   string
}

type Result struct {
	VideoPath string
	Manifest  types.Manifest
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Log

	doc, text, err := document.Extract(in.Document)
	if err != nil {
		return Result{}, err
	}
	log.Info().Str("format", string(doc.Format)).Int("chars", len(text)).Msg("document extracted")

	script, err := u.summarize(ctx, text)
	if err != nil {
		return Result{}, err
	}
	sentences := narration.SplitSentences(script)
	if len(sentences) == 0 {
		return Result{}, types.ErrEmptyNarration
	}
	log.Info().Int("sentences", len(sentences)).Msg("narration ready")

	if err := os.MkdirAll(in.OutDir, 0o755); err != nil {
		return Result{}, err
	}

	var (
		speech  types.SpeechTrack
		visuals types.VisualSet
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		speech, err = u.synthesizeSpeech(gctx, sentences, in.OutDir)
		return err
	})
	g.Go(func() error {
		prompts, err := u.enhancePrompts(gctx, sentences)
		if err != nil {
			return err
		}
		if in.Mode == types.ModeFull {
			visuals, err = u.generateClips(gctx, prompts, in.OutDir)
		} else {
			visuals, err = u.generateFrames(gctx, prompts, in.OutDir)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	log.Info().
		Float64("audio_sec", speech.TotalDuration()).
		Int("visuals", visuals.Count()).
		Int("sentences", len(sentences)).
		Msg("media synthesized")

	durations, subs := speech.Durations(), speech.Sentences
	truncated := false
	var video, srtPath string
	if in.Mode == types.ModeFull {
		video, srtPath, err = u.combineClipsWithAudio(ctx, visuals.Dir, speech.AudioPath, durations, subs, in.OutDir)
	} else {
		rec := alignment.Reconcile(durations, subs, visuals.Count())
		if rec.Truncated {
			log.Warn().
				Int("visuals", visuals.Count()).
				Int("sentences", len(subs)).
				Msg("fewer visuals than sentences; keeping the leading sentences")
		}
		durations, subs, truncated = rec.Durations, rec.Sentences, rec.Truncated
		video, srtPath, err = u.renderWithAudio(ctx, visuals.Dir, speech.AudioPath, durations, subs, in.OutDir)
	}
	if err != nil {
		return Result{}, err
	}
	log.Info().Str("video", video).Msg("video rendered")

	m := types.Manifest{
		Input:     in.Document,
		Mode:      in.Mode,
		Narration: script,
		Audio:     rel(in.OutDir, speech.AudioPath),
		Video:     rel(in.OutDir, video),
		Truncated: truncated,
	}
	if srtPath != "" {
		m.Subtitles = rel(in.OutDir, srtPath)
	}
	for i := range durations {
		scene := types.ManifestScene{
			Index:       i,
			DurationSec: durations[i],
			SourceIndex: i,
		}
		if i < len(subs) {
			scene.Sentence = subs[i]
		}
		if i < len(speech.Clips) {
			scene.SilentAudio = speech.Clips[i].Silent
		}
		if i < visuals.Count() {
			scene.Visual = rel(in.OutDir, visuals.Files[i])
			scene.Prompt = visuals.Prompts[i]
			scene.SourceIndex = visuals.SourceIndex[i]
		}
		m.Scenes = append(m.Scenes, scene)
	}

	return Result{VideoPath: video, Manifest: m}, nil
}

// wait blocks on the shared provider rate limiter, if any.
func (u Usecase) wait(ctx context.Context) error {
	if u.d.Limiter == nil {
		return nil
	}
	return u.d.Limiter.Wait(ctx)
}

func artifact(dir, prefix, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext))
}

func rel(base, path string) string {
	r, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(r)
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}
