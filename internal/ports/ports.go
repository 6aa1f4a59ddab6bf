package ports

import (
	"context"
	"image"
	"time"
)

type TextGenerator interface {
	Name() string
	Generate(ctx context.Context, instruction, input string) (string, error)
}

// SpeechSynthesizer writes speech for text next to outBase (the provider picks
// the extension) and returns the written path.
type SpeechSynthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text, outBase string) (string, error)
}

type ImageGenerator interface {
	Name() string
	GenerateImage(ctx context.Context, prompt string) (image.Image, error)
}

type ClipGenerator interface {
	Name() string
	GenerateClip(ctx context.Context, prompt string) ([]byte, error)
}

type MediaTool interface {
	NormalizeAudio(ctx context.Context, in, outWav string) error
	Silence(ctx context.Context, d time.Duration, outWav string) error
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
	ConcatAudio(ctx context.Context, listPath, outPath string) error
	ConcatFrames(ctx context.Context, listPath, outMP4 string) error
	ConcatClips(ctx context.Context, listPath, outMP4 string) error
	Mux(ctx context.Context, videoPath, audioPath, subtitlesPath, outMP4 string) error
}
