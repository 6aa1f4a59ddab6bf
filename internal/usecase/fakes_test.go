package usecase

import (
	"context"
	"errors"
	"image"
	"os"
	"strings"
	"sync"
	"time"
)

type fakeText struct {
	name string
	fn   func(instruction, input string) (string, error)

	mu    sync.Mutex
	calls int
}

func (f *fakeText) Name() string { return f.name }

func (f *fakeText) Generate(_ context.Context, instruction, input string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.fn(instruction, input)
}

func (f *fakeText) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// narrator summarizes to a fixed script and prefixes prompts.
func narrator(script string) *fakeText {
	return &fakeText{name: "groq", fn: func(instruction, input string) (string, error) {
		if instruction == summaryInstruction {
			return script, nil
		}
		return "illustration: " + input, nil
	}}
}

type fakeSpeech struct {
	name string
	fail func(text string) bool
}

func (f *fakeSpeech) Name() string { return f.name }

func (f *fakeSpeech) Synthesize(_ context.Context, text, outBase string) (string, error) {
	if f.fail != nil && f.fail(text) {
		return "", errors.New(f.name + " unavailable")
	}
	p := outBase + ".mp3"
	return p, os.WriteFile(p, []byte(text), 0o644)
}

type fakeImages struct {
	name string
	fail func(prompt string) bool
}

func (f *fakeImages) Name() string { return f.name }

func (f *fakeImages) GenerateImage(_ context.Context, prompt string) (image.Image, error) {
	if f.fail != nil && f.fail(prompt) {
		return nil, errors.New(f.name + " failed")
	}
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

type fakeClips struct {
	name string
	fail func(prompt string) bool
}

func (f *fakeClips) Name() string { return f.name }

func (f *fakeClips) GenerateClip(_ context.Context, prompt string) ([]byte, error) {
	if f.fail != nil && f.fail(prompt) {
		return nil, errors.New(f.name + " failed")
	}
	return []byte("clip:" + prompt), nil
}

// fakeMedia writes placeholder outputs and records what it was asked to do.
type fakeMedia struct {
	clipDuration  time.Duration
	muxErr        error
	normalizeFail func(in string) bool

	mu          sync.Mutex
	silences    []string
	normalized  []string
	audioList   string
	framesList  string
	clipsList   string
	muxSubtitle string
	muxCalls    int
}

func (m *fakeMedia) NormalizeAudio(_ context.Context, in, outWav string) error {
	m.mu.Lock()
	m.normalized = append(m.normalized, in)
	m.mu.Unlock()
	if m.normalizeFail != nil && m.normalizeFail(in) {
		return errors.New("invalid data found when processing " + in)
	}
	return os.WriteFile(outWav, []byte("wav"), 0o644)
}

func (m *fakeMedia) Silence(_ context.Context, d time.Duration, outWav string) error {
	m.mu.Lock()
	m.silences = append(m.silences, outWav)
	m.mu.Unlock()
	if d != time.Second {
		return errors.New("unexpected silence length " + d.String())
	}
	return os.WriteFile(outWav, []byte("silence"), 0o644)
}

func (m *fakeMedia) ProbeDuration(context.Context, string) (time.Duration, error) {
	if m.clipDuration == 0 {
		return 2 * time.Second, nil
	}
	return m.clipDuration, nil
}

func (m *fakeMedia) ConcatAudio(_ context.Context, listPath, outPath string) error {
	b, err := os.ReadFile(listPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.audioList = string(b)
	m.mu.Unlock()
	return os.WriteFile(outPath, []byte("mp3"), 0o644)
}

func (m *fakeMedia) ConcatFrames(_ context.Context, listPath, outMP4 string) error {
	b, err := os.ReadFile(listPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.framesList = string(b)
	m.mu.Unlock()
	return os.WriteFile(outMP4, []byte("raw"), 0o644)
}

func (m *fakeMedia) ConcatClips(_ context.Context, listPath, outMP4 string) error {
	b, err := os.ReadFile(listPath)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.clipsList = string(b)
	m.mu.Unlock()
	return os.WriteFile(outMP4, []byte("combined"), 0o644)
}

func (m *fakeMedia) Mux(_ context.Context, _, _, subtitlesPath, outMP4 string) error {
	m.mu.Lock()
	m.muxCalls++
	m.muxSubtitle = subtitlesPath
	m.mu.Unlock()
	if m.muxErr != nil {
		return m.muxErr
	}
	return os.WriteFile(outMP4, []byte("final"), 0o644)
}

func (m *fakeMedia) subtitles() string {
	m.mu.Lock()
	p := m.muxSubtitle
	m.mu.Unlock()
	if p == "" {
		return ""
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return string(b)
}

func countLines(s, prefix string) int {
	n := 0
	for _, l := range strings.Split(s, "\n") {
		if strings.HasPrefix(l, prefix) {
			n++
		}
	}
	return n
}
