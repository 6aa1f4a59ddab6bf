package espeak

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

type Adapter struct {
	bin   string
	voice string
}

func New(binPath, voice string) *Adapter {
	if binPath == "" {
		binPath = "espeak-ng"
	}
	return &Adapter{bin: binPath, voice: voice}
}

func (a *Adapter) Name() string { return "espeak-ng" }

// Synthesize renders text offline into outBase+".wav".
func (a *Adapter) Synthesize(ctx context.Context, text, outBase string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("espeak-ng: empty text")
	}
	out := outBase + ".wav"
	args := []string{"-w", out}
	if a.voice != "" {
		args = append(args, "-v", a.voice)
	}
	args = append(args, "--", text)

	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("espeak-ng failed: %w\n%s", err, string(b))
	}
	if st, err := os.Stat(out); err != nil || st.Size() == 0 {
		return "", fmt.Errorf("espeak-ng produced no audio at %s", out)
	}
	return out, nil
}
