package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/saivivek-01/VISION/internal/config"
	"github.com/saivivek-01/VISION/internal/poll"
	"github.com/saivivek-01/VISION/internal/ports"
	"github.com/saivivek-01/VISION/internal/ports/adapters/chat"
	"github.com/saivivek-01/VISION/internal/ports/adapters/clipgen"
	"github.com/saivivek-01/VISION/internal/ports/adapters/elevenlabs"
	"github.com/saivivek-01/VISION/internal/ports/adapters/espeak"
	"github.com/saivivek-01/VISION/internal/ports/adapters/ffmpeg"
	"github.com/saivivek-01/VISION/internal/ports/adapters/replicate"
	"github.com/saivivek-01/VISION/internal/types"
	"github.com/saivivek-01/VISION/internal/usecase"
)

type Config struct {
	Input  string
	Mode   types.Mode
	OutDir string
	Log    zerolog.Logger

	config.Config
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	switch c.Mode {
	case types.ModeSegmented, types.ModeFull:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", types.ModeSegmented, types.ModeFull, c.Mode)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("resolution must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be > 0")
	}
	if err := chat.ValidateBaseURL("GROQ_BASE_URL", c.Groq.BaseURL, c.AllowedHosts); err != nil {
		return err
	}
	return chat.ValidateBaseURL("OPENROUTER_BASE_URL", c.OpenRouter.BaseURL, c.AllowedHosts)
}

// Run renders the document into a new directory under OutDir and returns
// the path of the final video.
func Run(ctx context.Context, cfg Config) (string, error) {
	log := cfg.Log

	runOutDir := buildRunOutDir(outRoot(cfg.OutDir), cfg.Input, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return "", err
	}
	log.Info().Str("dir", runOutDir).Str("mode", string(cfg.Mode)).Msg("output run dir")

	uc := usecase.New(buildDeps(cfg))
	res, err := uc.Run(ctx, usecase.Input{
		Document: cfg.Input,
		Mode:     cfg.Mode,
		OutDir:   runOutDir,
	})
	if err != nil {
		return "", err
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal manifest: %w", err)
	}
	manifestPath := filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(manifestPath, b, 0o644); err != nil {
		return "", err
	}
	log.Info().Int("scenes", len(res.Manifest.Scenes)).Str("manifest", manifestPath).Msg("manifest written")
	return res.VideoPath, nil
}

func buildDeps(cfg Config) usecase.Deps {
	pollOpts := poll.Options{
		Interval:    cfg.Poll.Interval,
		MaxAttempts: cfg.Poll.MaxAttempts,
		Timeout:     cfg.Poll.Timeout,
	}

	d := usecase.Deps{
		Text: []ports.TextGenerator{
			chatAdapter("groq", cfg.Groq, cfg.RequestTimeout),
			chatAdapter("openrouter", cfg.OpenRouter, cfg.RequestTimeout),
		},
		Speech: []ports.SpeechSynthesizer{
			elevenlabs.New(elevenlabs.Options{
				Keys:    cfg.ElevenLabs.Keys,
				VoiceID: cfg.ElevenLabs.VoiceID,
				Model:   cfg.ElevenLabs.Model,
				BaseURL: cfg.ElevenLabs.BaseURL,
				Log:     cfg.Log,
			}),
			espeak.New(cfg.Espeak.Bin, cfg.Espeak.Voice),
		},
		Clips: []ports.ClipGenerator{
			clipAdapter("runway", cfg.Runway, cfg.RequestTimeout, pollOpts),
			clipAdapter("pika", cfg.Pika, cfg.RequestTimeout, pollOpts),
		},
		Media:       ffmpeg.New(cfg.FFmpegPath, cfg.FFprobePath),
		Log:         cfg.Log,
		Concurrency: cfg.Concurrency,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}
	for _, model := range []string{cfg.Replicate.PrimaryModel, cfg.Replicate.FallbackModel} {
		if model == "" {
			continue
		}
		d.Images = append(d.Images, replicate.New(replicate.Options{
			Token:   cfg.Replicate.Token,
			Model:   model,
			BaseURL: cfg.Replicate.BaseURL,
			Timeout: cfg.RequestTimeout,
			Poll:    pollOpts,
		}))
	}
	if cfg.RequestsPerMinute > 0 {
		d.Limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1)
	}
	return d
}

func chatAdapter(name string, p config.ChatProvider, timeout time.Duration) *chat.Adapter {
	return chat.New(chat.Options{
		Name:    name,
		APIKey:  p.APIKey,
		Model:   p.Model,
		BaseURL: p.BaseURL,
		Path:    p.Path,
		Timeout: timeout,
	})
}

func clipAdapter(name string, p config.ClipProvider, timeout time.Duration, pollOpts poll.Options) *clipgen.Adapter {
	return clipgen.New(clipgen.Options{
		Name:    name,
		APIKey:  p.APIKey,
		BaseURL: p.BaseURL,
		Path:    p.Path,
		Timeout: timeout,
		Poll:    pollOpts,
	})
}

func outRoot(dir string) string {
	if dir == "" {
		return "out"
	}
	return dir
}

func buildRunOutDir(outRoot, input string, now time.Time) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	name = normalizePathSegment(name)
	if name == "" {
		name = "document"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", input, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var (
	_ ports.TextGenerator     = (*chat.Adapter)(nil)
	_ ports.SpeechSynthesizer = (*elevenlabs.Adapter)(nil)
	_ ports.SpeechSynthesizer = (*espeak.Adapter)(nil)
	_ ports.ImageGenerator    = (*replicate.Adapter)(nil)
	_ ports.ClipGenerator     = (*clipgen.Adapter)(nil)
	_ ports.MediaTool         = (*ffmpeg.Adapter)(nil)
)
