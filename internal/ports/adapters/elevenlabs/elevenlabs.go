// Package elevenlabs synthesizes speech with the ElevenLabs text-to-speech
// API, rotating through several API keys.
package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/saivivek-01/VISION/internal/fallback"
)

type Options struct {
	Keys    []string
	VoiceID string
	Model   string
	BaseURL string
	Timeout time.Duration
	Log     zerolog.Logger
}

type Adapter struct {
	keys    []credential
	voiceID string
	model   string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

const (
	defaultBaseURL = "https://api.elevenlabs.io"
	defaultVoiceID = "21m00Tcm4TlvDq8ikWAM"
	defaultModel   = "eleven_multilingual_v2"
	defaultTimeout = 60 * time.Second
)

type credential string

// Name identifies a key by its last four characters only.
func (c credential) Name() string {
	s := string(c)
	if len(s) > 4 {
		s = s[len(s)-4:]
	}
	return "elevenlabs key ..." + s
}

func New(o Options) *Adapter {
	keys := make([]credential, 0, len(o.Keys))
	for _, k := range o.Keys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, credential(k))
		}
	}
	if o.VoiceID == "" {
		o.VoiceID = defaultVoiceID
	}
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Adapter{
		keys:    keys,
		voiceID: o.VoiceID,
		model:   o.Model,
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		client:  &http.Client{Timeout: o.Timeout},
		log:     o.Log,
	}
}

func (a *Adapter) Name() string { return "elevenlabs" }

// Synthesize writes outBase+".mp3" using the first key that gets a 200.
func (a *Adapter) Synthesize(ctx context.Context, text, outBase string) (string, error) {
	if len(a.keys) == 0 {
		return "", fmt.Errorf("elevenlabs: no api keys configured")
	}
	payload := map[string]any{
		"text":     text,
		"model_id": a.model,
		"voice_settings": map[string]any{
			"stability":        0.4,
			"similarity_boost": 0.8,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	audio, err := fallback.Chain(ctx, a.log, a.keys, func(ctx context.Context, key credential) ([]byte, error) {
		return a.request(ctx, string(key), body)
	})
	if err != nil {
		return "", err
	}

	out := outBase + ".mp3"
	if err := os.WriteFile(out, audio, 0o644); err != nil {
		return "", err
	}
	return out, nil
}

func (a *Adapter) request(ctx context.Context, key string, body []byte) ([]byte, error) {
	url := a.baseURL + "/v1/text-to-speech/" + a.voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("xi-api-key", key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.ReplaceAll(strings.TrimSpace(string(rb)), key, "[REDACTED]")
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}
	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty audio body")
	}
	return audio, nil
}
