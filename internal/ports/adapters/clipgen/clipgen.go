// Package clipgen requests short video clips from text-to-video services
// (Runway, Pika) that share a prompt-in, video-url-out contract.
package clipgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/saivivek-01/VISION/internal/poll"
)

type Options struct {
	Name    string
	APIKey  string
	BaseURL string
	Path    string
	Timeout time.Duration
	Poll    poll.Options
}

type Adapter struct {
	name   string
	key    string
	url    string
	poll   poll.Options
	client *http.Client
}

const (
	defaultPath    = "/v1/generate"
	defaultTimeout = 60 * time.Second
	maxClipBytes   = 256 << 20
)

type job struct {
	VideoURL  string `json:"video_url"`
	StatusURL string `json:"status_url"`
	Status    string `json:"status"`
	Error     string `json:"error"`
}

func New(o Options) *Adapter {
	if o.Path == "" {
		o.Path = defaultPath
	}
	if !strings.HasPrefix(o.Path, "/") {
		o.Path = "/" + o.Path
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Adapter{
		name:   o.Name,
		key:    o.APIKey,
		url:    strings.TrimRight(o.BaseURL, "/") + o.Path,
		poll:   o.Poll,
		client: &http.Client{Timeout: o.Timeout},
	}
}

func (a *Adapter) Name() string { return a.name }

// GenerateClip returns the encoded clip bytes. Services that answer with a
// status_url instead of a video_url are polled until a video_url shows up.
func (a *Adapter) GenerateClip(ctx context.Context, prompt string) ([]byte, error) {
	if strings.TrimSpace(a.key) == "" {
		return nil, fmt.Errorf("%s: api key is not configured", a.name)
	}
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	j, err := a.do(req)
	if err != nil {
		return nil, err
	}

	if j.VideoURL == "" {
		if j.StatusURL == "" {
			return nil, fmt.Errorf("%s: response has neither video_url nor status_url", a.name)
		}
		err = poll.Until(ctx, a.poll, func(ctx context.Context) (bool, error) {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.StatusURL, nil)
			if err != nil {
				return false, err
			}
			next, err := a.do(req)
			if err != nil {
				return false, err
			}
			if next.StatusURL == "" {
				next.StatusURL = j.StatusURL
			}
			j = next
			if j.VideoURL != "" {
				return true, nil
			}
			switch strings.ToLower(j.Status) {
			case "failed", "canceled", "cancelled", "error":
				return false, fmt.Errorf("%s: job %s: %s", a.name, j.Status, j.Error)
			}
			return false, nil
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", a.name, err)
		}
	}
	return a.download(ctx, j.VideoURL)
}

func (a *Adapter) do(req *http.Request) (job, error) {
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Accept", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return job{}, err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return job{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.ReplaceAll(strings.TrimSpace(string(rb)), a.key, "[REDACTED]")
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return job{}, fmt.Errorf("%s http %d: %s", a.name, resp.StatusCode, msg)
	}
	var j job
	if err := json.Unmarshal(rb, &j); err != nil {
		return job{}, fmt.Errorf("decode %s response: %w", a.name, err)
	}
	return j, nil
}

func (a *Adapter) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: download http %d", a.name, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxClipBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read clip: %w", a.name, err)
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("%s: empty clip", a.name)
	}
	return b, nil
}
