// Package replicate generates still images through Replicate predictions.
package replicate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	"github.com/saivivek-01/VISION/internal/poll"
)

type Options struct {
	Token   string
	Model   string
	BaseURL string
	Timeout time.Duration
	Poll    poll.Options
}

// Adapter runs one model. Build one per model to chain them.
type Adapter struct {
	token   string
	model   string
	baseURL string
	poll    poll.Options
	client  *http.Client
}

const (
	defaultBaseURL = "https://api.replicate.com"
	defaultTimeout = 30 * time.Second
	maxImageBytes  = 32 << 20
)

type prediction struct {
	ID     string          `json:"id"`
	Status string          `json:"status"`
	Output json.RawMessage `json:"output"`
	Error  any             `json:"error"`
	URLs   struct {
		Get string `json:"get"`
	} `json:"urls"`
}

func New(o Options) *Adapter {
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	return &Adapter{
		token:   o.Token,
		model:   o.Model,
		baseURL: strings.TrimRight(o.BaseURL, "/"),
		poll:    o.Poll,
		client:  &http.Client{Timeout: o.Timeout},
	}
}

func (a *Adapter) Name() string { return "replicate " + a.model }

func (a *Adapter) GenerateImage(ctx context.Context, prompt string) (image.Image, error) {
	if strings.TrimSpace(a.token) == "" {
		return nil, fmt.Errorf("replicate: api token is not configured")
	}

	p, err := a.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if p.URLs.Get == "" && !terminal(p.Status) {
		return nil, fmt.Errorf("replicate: prediction %s has no status url", p.ID)
	}

	statusURL := p.URLs.Get
	err = poll.Until(ctx, a.poll, func(ctx context.Context) (bool, error) {
		if terminal(p.Status) {
			return true, nil
		}
		next, err := a.get(ctx, statusURL)
		if err != nil {
			return false, err
		}
		if next.URLs.Get == "" {
			next.URLs.Get = statusURL
		}
		p = next
		return terminal(p.Status), nil
	})
	if err != nil {
		return nil, fmt.Errorf("replicate %s: %w", a.model, err)
	}
	if p.Status != "succeeded" {
		return nil, fmt.Errorf("replicate %s: prediction %s ended %s: %v", a.model, p.ID, p.Status, p.Error)
	}

	url, err := firstOutputURL(p.Output)
	if err != nil {
		return nil, err
	}
	return a.download(ctx, url)
}

// submit posts a prediction. "owner/name" models go to the model endpoint,
// anything else is treated as a version id.
func (a *Adapter) submit(ctx context.Context, prompt string) (prediction, error) {
	payload := map[string]any{"input": map[string]any{"prompt": prompt}}
	url := a.baseURL + "/v1/predictions"
	if strings.Count(a.model, "/") == 1 && !strings.Contains(a.model, ":") {
		url = a.baseURL + "/v1/models/" + a.model + "/predictions"
	} else {
		version := a.model
		if i := strings.LastIndex(version, ":"); i >= 0 {
			version = version[i+1:]
		}
		payload["version"] = version
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return prediction{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return prediction{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	return a.do(req)
}

func (a *Adapter) get(ctx context.Context, url string) (prediction, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return prediction{}, err
	}
	return a.do(req)
}

func (a *Adapter) do(req *http.Request) (prediction, error) {
	req.Header.Set("Authorization", "Bearer "+a.token)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return prediction{}, err
	}
	defer resp.Body.Close()

	rb, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return prediction{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(rb))
		if len(msg) > 300 {
			msg = msg[:300]
		}
		return prediction{}, fmt.Errorf("replicate http %d: %s", resp.StatusCode, msg)
	}
	var p prediction
	if err := json.Unmarshal(rb, &p); err != nil {
		return prediction{}, fmt.Errorf("decode prediction: %w", err)
	}
	return p, nil
}

func (a *Adapter) download(ctx context.Context, url string) (image.Image, error) {
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
		return nil, fmt.Errorf("download %s: http %d", url, resp.StatusCode)
	}
	img, _, err := image.Decode(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

func terminal(status string) bool {
	switch status {
	case "succeeded", "failed", "canceled":
		return true
	}
	return false
}

// firstOutputURL accepts both a single URL and a list of URLs.
func firstOutputURL(raw json.RawMessage) (string, error) {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil && one != "" {
		return one, nil
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil && len(many) > 0 && many[0] != "" {
		return many[0], nil
	}
	return "", fmt.Errorf("replicate: no output url in %s", truncate(string(raw), 200))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
