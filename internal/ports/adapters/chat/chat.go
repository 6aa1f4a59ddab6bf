// Package chat talks to OpenAI-compatible chat completion endpoints
// (Groq, OpenRouter).
package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

type Options struct {
	Name        string
	APIKey      string
	Model       string
	BaseURL     string
	Path        string
	Timeout     time.Duration
	Temperature float64
}

type Adapter struct {
	name        string
	key         string
	model       string
	url         string
	timeout     time.Duration
	temperature float64
	client      *http.Client
}

const (
	defaultTimeout     = 30 * time.Second
	defaultTemperature = 0.5
)

func New(o Options) *Adapter {
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Temperature <= 0 {
		o.Temperature = defaultTemperature
	}
	path := o.Path
	if path == "" {
		path = "/v1/chat/completions"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return &Adapter{
		name:        o.Name,
		key:         o.APIKey,
		model:       o.Model,
		url:         normalizeBaseURL(o.BaseURL) + path,
		timeout:     o.Timeout,
		temperature: o.Temperature,
		client:      &http.Client{Timeout: 2 * o.Timeout},
	}
}

func (a *Adapter) Name() string { return a.name }

// Generate sends instruction as the system message and input as the user
// message, returning the trimmed assistant reply.
func (a *Adapter) Generate(ctx context.Context, instruction, input string) (string, error) {
	if strings.TrimSpace(a.key) == "" {
		return "", fmt.Errorf("%s: api key is not configured", a.name)
	}

	payload := map[string]any{
		"model":  a.model,
		"stream": false,
		"messages": []map[string]string{
			{"role": "system", "content": instruction},
			{"role": "user", "content": input},
		},
		"temperature": a.temperature,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, a.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() == nil && errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s timeout after %s (model=%s)", a.name, a.timeout, a.model)
		}
		return "", fmt.Errorf("%s: %s", a.name, redactSecrets(err.Error(), a.key))
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return "", fmt.Errorf("%s status %d and read body failed: %v", a.name, resp.StatusCode, readErr)
		}
		return "", fmt.Errorf("%s status %d: %s", a.name, resp.StatusCode, truncate(redactSecrets(string(rb), a.key), 400))
	}

	var raw struct {
		Choices []struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", a.name, err)
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("%s: no choices returned", a.name)
	}
	content, err := messageContentToString(raw.Choices[0].Message.Content)
	if err != nil {
		return "", fmt.Errorf("%s: %w", a.name, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return "", fmt.Errorf("%s: empty content", a.name)
	}
	return content, nil
}

func messageContentToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []any:
		// Some providers return an array of {type,text} parts.
		var b strings.Builder
		for _, it := range x {
			m, ok := it.(map[string]any)
			if !ok {
				continue
			}
			if t, ok := m["text"].(string); ok {
				b.WriteString(t)
			}
		}
		s := b.String()
		if strings.TrimSpace(s) == "" {
			return "", errors.New("empty content")
		}
		return s, nil
	default:
		return "", fmt.Errorf("unexpected content type %T", v)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
