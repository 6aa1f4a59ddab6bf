package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	c := Default()
	if err := c.applyEnv(func(string) (string, bool) { return "", false }); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if c.Concurrency != 4 || c.RequestsPerMinute != 60 || c.Width != 768 || c.Height != 768 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.RequestTimeout != 30*time.Second || c.Poll.Interval != 1500*time.Millisecond {
		t.Fatalf("unexpected timing defaults: %v %v", c.RequestTimeout, c.Poll.Interval)
	}
	if c.Replicate.PrimaryModel != "black-forest-labs/flux-schnell" || c.Replicate.FallbackModel != "google/imagen-3-fast" {
		t.Fatalf("unexpected replicate models: %+v", c.Replicate)
	}
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv("GROQ_MODEL", "")
	t.Setenv("GROQ_BASE_URL", "")
	p := filepath.Join(t.TempDir(), "vision.yaml")
	body := strings.Join([]string{
		"groq:",
		"  model: llama-3.1-8b-instant",
		"poll:",
		"  interval: 2s",
		"  max_attempts: 10",
		"request_timeout: 45s",
		"width: 1280",
		"height: 720",
		"elevenlabs:",
		"  keys: [a, b]",
		"",
	}, "\n")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	c, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Groq.Model != "llama-3.1-8b-instant" {
		t.Fatalf("model not overridden: %q", c.Groq.Model)
	}
	if c.Groq.BaseURL != "https://api.groq.com" {
		t.Fatalf("unset key lost its default: %q", c.Groq.BaseURL)
	}
	if c.Poll.Interval != 2*time.Second || c.Poll.MaxAttempts != 10 || c.Poll.Timeout != 5*time.Minute {
		t.Fatalf("unexpected poll settings: %+v", c.Poll)
	}
	if c.RequestTimeout != 45*time.Second || c.Width != 1280 || c.Height != 720 {
		t.Fatalf("unexpected overrides: %+v", c)
	}
}

func TestLoad_Errors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	p := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(p, []byte("width: [not, a, number]\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"GROQ_API_KEY":         "gsk",
		"OPENROUTER_API_KEY":   "sk-or",
		"ELEVEN_KEY_PRIMARY":   "e1",
		"ELEVEN_KEY_FALLBACK1": "  ",
		"ELEVEN_KEY_FALLBACK2": "e3",
		"REPLICATE_API_TOKEN":  "r8",
		"VISION_ALLOWED_HOSTS": "api.groq.com, proxy.internal ,",
		"VISION_CONCURRENCY":   "8",
	}
	c := Default()
	c.ElevenLabs.Keys = []string{"from-yaml"}
	if err := c.applyEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok }); err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if c.Groq.APIKey != "gsk" || c.OpenRouter.APIKey != "sk-or" || c.Replicate.Token != "r8" {
		t.Fatalf("credentials not applied: %+v", c)
	}
	if !reflect.DeepEqual(c.ElevenLabs.Keys, []string{"e1", "e3"}) {
		t.Fatalf("unexpected eleven keys: %v", c.ElevenLabs.Keys)
	}
	if !reflect.DeepEqual(c.AllowedHosts, []string{"api.groq.com", "proxy.internal"}) {
		t.Fatalf("unexpected allowed hosts: %v", c.AllowedHosts)
	}
	if c.Concurrency != 8 {
		t.Fatalf("unexpected concurrency %d", c.Concurrency)
	}
}

func TestApplyEnv_BadNumber(t *testing.T) {
	c := Default()
	err := c.applyEnv(func(k string) (string, bool) {
		if k == "VISION_REQUESTS_PER_MINUTE" {
			return "lots", true
		}
		return "", false
	})
	if err == nil || !strings.Contains(err.Error(), "VISION_REQUESTS_PER_MINUTE") {
		t.Fatalf("expected parse error, got %v", err)
	}
}
