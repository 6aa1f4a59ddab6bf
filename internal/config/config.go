// Package config loads run settings from built-in defaults, an optional YAML
// file and environment variables, in that order of precedence.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type ChatProvider struct {
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"base_url"`
	Path    string `yaml:"path"`
}

type ClipProvider struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
	Path    string `yaml:"path"`
}

type Config struct {
	Groq         ChatProvider `yaml:"groq"`
	OpenRouter   ChatProvider `yaml:"openrouter"`
	AllowedHosts []string     `yaml:"allowed_hosts"`

	ElevenLabs struct {
		Keys    []string `yaml:"keys"`
		VoiceID string   `yaml:"voice_id"`
		Model   string   `yaml:"model"`
		BaseURL string   `yaml:"base_url"`
	} `yaml:"elevenlabs"`

	Espeak struct {
		Bin   string `yaml:"bin"`
		Voice string `yaml:"voice"`
	} `yaml:"espeak"`

	Replicate struct {
		Token         string `yaml:"token"`
		PrimaryModel  string `yaml:"primary_model"`
		FallbackModel string `yaml:"fallback_model"`
		BaseURL       string `yaml:"base_url"`
	} `yaml:"replicate"`

	Runway ClipProvider `yaml:"runway"`
	Pika   ClipProvider `yaml:"pika"`

	Poll struct {
		Interval    time.Duration `yaml:"interval"`
		MaxAttempts int           `yaml:"max_attempts"`
		Timeout     time.Duration `yaml:"timeout"`
	} `yaml:"poll"`

	RequestTimeout    time.Duration `yaml:"request_timeout"`
	Concurrency       int           `yaml:"concurrency"`
	RequestsPerMinute int           `yaml:"requests_per_minute"`
	Width             int           `yaml:"width"`
	Height            int           `yaml:"height"`

	FFmpegPath  string `yaml:"ffmpeg"`
	FFprobePath string `yaml:"ffprobe"`
}

func Default() Config {
	var c Config
	c.Groq = ChatProvider{
		Model:   "llama3-8b-8192",
		BaseURL: "https://api.groq.com",
		Path:    "/openai/v1/chat/completions",
	}
	c.OpenRouter = ChatProvider{
		Model:   "meta-llama/llama-3-8b-instruct",
		BaseURL: "https://openrouter.ai",
		Path:    "/api/v1/chat/completions",
	}
	c.ElevenLabs.VoiceID = "21m00Tcm4TlvDq8ikWAM"
	c.ElevenLabs.Model = "eleven_multilingual_v2"
	c.ElevenLabs.BaseURL = "https://api.elevenlabs.io"
	c.Espeak.Bin = "espeak-ng"
	c.Replicate.PrimaryModel = "black-forest-labs/flux-schnell"
	c.Replicate.FallbackModel = "google/imagen-3-fast"
	c.Replicate.BaseURL = "https://api.replicate.com"
	c.Runway = ClipProvider{BaseURL: "https://api.runwayml.com", Path: "/v1/generate"}
	c.Pika = ClipProvider{BaseURL: "https://api.pika.art", Path: "/v1/generate"}
	c.Poll.Interval = 1500 * time.Millisecond
	c.Poll.MaxAttempts = 120
	c.Poll.Timeout = 5 * time.Minute
	c.RequestTimeout = 30 * time.Second
	c.Concurrency = 4
	c.RequestsPerMinute = 60
	c.Width = 768
	c.Height = 768
	c.FFmpegPath = "ffmpeg"
	c.FFprobePath = "ffprobe"
	return c
}

// Load applies the YAML file at path (if any) and then the environment on
// top of Default. Keys absent from the file keep their defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := c.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parse %s: %w", key, err)
		}
		*dst = n
		return nil
	}

	str("GROQ_API_KEY", &c.Groq.APIKey)
	str("GROQ_MODEL", &c.Groq.Model)
	str("GROQ_BASE_URL", &c.Groq.BaseURL)
	str("OPENROUTER_API_KEY", &c.OpenRouter.APIKey)
	str("OPENROUTER_MODEL", &c.OpenRouter.Model)
	str("OPENROUTER_BASE_URL", &c.OpenRouter.BaseURL)
	if v, ok := lookup("VISION_ALLOWED_HOSTS"); ok && strings.TrimSpace(v) != "" {
		c.AllowedHosts = splitList(v)
	}

	var eleven []string
	for _, key := range []string{"ELEVEN_KEY_PRIMARY", "ELEVEN_KEY_FALLBACK1", "ELEVEN_KEY_FALLBACK2"} {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			eleven = append(eleven, strings.TrimSpace(v))
		}
	}
	if len(eleven) > 0 {
		c.ElevenLabs.Keys = eleven
	}
	str("ELEVEN_VOICE_ID", &c.ElevenLabs.VoiceID)
	str("ELEVEN_BASE_URL", &c.ElevenLabs.BaseURL)
	str("ESPEAK_BIN", &c.Espeak.Bin)

	str("REPLICATE_API_TOKEN", &c.Replicate.Token)
	str("REPLICATE_BASE_URL", &c.Replicate.BaseURL)
	str("RUNWAY_API_KEY", &c.Runway.APIKey)
	str("RUNWAY_BASE_URL", &c.Runway.BaseURL)
	str("PIKA_API_KEY", &c.Pika.APIKey)
	str("PIKA_BASE_URL", &c.Pika.BaseURL)

	str("FFMPEG_PATH", &c.FFmpegPath)
	str("FFPROBE_PATH", &c.FFprobePath)

	if err := num("VISION_CONCURRENCY", &c.Concurrency); err != nil {
		return err
	}
	return num("VISION_REQUESTS_PER_MINUTE", &c.RequestsPerMinute)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
