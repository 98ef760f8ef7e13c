package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/SamuelOhO/Tell-your-story/internal/domain"
)

// Config stores runtime configuration for the interview client.
type Config struct {
	Backend   BackendConfig   `koanf:"backend"`
	Interview InterviewConfig `koanf:"interview"`
	Audio     AudioConfig     `koanf:"audio"`
	Playback  PlaybackConfig  `koanf:"playback"`
}

type BackendConfig struct {
	BaseURL        string `koanf:"base_url"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`
}

func (c BackendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type InterviewConfig struct {
	DefaultQuestion string `koanf:"default_question"`
}

type AudioConfig struct {
	RecorderCommand string `koanf:"recorder_command"`
	InputFormat     string `koanf:"input_format"`
	InputDevice     string `koanf:"input_device"`
	SampleRate      int    `koanf:"sample_rate"`
	Channels        int    `koanf:"channels"`
	ChunkSize       int    `koanf:"chunk_size"`
}

type PlaybackConfig struct {
	Command string `koanf:"command"`
}

// Load resolves configuration from defaults, an optional YAML file named by
// STORY_CONFIG_FILE, and STORY_* environment variables, in that precedence.
// Env keys use a double underscore as the section separator, e.g.
// STORY_BACKEND__BASE_URL.
func Load() (Config, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"backend.base_url":           "http://localhost:8000",
		"backend.timeout_seconds":    30,
		"interview.default_question": domain.DefaultQuestion,
		"audio.recorder_command":     "ffmpeg",
		"audio.input_format":         "pulse",
		"audio.input_device":         "default",
		"audio.sample_rate":          16000,
		"audio.channels":             1,
		"audio.chunk_size":           4096,
		"playback.command":           "ffplay",
	}
	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return Config{}, err
		}
	}

	if path := strings.TrimSpace(os.Getenv("STORY_CONFIG_FILE")); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, err
		}
	}

	if err := k.Load(env.Provider("STORY_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "STORY_")), "__", ".")
	}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = "http://localhost:8000"
	}
	if cfg.Backend.TimeoutSeconds <= 0 {
		cfg.Backend.TimeoutSeconds = 30
	}
	if cfg.Interview.DefaultQuestion == "" {
		cfg.Interview.DefaultQuestion = domain.DefaultQuestion
	}
	if cfg.Audio.SampleRate <= 0 {
		cfg.Audio.SampleRate = 16000
	}
	if cfg.Audio.Channels <= 0 {
		cfg.Audio.Channels = 1
	}
	if cfg.Audio.ChunkSize < 256 {
		cfg.Audio.ChunkSize = 4096
	}

	return cfg, nil
}
