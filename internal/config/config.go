package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Defaults for the local inference backends. The Ollama values match the
// translation model the tool is tuned for; override them per run with flags
// or a config file.
const (
	DefaultOllamaModel    = "qwen2.5:7b"
	DefaultOllamaBaseURL  = "http://localhost:11434"
	DefaultWhisperBaseURL = "http://127.0.0.1:8080"

	// DefaultSegmentsPerChunk bounds the context window handed to a
	// translation backend per chunk file.
	DefaultSegmentsPerChunk = 100
)

// Translation holds settings for the translation backend.
type Translation struct {
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
}

// Transcription holds settings for the local transcription backend.
type Transcription struct {
	BaseURL string `json:"base_url"`
}

// Config is the full application configuration. It is always passed
// explicitly; no package in this module reads configuration behind the
// caller's back.
type Config struct {
	Translation      Translation   `json:"translation"`
	Transcription    Transcription `json:"transcription"`
	SegmentsPerChunk int           `json:"segments_per_chunk"`
}

// Default returns a Config built from the named constants above.
func Default() *Config {
	return &Config{
		Translation: Translation{
			Model:   DefaultOllamaModel,
			BaseURL: DefaultOllamaBaseURL,
		},
		Transcription: Transcription{
			BaseURL: DefaultWhisperBaseURL,
		},
		SegmentsPerChunk: DefaultSegmentsPerChunk,
	}
}

// Load overlays the JSON file at path onto the defaults. Fields absent from
// the file keep their default values. A missing file is an error; callers
// that treat the file as optional should check for it first.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// json.Unmarshal leaves absent fields untouched, but an explicit empty
	// string would hollow out a default
	if cfg.Translation.Model == "" {
		cfg.Translation.Model = DefaultOllamaModel
	}
	if cfg.Translation.BaseURL == "" {
		cfg.Translation.BaseURL = DefaultOllamaBaseURL
	}
	if cfg.Transcription.BaseURL == "" {
		cfg.Transcription.BaseURL = DefaultWhisperBaseURL
	}
	if cfg.SegmentsPerChunk <= 0 {
		cfg.SegmentsPerChunk = DefaultSegmentsPerChunk
	}

	return cfg, nil
}
