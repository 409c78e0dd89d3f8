package transcribe

import (
	"context"
	"fmt"
	"time"

	"github.com/nmelo/sublate/internal/subtitle"
)

// Result of transcribing one audio file.
type Result struct {
	Segments []subtitle.Segment
	Language string
	Duration time.Duration
}

// Transcriber turns an audio file into an ordered segment sequence.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (*Result, error)
}

// Provider selects a transcription backend.
type Provider string

const (
	// ProviderWhisper is a whisper.cpp style server on localhost.
	ProviderWhisper Provider = "whisper"
	// ProviderOpenAI is the hosted Whisper API.
	ProviderOpenAI Provider = "openai"
)

// Options for transcription.
type Options struct {
	Language string // source language code, empty for auto-detect
	Model    string
	BaseURL  string // whisper server address (ProviderWhisper only)
	Prompt   string
}

// Factory creates a Transcriber for the given provider.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Transcriber, error) {
	switch provider {
	case ProviderWhisper:
		return NewWhisperServerTranscriber(opts)
	case ProviderOpenAI:
		return NewOpenAITranscriber(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}
