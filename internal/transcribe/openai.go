package transcribe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/nmelo/sublate/internal/subtitle"
)

// OpenAITranscriber implements Transcriber using the hosted Whisper API.
type OpenAITranscriber struct {
	client  openai.Client
	model   string
	options Options
}

func NewOpenAITranscriber(
	ctx context.Context,
	apiKey string,
	opts Options,
) (*OpenAITranscriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))

	model := opts.Model
	if model == "" {
		model = "whisper-1"
	}

	return &OpenAITranscriber{
		client:  client,
		model:   model,
		options: opts,
	}, nil
}

// Transcribe sends the audio file for transcription with segment-level
// timestamps.
func (t *OpenAITranscriber) Transcribe(
	ctx context.Context,
	audioPath string,
) (*Result, error) {
	if _, err := os.Stat(audioPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("audio file not found: %s", audioPath)
	}

	file, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer file.Close()

	params := openai.AudioTranscriptionNewParams{
		File:                   file,
		Model:                  openai.AudioModel(t.model),
		ResponseFormat:         openai.AudioResponseFormatVerboseJSON,
		TimestampGranularities: []string{"segment"},
	}
	if t.options.Language != "" {
		params.Language = openai.String(t.options.Language)
	}
	if t.options.Prompt != "" {
		params.Prompt = openai.String(t.options.Prompt)
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}

	var verbose whisperVerboseResponse
	if err := json.Unmarshal([]byte(resp.RawJSON()), &verbose); err != nil {
		return nil, fmt.Errorf(
			"failed to parse verbose_json response: %w", err,
		)
	}

	segments := verbose.toSegments()
	if len(segments) == 0 {
		text := strings.TrimSpace(resp.Text)
		if text == "" {
			return nil, fmt.Errorf("no segments or text in response")
		}
		segments = []subtitle.Segment{{
			Start: 0,
			End:   verbose.Duration,
			Text:  text,
		}}
	}

	language := verbose.Language
	if language == "" {
		language = t.options.Language
	}

	return &Result{
		Segments: segments,
		Language: language,
		Duration: time.Duration(verbose.Duration * float64(time.Second)),
	}, nil
}
