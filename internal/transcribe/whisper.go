package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nmelo/sublate/internal/subtitle"
)

const defaultWhisperBaseURL = "http://127.0.0.1:8080"

// segment from a Whisper verbose_json response
type whisperSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// verbose_json response structure shared by whisper.cpp servers and the
// hosted Whisper API
type whisperVerboseResponse struct {
	Task     string           `json:"task"`
	Language string           `json:"language"`
	Duration float64          `json:"duration"`
	Segments []whisperSegment `json:"segments"`
	Text     string           `json:"text"`
}

// toSegments converts the wire segments to the domain model, trimming text
// and dropping segments that end up empty.
func (r *whisperVerboseResponse) toSegments() []subtitle.Segment {
	segments := make([]subtitle.Segment, 0, len(r.Segments))
	for _, seg := range r.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		segments = append(segments, subtitle.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  text,
		})
	}
	return segments
}

// WhisperServerTranscriber implements Transcriber against a local
// whisper.cpp style inference server.
type WhisperServerTranscriber struct {
	baseURL string
	client  *http.Client
	options Options
}

func NewWhisperServerTranscriber(
	opts Options,
) (*WhisperServerTranscriber, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultWhisperBaseURL
	}

	return &WhisperServerTranscriber{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Minute},
		options: opts,
	}, nil
}

// Transcribe uploads the audio file and decodes the segment list.
func (t *WhisperServerTranscriber) Transcribe(
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

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read audio file: %w", err)
	}

	if err := writer.WriteField(
		"response_format", "verbose_json",
	); err != nil {
		return nil, fmt.Errorf("failed to build upload form: %w", err)
	}
	if t.options.Language != "" {
		if err := writer.WriteField(
			"language", t.options.Language,
		); err != nil {
			return nil, fmt.Errorf("failed to build upload form: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/inference",
		&body,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf(
			"cannot reach whisper server at %s: %w", t.baseURL, err,
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf(
			"whisper server returned %s: %s",
			resp.Status,
			strings.TrimSpace(string(msg)),
		)
	}

	var verbose whisperVerboseResponse
	if err := json.NewDecoder(resp.Body).Decode(&verbose); err != nil {
		return nil, fmt.Errorf("failed to parse whisper response: %w", err)
	}

	segments := verbose.toSegments()
	if len(segments) == 0 && strings.TrimSpace(verbose.Text) != "" {
		// servers without segment timestamps still return the full text
		segments = []subtitle.Segment{{
			Start: 0,
			End:   verbose.Duration,
			Text:  strings.TrimSpace(verbose.Text),
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
