package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/nmelo/sublate/internal/config"
)

// OllamaTranslator implements Translator against a local Ollama instance.
// Items are translated one request at a time; Ollama keeps the model warm
// between calls, so batching buys nothing locally.
type OllamaTranslator struct {
	model   string
	baseURL string
	client  *http.Client
	options Options

	// Progress, when set, is called after each translated item with the
	// number of items done and the total.
	Progress func(done, total int)
}

func NewOllamaTranslator(opts Options) *OllamaTranslator {
	model := opts.Model
	if model == "" {
		model = config.DefaultOllamaModel
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.DefaultOllamaBaseURL
	}

	return &OllamaTranslator{
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 60 * time.Second},
		options: opts,
	}
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Translate translates each item in order, preserving indices.
func (t *OllamaTranslator) Translate(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error) {
	results := make([]TranslationResult, 0, len(items))

	for i, item := range items {
		text, err := t.translateText(ctx, item.Text)
		if err != nil {
			return nil, fmt.Errorf(
				"failed to translate item %d: %w", item.Index, err,
			)
		}
		results = append(results, TranslationResult{
			Index: item.Index,
			Text:  text,
		})
		if t.Progress != nil {
			t.Progress(i+1, len(items))
		}
	}

	return results, nil
}

// translateText sends a single generation request.
func (t *OllamaTranslator) translateText(
	ctx context.Context,
	text string,
) (string, error) {
	var prompt string
	if t.options.SourceLanguage != "" {
		prompt = fmt.Sprintf(
			"Translate the following from %s to %s. "+
				"Only output the translation, nothing else:\n\n%s",
			t.options.SourceLanguage, t.options.TargetLanguage, text,
		)
	} else {
		prompt = fmt.Sprintf(
			"Translate the following to %s. "+
				"Only output the translation, nothing else:\n\n%s",
			t.options.TargetLanguage, text,
		)
	}

	payload, err := json.Marshal(ollamaGenerateRequest{
		Model:  t.model,
		Prompt: prompt,
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/api/generate",
		bytes.NewReader(payload),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", t.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf(
			"Ollama returned %s: %s",
			resp.Status,
			strings.TrimSpace(string(msg)),
		)
	}

	var generated ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		return "", fmt.Errorf("failed to parse Ollama response: %w", err)
	}

	return strings.TrimSpace(generated.Response), nil
}

// Ping checks that the Ollama API is reachable.
func (t *OllamaTranslator) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, t.baseURL+"/api/tags", nil,
	)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return t.wrapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("Ollama returned %s", resp.Status)
	}
	return nil
}

func (t *OllamaTranslator) wrapTransportError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("translation request timed out: %w", err)
	}
	return fmt.Errorf(
		"cannot connect to Ollama at %s (is `ollama serve` running?): %w",
		t.baseURL, err,
	)
}
