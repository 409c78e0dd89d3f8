package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// TranslationItem is a single text to translate, keyed by its position in
// the segment sequence.
type TranslationItem struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// TranslationResult is a translated text item.
type TranslationResult struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Translator translates a set of items, preserving indices.
type Translator interface {
	Translate(
		ctx context.Context,
		items []TranslationItem,
	) ([]TranslationResult, error)
}

// ConcurrentTranslator is an optional interface for translators that can
// process batches in parallel.
type ConcurrentTranslator interface {
	Translator
	TranslateWithConcurrency(
		ctx context.Context,
		items []TranslationItem,
		concurrency int,
	) ([]TranslationResult, error)
}

// Provider selects a translation backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// DefaultBatchSize is the number of items sent per LLM request.
const DefaultBatchSize = 50

// Options for translation.
type Options struct {
	SourceLanguage string
	TargetLanguage string
	Model          string
	BaseURL        string // Ollama only
	Prompt         string // extra instructions appended to the prompt
	BatchSize      int    // items per API request (default 50)
}

// Factory creates a Translator for the given provider. The Ollama provider
// needs no API key.
func Factory(
	ctx context.Context,
	provider Provider,
	apiKey string,
	opts Options,
) (Translator, error) {
	if opts.TargetLanguage == "" {
		return nil, fmt.Errorf("target language is required")
	}

	switch provider {
	case ProviderOllama:
		return NewOllamaTranslator(opts), nil
	case ProviderOpenAI:
		return NewOpenAITranslator(ctx, apiKey, opts)
	case ProviderAnthropic:
		return NewAnthropicTranslator(ctx, apiKey, opts)
	case ProviderGemini:
		return NewGeminiTranslator(ctx, apiKey, opts)
	default:
		return nil, fmt.Errorf("unsupported translation provider: %s", provider)
	}
}

// BuildPrompt creates the batch translation prompt for LLM providers.
func BuildPrompt(opts Options, items []TranslationItem) string {
	var sb strings.Builder

	if opts.SourceLanguage != "" {
		fmt.Fprintf(&sb,
			"Translate the following %s subtitle texts to %s.\n\n",
			opts.SourceLanguage, opts.TargetLanguage)
	} else {
		fmt.Fprintf(&sb,
			"Translate the following subtitle texts to %s.\n\n",
			opts.TargetLanguage)
	}

	sb.WriteString("IMPORTANT INSTRUCTIONS:\n")
	sb.WriteString("1. Translate ONLY the text content, preserving the meaning.\n")
	sb.WriteString("2. Preserve line breaks (\\n) in the same positions.\n")
	sb.WriteString("3. Return ONLY a JSON array with the same structure.\n")
	sb.WriteString("4. Each object must have 'index' and 'text' fields.\n")
	sb.WriteString("5. The 'index' values must match the input indices exactly.\n")
	sb.WriteString("6. Do not add any explanation or markdown formatting.\n\n")

	if opts.Prompt != "" {
		fmt.Fprintf(&sb, "Additional instructions: %s\n\n", opts.Prompt)
	}

	sb.WriteString("Input JSON:\n")
	inputJSON, _ := json.MarshalIndent(items, "", "  ")
	sb.Write(inputJSON)
	sb.WriteString("\n\nOutput the translated JSON array only:")

	return sb.String()
}

// batchFunc translates one batch of items.
type batchFunc func(
	ctx context.Context,
	items []TranslationItem,
) ([]TranslationResult, error)

func splitBatches(
	items []TranslationItem,
	size int,
) [][]TranslationItem {
	var batches [][]TranslationItem
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}

// runBatches translates all items through fn, size items per request, with
// up to concurrency requests in flight. Results come back sorted by index.
// The first batch failure cancels the rest.
func runBatches(
	ctx context.Context,
	items []TranslationItem,
	size, concurrency int,
	fn batchFunc,
) ([]TranslationResult, error) {
	if len(items) == 0 {
		return []TranslationResult{}, nil
	}
	if size <= 0 {
		size = DefaultBatchSize
	}
	if concurrency <= 0 {
		concurrency = 1
	}

	batches := splitBatches(items, size)
	if len(batches) == 1 {
		return fn(ctx, batches[0])
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type batchResult struct {
		index   int
		results []TranslationResult
		err     error
	}

	work := make(chan int)
	out := make(chan batchResult, len(batches))

	var wg sync.WaitGroup
	for i := 0; i < concurrency && i < len(batches); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if ctx.Err() != nil {
					return
				}
				results, err := fn(ctx, batches[idx])
				if err != nil {
					cancel()
				}
				out <- batchResult{index: idx, results: results, err: err}
			}
		}()
	}

	go func() {
		defer close(work)
		for i := range batches {
			select {
			case <-ctx.Done():
				return
			case work <- i:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	var all []TranslationResult
	var firstErr error
	for r := range out {
		if r.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("batch %d failed: %w", r.index, r.err)
			}
			continue
		}
		all = append(all, r.results...)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Index < all[j].Index
	})

	return all, nil
}

// cleanJSONResponse removes markdown code fences from an LLM response.
func cleanJSONResponse(s string) string {
	s = strings.TrimSpace(s)

	fenceRegex := regexp.MustCompile("```(?:json)?\\s*")
	s = fenceRegex.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "```", "")

	return strings.TrimSpace(s)
}

// models sometimes emit escape sequences JSON does not define
var invalidEscapeRegex = regexp.MustCompile(`\\([^"\\/bfnrtu])`)

// extractTranslationResults parses the JSON array an LLM returned,
// repairing invalid escape sequences on a second attempt.
func extractTranslationResults(s string) ([]TranslationResult, error) {
	var results []TranslationResult
	if err := json.Unmarshal([]byte(s), &results); err != nil {
		fixed := invalidEscapeRegex.ReplaceAllString(s, `\\$1`)
		if err2 := json.Unmarshal([]byte(fixed), &results); err2 != nil {
			return nil, err
		}
	}
	return results, nil
}

// verifyResults checks that a batch response covers the batch.
func verifyResults(
	results []TranslationResult,
	expectedCount int,
) ([]TranslationResult, error) {
	if len(results) != expectedCount {
		return nil, fmt.Errorf(
			"expected %d results, got %d", expectedCount, len(results),
		)
	}
	return results, nil
}

// truncateString shortens a string for error messages.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// parseBatchResponse runs the shared response pipeline: strip fences,
// decode the JSON array, verify the count.
func parseBatchResponse(
	responseText string,
	expectedCount int,
) ([]TranslationResult, error) {
	responseText = cleanJSONResponse(responseText)

	results, err := extractTranslationResults(responseText)
	if err != nil {
		return nil, fmt.Errorf(
			"failed to parse JSON response: %w (response: %s)",
			err,
			truncateString(responseText, 200),
		)
	}

	return verifyResults(results, expectedCount)
}
