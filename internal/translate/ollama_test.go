package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newOllamaFixture(
	t *testing.T,
	handler http.HandlerFunc,
	opts Options,
) (*OllamaTranslator, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	opts.BaseURL = server.URL
	return NewOllamaTranslator(opts), server
}

func TestOllamaTranslate(t *testing.T) {
	var prompts []string
	translator, _ := newOllamaFixture(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/generate" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			var req ollamaGenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
			if req.Stream {
				t.Error("stream should be false")
			}
			if req.Model != "test-model" {
				t.Errorf("model = %q, want test-model", req.Model)
			}
			prompts = append(prompts, req.Prompt)

			json.NewEncoder(w).Encode(ollamaGenerateResponse{
				Response: "  translated  \n",
			})
		},
		Options{
			SourceLanguage: "English",
			TargetLanguage: "Chinese",
			Model:          "test-model",
		},
	)

	items := []TranslationItem{
		{Index: 0, Text: "Hello, world!"},
		{Index: 1, Text: "This is a test."},
	}

	results, err := translator.Translate(context.Background(), items)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Errorf("result %d index = %d", i, r.Index)
		}
		if r.Text != "translated" {
			t.Errorf("result %d text = %q, whitespace not trimmed", i, r.Text)
		}
	}

	if len(prompts) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(prompts))
	}
	for _, p := range prompts {
		if !strings.Contains(p, "English") ||
			!strings.Contains(p, "Chinese") {
			t.Errorf("prompt missing languages: %q", p)
		}
	}
	if !strings.Contains(prompts[0], "Hello, world!") {
		t.Errorf("first prompt missing source text: %q", prompts[0])
	}
}

func TestOllamaTranslateReportsProgress(t *testing.T) {
	translator, _ := newOllamaFixture(t,
		func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(ollamaGenerateResponse{
				Response: "ok",
			})
		},
		Options{TargetLanguage: "Chinese"},
	)

	var calls [][2]int
	translator.Progress = func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}

	items := []TranslationItem{
		{Index: 0, Text: "a"},
		{Index: 1, Text: "b"},
		{Index: 2, Text: "c"},
	}
	if _, err := translator.Translate(context.Background(), items); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}

	want := [][2]int{{1, 3}, {2, 3}, {3, 3}}
	if len(calls) != len(want) {
		t.Fatalf("expected %d progress calls, got %d", len(want), len(calls))
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("progress call %d = %v, want %v", i, calls[i], want[i])
		}
	}
}

func TestOllamaTranslateEmptyItems(t *testing.T) {
	translator := NewOllamaTranslator(Options{TargetLanguage: "Chinese"})

	results, err := translator.Translate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestOllamaTranslateServerError(t *testing.T) {
	translator, _ := newOllamaFixture(t,
		func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		},
		Options{TargetLanguage: "Chinese"},
	)

	_, err := translator.Translate(
		context.Background(),
		[]TranslationItem{{Index: 0, Text: "hi"}},
	)
	if err == nil {
		t.Fatal("expected error for server failure")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("error should surface the server message: %v", err)
	}
}

func TestOllamaConnectionRefused(t *testing.T) {
	// reserved port with nothing listening
	translator := NewOllamaTranslator(Options{
		TargetLanguage: "Chinese",
		BaseURL:        "http://127.0.0.1:1",
	})

	_, err := translator.Translate(
		context.Background(),
		[]TranslationItem{{Index: 0, Text: "hi"}},
	)
	if err == nil {
		t.Fatal("expected connection error")
	}
	if !strings.Contains(err.Error(), "cannot connect to Ollama") {
		t.Errorf("error should mention the Ollama endpoint: %v", err)
	}
}

func TestOllamaPing(t *testing.T) {
	translator, _ := newOllamaFixture(t,
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/tags" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusOK)
		},
		Options{TargetLanguage: "Chinese"},
	)

	if err := translator.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestOllamaPingFailure(t *testing.T) {
	translator := NewOllamaTranslator(Options{
		TargetLanguage: "Chinese",
		BaseURL:        "http://127.0.0.1:1",
	})

	if err := translator.Ping(context.Background()); err == nil {
		t.Error("expected Ping to fail with nothing listening")
	}
}

func TestOllamaDefaults(t *testing.T) {
	translator := NewOllamaTranslator(Options{TargetLanguage: "Chinese"})

	if translator.model != "qwen2.5:7b" {
		t.Errorf("default model = %q", translator.model)
	}
	if translator.baseURL != "http://localhost:11434" {
		t.Errorf("default base URL = %q", translator.baseURL)
	}
}
