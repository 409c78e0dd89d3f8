package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmelo/sublate/internal/subtitle"
	"github.com/nmelo/sublate/internal/translate"
	"github.com/spf13/cobra"
)

// defaultTranslatedPath derives video.srt -> video.<lang>.srt.
func defaultTranslatedPath(subtitlePath, targetLang string) string {
	base := strings.TrimSuffix(subtitlePath, filepath.Ext(subtitlePath))
	return fmt.Sprintf("%s.%s.srt", base, targetLang)
}

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate an SRT file to another language using AI",
	Long: `Translate an existing SRT subtitle file to another language.

Timestamps are preserved exactly; only the text is translated. The
default provider is a local Ollama instance and needs no API key.
Hosted providers (openai, anthropic, gemini) batch entries into JSON
requests and can run batches in parallel.

Examples:
  sublate translate video.srt --target-language Chinese
  sublate translate video.srt -t Japanese --provider openai -k $OPENAI_API_KEY
  sublate translate video.srt -t Spanish --provider anthropic --concurrency 5`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		String("provider", "ollama", "Translation provider (ollama, openai, anthropic, gemini)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key for hosted providers")
	translateCmd.Flags().
		String("model", "", "Model to use (provider-specific default)")
	translateCmd.Flags().
		String("base-url", "", "Ollama base URL (default http://localhost:11434)")
	translateCmd.Flags().
		Int("concurrency", 3, "Number of parallel translation batches")
	translateCmd.Flags().
		Int("batch-size", 50, "Number of subtitle entries per API request")
	translateCmd.Flags().
		Bool("text", false, "Also write a plain-text rendition of the translation")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	subtitlePath := args[0]
	ctx := context.Background()

	targetLang, _ := cmd.Flags().GetString("target-language")
	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	model, _ := cmd.Flags().GetString("model")
	baseURL, _ := cmd.Flags().GetString("base-url")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	writeTxt, _ := cmd.Flags().GetBool("text")
	outputPath, _ := cmd.Flags().GetString("output")
	sourceLang, _ := cmd.Flags().GetString("language")

	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}
	if ext := strings.ToLower(filepath.Ext(subtitlePath)); ext != ".srt" {
		return fmt.Errorf("unsupported subtitle format %q: use .srt", ext)
	}

	if sourceLang != "" && strings.EqualFold(
		strings.TrimSpace(sourceLang), strings.TrimSpace(targetLang),
	) {
		return fmt.Errorf(
			"source language %q and target language %q cannot be the same",
			sourceLang, targetLang,
		)
	}

	provider := translate.Provider(providerStr)
	if provider == translate.ProviderOllama {
		if baseURL == "" {
			baseURL = cfg.Translation.BaseURL
		}
		if model == "" {
			model = cfg.Translation.Model
		}
	}
	if apiKey == "" {
		switch provider {
		case translate.ProviderOpenAI:
			apiKey = os.Getenv("OPENAI_API_KEY")
		case translate.ProviderAnthropic:
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		case translate.ProviderGemini:
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
	}

	if concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	if outputPath == "" {
		outputPath = defaultTranslatedPath(subtitlePath, targetLang)
	}

	logger.Infow("Starting subtitle translation",
		"input", subtitlePath,
		"output", outputPath,
		"target_language", targetLang,
		"provider", providerStr,
	)

	segments, err := subtitle.ParseSRT(subtitlePath)
	if err != nil {
		return fmt.Errorf("failed to parse subtitle file: %w", err)
	}
	if len(segments) == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	logger.Infow("Parsed subtitle file", "entries", len(segments))

	opts := translate.Options{
		SourceLanguage: sourceLang,
		TargetLanguage: targetLang,
		Model:          model,
		BaseURL:        baseURL,
		BatchSize:      batchSize,
	}

	translator, err := translate.Factory(ctx, provider, apiKey, opts)
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	if ollama, ok := translator.(*translate.OllamaTranslator); ok {
		if err := ollama.Ping(ctx); err != nil {
			return err
		}
		ollama.Progress = func(done, total int) {
			logger.Debugw("Translated segment", "done", done, "total", total)
		}
	}

	items := make([]translate.TranslationItem, len(segments))
	for i, seg := range segments {
		items[i] = translate.TranslationItem{Index: i, Text: seg.Text}
	}

	logger.Infow("Translating subtitles",
		"items", len(items),
		"concurrency", concurrency,
	)

	var results []translate.TranslationResult
	if ct, ok := translator.(translate.ConcurrentTranslator); ok {
		results, err = ct.TranslateWithConcurrency(ctx, items, concurrency)
	} else {
		results, err = translator.Translate(ctx, items)
	}
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	logger.Infow("Translation complete", "results", len(results))

	translated := make([]subtitle.Segment, len(segments))
	copy(translated, segments)
	for _, result := range results {
		if result.Index < 0 || result.Index >= len(translated) {
			logger.Warnw("Skipping invalid result index",
				"index", result.Index,
				"max", len(translated)-1,
			)
			continue
		}
		translated[result.Index].Text = result.Text
	}

	if err := subtitle.WriteSRT(translated, outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %d\n", len(translated))
	fmt.Printf("  Target language: %s\n", targetLang)

	if writeTxt {
		txtPath := strings.TrimSuffix(outputPath, ".srt") + ".txt"
		if err := subtitle.WriteText(translated, txtPath); err != nil {
			return fmt.Errorf("failed to write text file: %w", err)
		}
		absTxt, _ := filepath.Abs(txtPath)
		fmt.Printf("  Text: %s\n", absTxt)
	}

	return nil
}
