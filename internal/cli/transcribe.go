package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nmelo/sublate/internal/config"
	"github.com/nmelo/sublate/internal/media"
	"github.com/nmelo/sublate/internal/subtitle"
	"github.com/nmelo/sublate/internal/transcribe"
	"github.com/spf13/cobra"
)

// mediaBaseName strips the directory and extension from a media path.
func mediaBaseName(mediaPath string) string {
	return strings.TrimSuffix(
		filepath.Base(mediaPath), filepath.Ext(mediaPath),
	)
}

// artifactPaths derives the output file locations for one transcription.
func artifactPaths(mediaPath, outputDir string) (srt, txt, ts string) {
	base := mediaBaseName(mediaPath)
	srt = filepath.Join(outputDir, base+".srt")
	txt = filepath.Join(outputDir, base+".txt")
	ts = filepath.Join(outputDir, base+".timestamped.txt")
	return srt, txt, ts
}

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [media_file]",
	Short: "Transcribe a video or audio file into subtitle files",
	Long: `Transcribe the speech in a video or audio file and write subtitle artifacts.

For video files the audio track is extracted first (mono 16 kHz WAV).
Two files are always written next to the input (or under --output-dir):
a .srt file for video players and a .txt file for reading. With
--timestamped a third file is written, one "[start --> end] text" line
per segment, suitable for 'sublate split'.

Examples:
  sublate transcribe video.mp4
  sublate transcribe video.mp4 --language en --timestamped
  sublate transcribe audio.wav --provider openai --api-key $OPENAI_API_KEY`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscribe,
}

func init() {
	rootCmd.AddCommand(transcribeCmd)

	transcribeCmd.Flags().
		String("provider", "whisper", "Transcription provider (whisper, openai)")
	transcribeCmd.Flags().
		StringP("api-key", "k", "", "API key for hosted providers (or set OPENAI_API_KEY)")
	transcribeCmd.Flags().
		String("base-url", "", "Whisper server address (default "+config.DefaultWhisperBaseURL+")")
	transcribeCmd.Flags().
		String("model", "", "Model to use (provider-specific default)")
	transcribeCmd.Flags().
		String("output-dir", "", "Directory for output files (default: input directory)")
	transcribeCmd.Flags().
		Bool("keep-audio", false, "Keep the extracted audio file")
	transcribeCmd.Flags().
		Bool("timestamped", false, "Also write a bracketed-timestamp text file")
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	mediaPath := args[0]
	ctx := context.Background()

	if _, err := os.Stat(mediaPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", mediaPath)
	}
	if !media.IsMediaFile(mediaPath) {
		return fmt.Errorf(
			"unsupported file type: %s (expected audio or video file)",
			filepath.Ext(mediaPath),
		)
	}

	providerStr, _ := cmd.Flags().GetString("provider")
	apiKey, _ := cmd.Flags().GetString("api-key")
	baseURL, _ := cmd.Flags().GetString("base-url")
	model, _ := cmd.Flags().GetString("model")
	outputDir, _ := cmd.Flags().GetString("output-dir")
	keepAudio, _ := cmd.Flags().GetBool("keep-audio")
	timestamped, _ := cmd.Flags().GetBool("timestamped")
	language, _ := cmd.Flags().GetString("language")

	provider := transcribe.Provider(providerStr)
	if baseURL == "" {
		baseURL = cfg.Transcription.BaseURL
	}
	if provider == transcribe.ProviderOpenAI && apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if provider == transcribe.ProviderOpenAI && apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set OPENAI_API_KEY environment variable",
		)
	}

	if outputDir == "" {
		outputDir = filepath.Dir(mediaPath)
	} else if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	srtPath, txtPath, tsPath := artifactPaths(mediaPath, outputDir)

	logger.Infow("Starting transcription",
		"input", mediaPath,
		"provider", providerStr,
		"language", language,
	)

	audioPath := mediaPath
	if media.IsVideoFile(mediaPath) {
		logger.Infow("Extracting audio from video")
		audioPath = filepath.Join(outputDir, mediaBaseName(mediaPath)+".wav")

		opts := media.DefaultExtractAudioOptions()
		if err := media.ExtractAudio(ctx, mediaPath, audioPath, opts); err != nil {
			return fmt.Errorf("failed to extract audio: %w", err)
		}

		if !keepAudio {
			defer os.Remove(audioPath)
		}
	}

	transcriber, err := transcribe.Factory(
		ctx, provider, apiKey,
		transcribe.Options{
			Language: language,
			Model:    model,
			BaseURL:  baseURL,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create transcriber: %w", err)
	}

	logger.Infow("Transcribing audio", "audio", audioPath)
	result, err := transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	logger.Infow("Transcription complete",
		"segments", len(result.Segments),
		"language", result.Language,
		"duration", result.Duration.String(),
	)

	if err := subtitle.WriteSRT(result.Segments, srtPath); err != nil {
		return err
	}
	if err := subtitle.WriteText(result.Segments, txtPath); err != nil {
		return err
	}

	outputs := []string{srtPath, txtPath}
	if timestamped {
		if err := subtitle.WriteTimestampedText(
			result.Segments, tsPath,
		); err != nil {
			return err
		}
		outputs = append(outputs, tsPath)
	}

	fmt.Printf("Transcription complete (%d segments)\n", len(result.Segments))
	for _, p := range outputs {
		abs, _ := filepath.Abs(p)
		fmt.Printf("  %s\n", abs)
	}

	return nil
}
