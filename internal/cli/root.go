package cli

import (
	"github.com/nmelo/sublate/internal/config"
	"github.com/nmelo/sublate/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sublate",
	Short: "Extract, translate, and chunk video subtitles",
	Long: `Sublate turns spoken audio in video files into subtitle artifacts:
SRT for video players, plain text for reading, and bracketed-timestamp
text that can be split into bounded chunks for batch translation.

Transcription runs against a local whisper server or the hosted Whisper
API; translation runs against a local Ollama instance or a hosted LLM.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		if configPath != "" {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
		} else {
			cfg = config.Default()
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configPath, "config", "", "Path to a JSON config file")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Language code (e.g., en, es, fr)")
}
