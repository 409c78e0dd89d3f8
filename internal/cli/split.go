package cli

import (
	"fmt"
	"path/filepath"

	"github.com/nmelo/sublate/internal/config"
	"github.com/nmelo/sublate/internal/subtitle"
	"github.com/spf13/cobra"
)

var splitCmd = &cobra.Command{
	Use:   "split [timestamped_file]",
	Short: "Split a timestamped transcript into fixed-size chunk files",
	Long: `Split a bracketed-timestamp transcript (written by 'sublate transcribe
--timestamped') into numbered chunk files of at most --segments-per-chunk
lines each.

Chunks are written next to the input file as
<name>.timestamped.chunkNNNofMMM.txt, in order, so a translation backend
can be fed one bounded chunk at a time.

Examples:
  sublate split video.timestamped.txt
  sublate split video.timestamped.txt --segments-per-chunk 50`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().
		IntP("segments-per-chunk", "n", config.DefaultSegmentsPerChunk,
			"Maximum number of segment lines per chunk file")
}

func runSplit(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	segmentsPerChunk, _ := cmd.Flags().GetInt("segments-per-chunk")
	if !cmd.Flags().Changed("segments-per-chunk") {
		segmentsPerChunk = cfg.SegmentsPerChunk
	}

	logger.Infow("Splitting timestamped transcript",
		"input", inputPath,
		"segments_per_chunk", segmentsPerChunk,
	)

	paths, err := subtitle.SplitTimestampedText(inputPath, segmentsPerChunk)
	if err != nil {
		return fmt.Errorf("split failed: %w", err)
	}

	if len(paths) == 0 {
		fmt.Println("Input is empty; no chunks written.")
		return nil
	}

	fmt.Printf("Wrote %d chunk files:\n", len(paths))
	for _, p := range paths {
		abs, _ := filepath.Abs(p)
		fmt.Printf("  %s\n", abs)
	}

	return nil
}
