package subtitle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SplitTimestampedText partitions a timestamped-text file into chunk files
// of at most segmentsPerChunk lines each, written next to the input file as
// <base>.timestamped.chunkNNNofMMM.txt. Lines keep their original order and
// each appears in exactly one chunk. An empty input produces no chunks.
// Returns the created paths in chunk order.
func SplitTimestampedText(
	path string,
	segmentsPerChunk int,
) ([]string, error) {
	if segmentsPerChunk <= 0 {
		return nil, fmt.Errorf(
			"segments per chunk must be positive, got %d",
			segmentsPerChunk,
		)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read timestamped file: %w", err)
	}

	content := strings.TrimRight(string(data), "\r\n")
	if content == "" {
		return []string{}, nil
	}
	lines := strings.Split(content, "\n")

	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), ".txt")
	base = strings.TrimSuffix(base, ".timestamped")

	total := (len(lines) + segmentsPerChunk - 1) / segmentsPerChunk

	paths := make([]string, 0, total)
	for k := 0; k < total; k++ {
		lo := k * segmentsPerChunk
		hi := lo + segmentsPerChunk
		if hi > len(lines) {
			hi = len(lines)
		}

		chunkPath := filepath.Join(dir, fmt.Sprintf(
			"%s.timestamped.chunk%03dof%03d.txt",
			base, k+1, total,
		))

		chunk := strings.Join(lines[lo:hi], "\n")
		if err := os.WriteFile(chunkPath, []byte(chunk), 0644); err != nil {
			return nil, fmt.Errorf(
				"failed to write chunk %d: %w", k+1, err,
			)
		}
		paths = append(paths, chunkPath)
	}

	return paths, nil
}
