package subtitle

import (
	"fmt"
	"os"
	"strings"
)

// WriteText serializes only the text of each segment, one paragraph per
// segment separated by a blank line. No timestamps, no numbering.
func WriteText(segments []Segment, path string) error {
	texts := make([]string, len(segments))
	for i, seg := range segments {
		texts[i] = seg.Text
	}

	content := strings.Join(texts, "\n\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write text file: %w", err)
	}
	return nil
}

// WriteTimestampedText serializes segments one per line in the form
// "[HH:MM:SS,mmm --> HH:MM:SS,mmm] text". This is the input format for
// SplitTimestampedText.
func WriteTimestampedText(segments []Segment, path string) error {
	lines := make([]string, len(segments))
	for i, seg := range segments {
		lines[i] = fmt.Sprintf(
			"[%s --> %s] %s",
			FormatTimestamp(seg.Start),
			FormatTimestamp(seg.End),
			seg.Text,
		)
	}

	content := strings.Join(lines, "\n")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write timestamped text file: %w", err)
	}
	return nil
}
