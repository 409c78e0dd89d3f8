package subtitle

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var timestampPairRegex = regexp.MustCompile(
	`^(\d{2,}:\d{2}:\d{2},\d{3})\s*-->\s*(\d{2,}:\d{2}:\d{2},\d{3})$`,
)

// WriteSRT serializes segments to a SubRip file: numbered blocks separated
// by a single blank line, no trailing blank block. An empty sequence writes
// an empty file.
func WriteSRT(segments []Segment, path string) error {
	var sb strings.Builder
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(strconv.Itoa(i + 1))
		sb.WriteByte('\n')
		sb.WriteString(FormatTimestamp(seg.Start))
		sb.WriteString(" --> ")
		sb.WriteString(FormatTimestamp(seg.End))
		sb.WriteByte('\n')
		sb.WriteString(seg.Text)
		sb.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write SRT file: %w", err)
	}
	return nil
}

// ParseSRT reads a SubRip file back into segments. Parsing is best-effort:
// a block with fewer than three lines, or whose second line is not a
// timestamp pair, is skipped without error. The sequence-number line is
// ignored entirely. An empty file yields an empty sequence.
func ParseSRT(path string) ([]Segment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read SRT file: %w", err)
	}

	content := strings.TrimPrefix(string(data), "\uFEFF")

	segments := []Segment{}
	var block []string

	flush := func() {
		defer func() { block = nil }()
		if len(block) < 3 {
			return
		}
		seg, ok := parseBlock(block)
		if !ok {
			return
		}
		segments = append(segments, seg)
	}

	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		block = append(block, line)
	}
	flush()

	return segments, nil
}

// parseBlock turns the lines of one SRT block into a Segment. The first
// line (sequence number) is never inspected.
func parseBlock(lines []string) (Segment, bool) {
	matches := timestampPairRegex.FindStringSubmatch(
		strings.TrimSpace(lines[1]),
	)
	if matches == nil {
		return Segment{}, false
	}

	start, err := ParseTimestamp(matches[1])
	if err != nil {
		return Segment{}, false
	}
	end, err := ParseTimestamp(matches[2])
	if err != nil {
		return Segment{}, false
	}

	return Segment{
		Start: start,
		End:   end,
		Text:  strings.Join(lines[2:], "\n"),
	}, true
}
