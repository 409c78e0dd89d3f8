package subtitle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func sampleSegments() []Segment {
	return []Segment{
		{Start: 0.0, End: 2.5, Text: "Hello, world!"},
		{Start: 2.5, End: 5.0, Text: "This is a test."},
		{Start: 5.0, End: 8.25, Text: "Testing subtitle generation."},
	}
}

func TestWriteSRTFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.srt")
	if err := WriteSRT(sampleSegments(), path); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "1\n" +
		"00:00:00,000 --> 00:00:02,500\n" +
		"Hello, world!\n" +
		"\n" +
		"2\n" +
		"00:00:02,500 --> 00:00:05,000\n" +
		"This is a test.\n" +
		"\n" +
		"3\n" +
		"00:00:05,000 --> 00:00:08,250\n" +
		"Testing subtitle generation.\n"

	if string(data) != want {
		t.Errorf("WriteSRT output:\n%q\nwant:\n%q", string(data), want)
	}
}

func TestWriteSRTEmptySequence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := WriteSRT(nil, path); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if len(data) != 0 {
		t.Errorf("expected empty file, got %d bytes", len(data))
	}

	segments, err := ParseSRT(path)
	if err != nil {
		t.Fatalf("ParseSRT of empty file failed: %v", err)
	}
	if len(segments) != 0 {
		t.Errorf("expected empty sequence, got %d segments", len(segments))
	}
}

func TestSRTRoundTrip(t *testing.T) {
	segments := []Segment{
		{Start: 0.0, End: 2.5, Text: "Hello, world!"},
		{Start: 2.5, End: 5.0, Text: "Two lines\nof text."},
		{Start: 5.0, End: 8.25, Text: "Final subtitle."},
	}

	path := filepath.Join(t.TempDir(), "roundtrip.srt")
	if err := WriteSRT(segments, path); err != nil {
		t.Fatalf("WriteSRT failed: %v", err)
	}

	parsed, err := ParseSRT(path)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}

	if len(parsed) != len(segments) {
		t.Fatalf("expected %d segments, got %d", len(segments), len(parsed))
	}
	for i := range segments {
		if parsed[i] != segments[i] {
			t.Errorf(
				"segment %d: got %+v, want %+v",
				i, parsed[i], segments[i],
			)
		}
	}
}

func TestParseSRTSkipsMalformedBlocks(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Good block.

garbage without enough lines

3
not a timestamp line
Text that goes nowhere.

4
00:00:10,000 --> 00:00:12,500
Another good block.
With a second line.
`
	path := filepath.Join(t.TempDir(), "mixed.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	segments, err := ParseSRT(path)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "Good block." {
		t.Errorf("segment 0 text = %q", segments[0].Text)
	}
	if segments[1].Text != "Another good block.\nWith a second line." {
		t.Errorf("segment 1 text = %q", segments[1].Text)
	}
	if segments[1].Start != 10.0 || segments[1].End != 12.5 {
		t.Errorf(
			"segment 1 times = (%v, %v), want (10, 12.5)",
			segments[1].Start, segments[1].End,
		)
	}
}

func TestParseSRTIgnoresSequenceNumbers(t *testing.T) {
	// the number line is never validated or reused
	content := `999
00:00:01,000 --> 00:00:02,000
First.

not-a-number
00:00:03,000 --> 00:00:04,000
Second.
`
	path := filepath.Join(t.TempDir(), "numbers.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	segments, err := ParseSRT(path)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
	if segments[0].Text != "First." || segments[1].Text != "Second." {
		t.Errorf("unexpected texts: %q, %q", segments[0].Text, segments[1].Text)
	}
}

func TestParseSRTHandlesBOMAndCRLF(t *testing.T) {
	content := "\uFEFF1\r\n00:00:01,000 --> 00:00:02,000\r\nWindows line endings.\r\n"
	path := filepath.Join(t.TempDir(), "crlf.srt")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	segments, err := ParseSRT(path)
	if err != nil {
		t.Fatalf("ParseSRT failed: %v", err)
	}
	if len(segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segments))
	}
	if segments[0].Text != "Windows line endings." {
		t.Errorf("text = %q", segments[0].Text)
	}
}

func TestParseSRTMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.srt")
	_, err := ParseSRT(missing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
