package subtitle

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.txt")
	if err := WriteText(sampleSegments(), path); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "Hello, world!\n\nThis is a test.\n\nTesting subtitle generation."
	if string(data) != want {
		t.Errorf("WriteText output = %q, want %q", string(data), want)
	}
}

func TestWriteTimestampedText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.timestamped.txt")
	if err := WriteTimestampedText(sampleSegments(), path); err != nil {
		t.Fatalf("WriteTimestampedText failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	want := "[00:00:00,000 --> 00:00:02,500] Hello, world!\n" +
		"[00:00:02,500 --> 00:00:05,000] This is a test.\n" +
		"[00:00:05,000 --> 00:00:08,250] Testing subtitle generation."
	if string(data) != want {
		t.Errorf(
			"WriteTimestampedText output = %q, want %q",
			string(data), want,
		)
	}
}

func TestTextWritersEmptySequence(t *testing.T) {
	dir := t.TempDir()
	txtPath := filepath.Join(dir, "empty.txt")
	tsPath := filepath.Join(dir, "empty.timestamped.txt")

	if err := WriteText(nil, txtPath); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if err := WriteTimestampedText(nil, tsPath); err != nil {
		t.Fatalf("WriteTimestampedText failed: %v", err)
	}

	for _, p := range []string{txtPath, tsPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("failed to read %s: %v", p, err)
		}
		if len(data) != 0 {
			t.Errorf("%s: expected empty file, got %d bytes", p, len(data))
		}
	}
}
