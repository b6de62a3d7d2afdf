package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metadata.md")

	if err := WriteFileAtomic(path, []byte("first"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("second"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Fatalf("content mismatch: got %q", got)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected no leftover temp files, found %d entries", len(entries))
	}
}

func TestIsNonEmptyFile(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.srt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	full := filepath.Join(dir, "full.srt")
	if err := os.WriteFile(full, []byte("1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if IsNonEmptyFile(empty) {
		t.Fatal("empty file reported as non-empty")
	}
	if !IsNonEmptyFile(full) {
		t.Fatal("non-empty file reported as empty")
	}
	if IsNonEmptyFile(filepath.Join(dir, "missing")) {
		t.Fatal("missing file reported as non-empty")
	}
	if IsNonEmptyFile(dir) {
		t.Fatal("directory reported as non-empty file")
	}
}
