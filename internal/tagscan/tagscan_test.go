package tagscan

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractFallsBackToFileMetadataWithoutTags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-actually-audio.mp3")
	if err := os.WriteFile(path, []byte("not a real mp3 file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var ex Extractor
	r, err := ex.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if r.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", r.FilePath(), path)
	}
	if r.FileType() != "mp3" {
		t.Errorf("FileType() = %q, want mp3", r.FileType())
	}
	if r.FileSizeBytes() == 0 {
		t.Error("expected a non-zero file size")
	}
	if r.LastModified().IsZero() {
		t.Error("expected a non-zero last-modified time")
	}
	if r.Modified() {
		t.Error("a freshly extracted record should not be marked modified")
	}
}

func TestExtractMissingFile(t *testing.T) {
	var ex Extractor
	_, err := ex.Extract(filepath.Join(t.TempDir(), "absent.mp3"))
	if err == nil {
		t.Fatal("expected an error extracting a missing file")
	}
}

func TestExtractLowercasesFileType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "track.FLAC")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var ex Extractor
	r, err := ex.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if r.FileType() != "flac" {
		t.Errorf("FileType() = %q, want flac", r.FileType())
	}
}
