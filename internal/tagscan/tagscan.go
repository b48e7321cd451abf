// Package tagscan defines the MetadataExtractor seam and its default
// dhowden/tag-backed implementation.
package tagscan

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"

	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/record"
)

// MetadataExtractor is the seam FileScanner depends on to turn a file path
// into a MusicRecord. Implementations must at minimum populate filePath,
// fileType, fileSizeBytes and lastModified; other fields are populated when
// tags are present.
type MetadataExtractor interface {
	Extract(path string) (*record.MusicRecord, error)
}

// Extractor is the default MetadataExtractor, reading tags with dhowden/tag
// and falling back to file system metadata alone when tag parsing fails —
// tag writing and per-format recovery paths are out of scope here, unlike
// the richer multi-format fallback chain a full tag-reading subsystem would
// carry.
type Extractor struct{}

// Extract reads filesystem and, where possible, tag metadata from path.
func (Extractor) Extract(path string) (*record.MusicRecord, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, catalogerr.ErrIO)
	}

	fileType := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	r := record.New(path, fileType)
	r.SetFileSizeBytes(info.Size())
	r.SetLastModified(info.ModTime())

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, catalogerr.ErrIO)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// No readable tags: the record still carries file system metadata.
		r.ClearModified()
		return r, nil
	}

	r.SetTitle(m.Title())
	r.SetArtist(m.Artist())

	albumArtist := m.AlbumArtist()
	if albumArtist == "" {
		albumArtist = m.Artist()
	}
	r.SetAlbumArtist(albumArtist)

	r.SetAlbum(m.Album())
	r.SetGenre(m.Genre())

	if track, _ := m.Track(); track > 0 {
		t := track
		r.SetTrackNumber(&t)
	}
	if year := m.Year(); year > 0 {
		y := year
		r.SetYear(&y)
	}

	r.ClearModified()
	return r, nil
}
