// Package scan implements the recursive directory walk that turns audio
// files under a root path into MusicRecords via a MetadataExtractor.
package scan

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yookoala/realpath"

	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/logging"
	"github.com/crateindex/crateindex/internal/record"
	"github.com/crateindex/crateindex/internal/tagscan"
)

// ProgressFunc reports scan progress: files seen so far, files matched the
// enabled extension set, and the directory currently being walked.
type ProgressFunc func(filesSeen, filesMatched int, currentDir string)

// RecordFunc is invoked once per extracted record. The scanner does not
// insert into a Catalog itself; the caller decides batching.
type RecordFunc func(*record.MusicRecord)

// CancelFunc reports whether the caller has requested the scan stop.
// Checked between files, never mid-file.
type CancelFunc func() bool

// FileScanner walks a directory tree and extracts MusicRecords for files
// whose extension is in the enabled set.
type FileScanner struct {
	extractor tagscan.MetadataExtractor
	logger    logging.Logger
}

// New constructs a FileScanner using extractor to read file metadata. A nil
// logger falls back to logging.Noop.
func New(extractor tagscan.MetadataExtractor, logger logging.Logger) *FileScanner {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &FileScanner{extractor: extractor, logger: logger}
}

// Scan walks root, matching files whose lowercased extension (without dot)
// is a key of enabledFileTypes, extracting each via the scanner's
// MetadataExtractor and delivering it through onRecord. Symlinked
// directories are followed but never revisited, so symlink loops terminate.
// Progress is reported through onProgress on entering each subdirectory and
// after each successfully extracted file; files that are skipped (extension
// not enabled, extraction failed) produce no progress call.
// Cancellation is polled through isCancelled between files.
func (s *FileScanner) Scan(
	root string,
	enabledFileTypes map[string]bool,
	onRecord RecordFunc,
	onProgress ProgressFunc,
	isCancelled CancelFunc,
) error {
	visited := make(map[string]bool)
	filesSeen, filesMatched := 0, 0

	realRoot, err := realpath.Realpath(root)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", root, catalogerr.ErrIO)
	}

	var walk func(dir string) error
	walk = func(dir string) error {
		realDir, err := realpath.Realpath(dir)
		if err != nil {
			s.logger.Warn("failed to resolve directory, skipping", "dir", dir, "error", err)
			return nil
		}
		if visited[realDir] {
			return nil
		}
		visited[realDir] = true

		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("read dir %s: %w", dir, catalogerr.ErrIO)
		}

		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			if isCancelled != nil && isCancelled() {
				return catalogerr.ErrCancelled
			}

			path := filepath.Join(dir, entry.Name())

			info, err := entry.Info()
			if err != nil {
				s.logger.Warn("failed to stat entry, skipping", "path", path, "error", err)
				continue
			}

			isDir := entry.IsDir()
			if info.Mode()&os.ModeSymlink != 0 {
				target, err := os.Stat(path)
				if err != nil {
					s.logger.Warn("failed to resolve symlink, skipping", "path", path, "error", err)
					continue
				}
				isDir = target.IsDir()
			}

			if isDir {
				if onProgress != nil {
					onProgress(filesSeen, filesMatched, path)
				}
				if err := walk(path); err != nil {
					return err
				}
				continue
			}

			filesSeen++

			ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
			if !enabledFileTypes[ext] {
				continue
			}

			r, err := s.extractor.Extract(path)
			if err != nil {
				s.logger.Warn("failed to extract metadata, skipping", "path", path, "error", err)
				continue
			}

			filesMatched++
			if onProgress != nil {
				onProgress(filesSeen, filesMatched, dir)
			}
			if onRecord != nil {
				onRecord(r)
			}
		}

		return nil
	}

	if err := walk(realRoot); err != nil {
		if err == catalogerr.ErrCancelled {
			return err
		}
		return err
	}

	return nil
}
