// Package organize applies a PathTemplate across a set of records to
// produce target file paths and, via FileOps, copies each source file into
// place.
package organize

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/crateindex/crateindex/internal/bucketer"
	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/fileops"
	"github.com/crateindex/crateindex/internal/logging"
	"github.com/crateindex/crateindex/internal/pathtemplate"
	"github.com/crateindex/crateindex/internal/record"
)

// ProgressFunc reports organize progress: files completed so far, the
// total to process, and the last target path written.
type ProgressFunc func(completed, total int, lastTarget string)

// CancelFunc reports whether the caller has requested the run stop.
// Checked between files, never mid-file.
type CancelFunc func() bool

// Failure records a single record that could not be placed.
type Failure struct {
	Record *record.MusicRecord
	Err    error
}

// Report summarizes one organization run.
type Report struct {
	Total     int
	Succeeded int
	Skipped   int // already present at target with identical size and mtime
	Failures  []Failure
	Cancelled bool
}

// Organizer computes target paths from a PathTemplate and copies source
// files into place via FileOps. Organizing is a projection: on success the
// record's FilePath is never mutated.
type Organizer struct {
	ops    fileops.FileOps
	logger logging.Logger
}

// New constructs an Organizer. A nil ops falls back to fileops.OS; a nil
// logger falls back to logging.Noop.
func New(ops fileops.FileOps, logger logging.Logger) *Organizer {
	if ops == nil {
		ops = fileops.OS{}
	}
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Organizer{ops: ops, logger: logger}
}

// Organize computes an ArtistDistribution once over records, then for each
// record renders tmpl, joins it under root, resolves any name collision,
// and copies the source file into place. Per-file failures are reported in
// the returned Report and do not stop the run; a structural failure (e.g.
// the distribution cannot be built) aborts immediately. Cancellation is
// polled between files.
func (o *Organizer) Organize(
	records []*record.MusicRecord,
	tmpl *pathtemplate.Template,
	root string,
	bucketCount int,
	onProgress ProgressFunc,
	isCancelled CancelFunc,
) (*Report, error) {
	dist, err := bucketer.BuildDistribution(records, bucketCount)
	if err != nil {
		return nil, fmt.Errorf("build artist distribution: %w", err)
	}

	report := &Report{Total: len(records)}

	for i, r := range records {
		if isCancelled != nil && isCancelled() {
			report.Cancelled = true
			break
		}

		rendered, err := pathtemplate.Render(tmpl, r, dist)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Record: r, Err: err})
			o.logger.Warn("failed to render path, skipping", "path", r.FilePath(), "error", err)
			continue
		}

		target := o.ops.Join(root, rendered)
		target, skip, err := o.resolveCollision(r, target)
		if err != nil {
			report.Failures = append(report.Failures, Failure{Record: r, Err: err})
			o.logger.Warn("failed to resolve collision, skipping", "path", r.FilePath(), "error", err)
			continue
		}

		if !skip {
			if err := o.ops.Copy(r.FilePath(), target); err != nil {
				report.Failures = append(report.Failures, Failure{Record: r, Err: err})
				o.logger.Warn("failed to copy file", "src", r.FilePath(), "dst", target, "error", err)
				continue
			}
			report.Succeeded++
		} else {
			report.Skipped++
		}

		if onProgress != nil {
			onProgress(i+1, report.Total, target)
		}
	}

	if report.Cancelled && onProgress != nil {
		onProgress(report.Succeeded+report.Skipped+len(report.Failures), report.Total, "")
	}

	return report, nil
}

// resolveCollision decides the final destination for r at the computed
// target path. If target already holds a file of identical byte length and
// modification time, the copy is treated as already done (skip=true). If
// target exists but differs, a numeric suffix (_2, _3, ...) is appended
// before the extension until a free name is found.
func (o *Organizer) resolveCollision(r *record.MusicRecord, target string) (resolved string, skip bool, err error) {
	if !o.ops.Exists(target) {
		return target, false, nil
	}

	if sameFile(target, r) {
		return target, true, nil
	}

	ext := filepath.Ext(target)
	base := strings.TrimSuffix(target, ext)
	for n := 2; ; n++ {
		candidate := fmt.Sprintf("%s_%s%s", base, strconv.Itoa(n), ext)
		if !o.ops.Exists(candidate) {
			return candidate, false, nil
		}
		if sameFile(candidate, r) {
			return candidate, true, nil
		}
		if n > 10000 {
			return "", false, fmt.Errorf("no free name for %s: %w", target, catalogerr.ErrInternal)
		}
	}
}

// sameFile reports whether the file at path already matches r's source
// file by byte length and modification time. FileOps exposes no stat
// primitive (its contract is fixed by spec.md §6: copy/exists/parentOf/
// join), so this reads the file system directly — the one place in this
// package that bypasses the FileOps seam.
func sameFile(path string, r *record.MusicRecord) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() == r.FileSizeBytes() && info.ModTime().Equal(r.LastModified())
}
