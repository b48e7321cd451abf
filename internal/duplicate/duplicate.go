// Package duplicate implements the fuzzy duplicate detection engine: an
// all-pairs comparison of catalog records against a FuzzyConfig, reported
// through a caller-supplied Callback.
package duplicate

import (
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/fuzzyconfig"
	"github.com/crateindex/crateindex/internal/logging"
	"github.com/crateindex/crateindex/internal/record"
	"github.com/crateindex/crateindex/internal/similarity"
)

// Callback receives duplicate-detection results. Engine serializes
// OnDuplicateFound and OnProgressUpdate (they never run concurrently with
// each other), so those need no locking of their own. IsCancelled is polled
// from the producing goroutine without that lock and may run concurrently
// with the other two.
type Callback interface {
	OnDuplicateFound(a, b *record.MusicRecord)
	OnProgressUpdate(completed, total int64)
	IsCancelled() bool
}

// progressBatch bounds how rarely OnProgressUpdate fires: at least once per
// this many comparisons, regardless of worker count.
const progressBatch = 100

// Engine runs all-pairs fuzzy duplicate detection over a record set.
type Engine struct {
	logger logging.Logger
}

// New constructs an Engine. A nil logger falls back to logging.Noop.
func New(logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.Noop{}
	}
	return &Engine{logger: logger}
}

type pairJob struct{ i, j int }

// FindDuplicates compares every distinct pair in records under cfg,
// reporting matches and progress through cb. Work is distributed across
// runtime.NumCPU() workers. Cancellation (cb.IsCancelled()) is polled
// between pairs by the job producer; once cancelled, no further pairs are
// queued, in-flight workers finish the jobs already handed to them, and
// FindDuplicates returns catalogerr.ErrCancelled after a final progress
// update. The final progress update is always sent, cancelled or not.
func (e *Engine) FindDuplicates(records []*record.MusicRecord, cfg fuzzyconfig.Config, cb Callback) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	n := len(records)
	total := int64(n) * int64(n-1) / 2
	if total <= 0 {
		if cb != nil {
			cb.OnProgressUpdate(0, 0)
		}
		return nil
	}

	workers := runtime.NumCPU()
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan pairJob, workers*4)
	var completed atomic.Int64
	var callbackMu sync.Mutex

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for job := range jobs {
				a, b := records[job.i], records[job.j]
				isDup := areDuplicates(a, b, cfg)

				callbackMu.Lock()
				if isDup && cb != nil {
					cb.OnDuplicateFound(a, b)
				}
				done := completed.Add(1)
				if cb != nil && done%progressBatch == 0 {
					cb.OnProgressUpdate(done, total)
				}
				callbackMu.Unlock()
			}
		}()
	}

	cancelled := false
producer:
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if cb != nil && cb.IsCancelled() {
				cancelled = true
				break producer
			}
			jobs <- pairJob{i, j}
		}
	}
	close(jobs)
	wg.Wait()

	if cb != nil {
		cb.OnProgressUpdate(completed.Load(), total)
	}

	if cancelled {
		return catalogerr.ErrCancelled
	}
	return nil
}

// areDuplicates applies the three-step comparison: a track-number gate,
// a duration-proximity check, then field-threshold counting.
func areDuplicates(a, b *record.MusicRecord, cfg fuzzyconfig.Config) bool {
	if cfg.TrackNumberMustMatch {
		at, bt := a.TrackNumber(), b.TrackNumber()
		if at == nil || bt == nil || *at != *bt {
			return false
		}
	}

	if !durationsCompatible(a.DurationSeconds(), b.DurationSeconds(), cfg) {
		return false
	}

	matched := 0
	if fieldMatches(a.Title(), b.Title(), "title", cfg) {
		matched++
	}
	if fieldMatches(a.Artist(), b.Artist(), "artist", cfg) {
		matched++
	}
	if fieldMatches(a.Album(), b.Album(), "album", cfg) {
		matched++
	}
	if cfg.TrackNumberMustMatch {
		// The gate above already required both track numbers present and
		// equal, so that agreement itself counts toward the threshold.
		matched++
	}
	return matched >= cfg.MinimumFieldsToMatch
}

// durationsCompatible passes when either duration is unknown (nothing to
// gate on), or when the two durations are within DurationToleranceSeconds
// absolute, or within DurationTolerancePercent of the longer duration.
func durationsCompatible(a, b *int, cfg fuzzyconfig.Config) bool {
	if a == nil || b == nil {
		return true
	}
	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}
	if diff <= cfg.DurationToleranceSeconds {
		return true
	}

	longer := *a
	if *b > longer {
		longer = *b
	}
	if longer == 0 {
		return diff == 0
	}
	pct := float64(diff) / float64(longer) * 100
	return pct <= cfg.DurationTolerancePercent
}

func fieldMatches(a, b, field string, cfg fuzzyconfig.Config) bool {
	opts := normalizeOptionsFor(field, cfg)
	score := similarity.Similarity(similarity.Normalize(a, opts), similarity.Normalize(b, opts))
	return score >= thresholdFor(field, cfg)
}

func normalizeOptionsFor(field string, cfg fuzzyconfig.Config) similarity.Options {
	opts := similarity.Options{
		IgnoreCase:        cfg.IgnoreCase,
		IgnorePunctuation: cfg.IgnorePunctuation,
	}
	switch field {
	case "artist":
		opts.IgnoreArtistPrefixes = cfg.IgnoreArtistPrefixes
		opts.IgnoreFeaturing = cfg.IgnoreFeaturing
	case "title":
		opts.IgnoreFeaturing = cfg.IgnoreFeaturing
	case "album":
		opts.IgnoreAlbumEditions = cfg.IgnoreAlbumEditions
	}
	return opts
}

func thresholdFor(field string, cfg fuzzyconfig.Config) float64 {
	switch field {
	case "title":
		return cfg.TitleThreshold
	case "artist":
		return cfg.ArtistThreshold
	case "album":
		return cfg.AlbumThreshold
	}
	return 100
}
