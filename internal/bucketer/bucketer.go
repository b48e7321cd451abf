// Package bucketer implements frequency-balanced alphabetical grouping of
// artists, used by the path template engine's {subdirectory} field.
package bucketer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/record"
)

// symbolicKey is the bucketing key assigned to artist names whose first
// letter, after case-folding and punctuation stripping, is not a letter.
const symbolicKey = "#"

var punctuationRe = regexp.MustCompile(`\p{P}+`)

// Bucket is one alphabetical range of a Distribution.
type Bucket struct {
	Label     string
	StartKey  string
	EndKey    string
	Symbolic  bool
	Count     int
	Artists   []string
}

// Distribution is the derived, unpersisted result of BuildDistribution: a
// total file count, a per-artist count map, and an ordered list of
// approximately-balanced bucket boundaries.
type Distribution struct {
	Total   int
	Counts  map[string]int
	Buckets []Bucket
}

type artistEntry struct {
	artist string
	key    string
	count  int
}

// BuildDistribution counts files per distinct artist across records, sorts
// artists by their bucketing key, and splits them into k buckets whose
// summed counts approximately balance, per spec.md §4.8.
func BuildDistribution(records []*record.MusicRecord, k int) (*Distribution, error) {
	if k < 1 || k > 26 {
		return nil, fmt.Errorf("bucket count %d out of range [1,26]: %w", k, catalogerr.ErrInvalidConfig)
	}

	counts := make(map[string]int)
	for _, r := range records {
		counts[r.Artist()]++
	}

	entries := make([]artistEntry, 0, len(counts))
	for artist, c := range counts {
		entries = append(entries, artistEntry{artist: artist, key: normalizeKey(artist), count: c})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].key != entries[j].key {
			return entries[i].key < entries[j].key
		}
		return entries[i].artist < entries[j].artist
	})

	total := 0
	for _, e := range entries {
		total += e.count
	}

	buckets := splitIntoBuckets(entries, total, k)

	return &Distribution{Total: total, Counts: counts, Buckets: buckets}, nil
}

// normalizeKey returns the bucketing key for an artist name: the first
// letter of the case-folded, punctuation-stripped name, or symbolicKey if
// that name has no leading letter.
func normalizeKey(artist string) string {
	s := strings.ToLower(artist)
	s = punctuationRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	for _, r := range s {
		if unicode.IsLetter(r) {
			return string(r)
		}
		break
	}
	return symbolicKey
}

// splitIntoBuckets chooses k-1 split points over entries (already sorted by
// key) that minimize the deviation of each bucket's summed count from
// total/k, using a single forward pass: the running cumulative count is
// compared against the next ideal boundary, and the boundary is drawn at
// whichever adjacent index minimizes the distance to that ideal, with ties
// resolved toward inclusion.
func splitIntoBuckets(entries []artistEntry, total, k int) []Bucket {
	if len(entries) == 0 {
		return nil
	}
	if k > len(entries) {
		k = len(entries)
	}

	prefix := make([]int, len(entries)+1)
	for i, e := range entries {
		prefix[i+1] = prefix[i] + e.count
	}

	ideal := float64(total) / float64(k)
	splitsNeeded := k - 1

	boundaries := make([]int, 0, splitsNeeded)
	startIdx := 0
	for split := 0; split < splitsNeeded; split++ {
		target := ideal * float64(split+1)

		// Reserve at least one entry per remaining bucket, including this one.
		remainingBuckets := splitsNeeded - split + 1
		maxIdx := len(entries) - remainingBuckets

		i := startIdx
		for i < maxIdx && float64(prefix[i+1]) < target {
			i++
		}

		cum := prefix[i+1]
		prevCum := prefix[i]
		distAfter := float64(cum) - target
		distBefore := target - float64(prevCum)

		endIdx := i
		if distBefore < distAfter && i > startIdx {
			endIdx = i - 1
		}

		boundaries = append(boundaries, endIdx)
		startIdx = endIdx + 1
	}

	buckets := make([]Bucket, 0, k)
	start := 0
	for _, end := range boundaries {
		buckets = append(buckets, makeBucket(entries, prefix, start, end))
		start = end + 1
	}
	buckets = append(buckets, makeBucket(entries, prefix, start, len(entries)-1))

	return buckets
}

func makeBucket(entries []artistEntry, prefix []int, start, end int) Bucket {
	count := prefix[end+1] - prefix[start]

	artists := make([]string, 0, end-start+1)
	symbolic := true
	for i := start; i <= end; i++ {
		artists = append(artists, entries[i].artist)
		if entries[i].key != symbolicKey {
			symbolic = false
		}
	}

	label := strings.ToUpper(entries[start].key) + "-" + strings.ToUpper(entries[end].key)
	if symbolic {
		label = symbolicKey
	} else if entries[start].key == entries[end].key {
		label = strings.ToUpper(entries[start].key)
	}

	return Bucket{
		Label:    label,
		StartKey: entries[start].key,
		EndKey:   entries[end].key,
		Symbolic: symbolic,
		Count:    count,
		Artists:  artists,
	}
}

// BucketFor returns the label of the bucket that artist falls into given a
// previously built distribution. An artist whose key lies beyond every
// bucket's range (new data arriving after the distribution was built) falls
// into the last non-symbolic bucket; a symbolic-keyed artist falls into the
// symbolic bucket if one exists, otherwise into the first bucket.
func BucketFor(artist string, dist *Distribution) string {
	if dist == nil || len(dist.Buckets) == 0 {
		return symbolicKey
	}

	key := normalizeKey(artist)

	if key == symbolicKey {
		for _, b := range dist.Buckets {
			if b.Symbolic {
				return b.Label
			}
		}
		return dist.Buckets[0].Label
	}

	for _, b := range dist.Buckets {
		if b.Symbolic {
			continue
		}
		if key >= b.StartKey && key <= b.EndKey {
			return b.Label
		}
	}

	// Beyond the last bucket's range: fall into the last non-symbolic bucket.
	for i := len(dist.Buckets) - 1; i >= 0; i-- {
		if !dist.Buckets[i].Symbolic {
			return dist.Buckets[i].Label
		}
	}
	return dist.Buckets[0].Label
}
