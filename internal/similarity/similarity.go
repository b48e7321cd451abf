// Package similarity implements the pure string-matching primitives the
// duplicate engine builds on: a configuration-driven normalization pass and
// a 0-100 similarity score.
package similarity

import (
	"math"
	"regexp"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Options selects which normalization passes apply. Each field mirrors one
// of the matching FuzzyConfig booleans.
type Options struct {
	IgnoreCase           bool
	IgnoreArtistPrefixes bool
	IgnoreFeaturing      bool
	IgnoreAlbumEditions  bool
	IgnorePunctuation    bool
}

var (
	artistPrefixRe  = regexp.MustCompile(`(?i)^(the|a|an)\s+`)
	featuringRe     = regexp.MustCompile(`(?i)\s+\(?(?:feat\.?|featuring)\s+[^)]*\)?\s*$`)
	albumEditionRe  = regexp.MustCompile(`(?i)\s*\((?:deluxe|remastered|expanded|anniversary|special|bonus|edition|version)[^)]*\)\s*$`)
	punctuationRe   = regexp.MustCompile(`\p{P}+`)
	multipleSpaceRe = regexp.MustCompile(`\s+`)
)

// Normalize applies, in order, case folding, artist-prefix stripping,
// featuring-tail stripping, album-edition stripping, punctuation removal
// and whitespace collapsing, per spec.md §4.1. The result is idempotent:
// Normalize(Normalize(s, opts), opts) == Normalize(s, opts).
func Normalize(s string, opts Options) string {
	if opts.IgnoreCase {
		s = strings.ToLower(s)
	}
	if opts.IgnoreArtistPrefixes {
		s = artistPrefixRe.ReplaceAllString(s, "")
	}
	if opts.IgnoreFeaturing {
		s = featuringRe.ReplaceAllString(s, "")
	}
	if opts.IgnoreAlbumEditions {
		s = albumEditionRe.ReplaceAllString(s, "")
	}
	if opts.IgnorePunctuation {
		s = punctuationRe.ReplaceAllString(s, "")
	}
	s = multipleSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Similarity returns the similarity of a and b on a 0-100 scale, rounded to
// one decimal. It is the higher of Jaro-Winkler similarity and normalized
// Levenshtein similarity (1 - distance/max(len(a),len(b))), per spec.md
// §4.1. Two empty strings are identical (100); exactly one empty string is
// a complete mismatch (0).
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 100
	}
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 100
	}

	jw, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		jw = 0
	}
	lev, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		lev = 0
	}

	best := float64(jw)
	if float64(lev) > best {
		best = float64(lev)
	}

	return math.Round(best*100*10) / 10
}
