// Package fuzzyconfig holds the thresholds and normalization toggles that
// drive duplicate detection, along with the three built-in presets.
package fuzzyconfig

import (
	"fmt"
	"math"

	"github.com/crateindex/crateindex/internal/catalogerr"
)

// Config is an immutable value configuring duplicate detection.
type Config struct {
	TitleThreshold  float64
	ArtistThreshold float64
	AlbumThreshold  float64

	DurationToleranceSeconds int
	DurationTolerancePercent float64

	IgnoreCase           bool
	IgnorePunctuation    bool
	TrackNumberMustMatch bool
	IgnoreArtistPrefixes bool
	IgnoreFeaturing      bool
	IgnoreAlbumEditions  bool

	MinimumFieldsToMatch int
}

// Strict requires equal track numbers and 95% field thresholds; the track
// match counts as one field, so three of title, artist, album and track
// number must agree.
var Strict = Config{
	TitleThreshold:           95,
	ArtistThreshold:          95,
	AlbumThreshold:           95,
	DurationToleranceSeconds: 3,
	DurationTolerancePercent: 1.0,
	MinimumFieldsToMatch:     3,
	IgnoreCase:               true,
	IgnorePunctuation:        false,
	TrackNumberMustMatch:     true,
}

// Balanced is the recommended default: tolerant of retagging and minor
// encoding differences without being promiscuous.
var Balanced = Config{
	TitleThreshold:           85,
	ArtistThreshold:          85,
	AlbumThreshold:           85,
	DurationToleranceSeconds: 10,
	DurationTolerancePercent: 5.0,
	MinimumFieldsToMatch:     2,
	IgnoreCase:               true,
	IgnorePunctuation:        true,
	TrackNumberMustMatch:     false,
}

// Lenient casts the widest net; best used as a first pass before manual review.
var Lenient = Config{
	TitleThreshold:           70,
	ArtistThreshold:          70,
	AlbumThreshold:           70,
	DurationToleranceSeconds: 30,
	DurationTolerancePercent: 10.0,
	MinimumFieldsToMatch:     2,
	IgnoreCase:               true,
	IgnorePunctuation:        true,
	TrackNumberMustMatch:     false,
}

const thresholdEpsilon = 0.1

// Name reports the preset identity of cfg: "Strict", "Balanced" or "Lenient"
// when cfg matches a preset within thresholdEpsilon on the float thresholds
// and exactly on every bool and int field, otherwise "Custom".
func (cfg Config) Name() string {
	for name, preset := range map[string]Config{
		"Strict":   Strict,
		"Balanced": Balanced,
		"Lenient":  Lenient,
	} {
		if cfg.matchesPreset(preset) {
			return name
		}
	}
	return "Custom"
}

func (cfg Config) matchesPreset(preset Config) bool {
	return closeEnough(cfg.TitleThreshold, preset.TitleThreshold) &&
		closeEnough(cfg.ArtistThreshold, preset.ArtistThreshold) &&
		closeEnough(cfg.AlbumThreshold, preset.AlbumThreshold) &&
		closeEnough(cfg.DurationTolerancePercent, preset.DurationTolerancePercent) &&
		cfg.DurationToleranceSeconds == preset.DurationToleranceSeconds &&
		cfg.MinimumFieldsToMatch == preset.MinimumFieldsToMatch &&
		cfg.IgnoreCase == preset.IgnoreCase &&
		cfg.IgnorePunctuation == preset.IgnorePunctuation &&
		cfg.TrackNumberMustMatch == preset.TrackNumberMustMatch &&
		cfg.IgnoreArtistPrefixes == preset.IgnoreArtistPrefixes &&
		cfg.IgnoreFeaturing == preset.IgnoreFeaturing &&
		cfg.IgnoreAlbumEditions == preset.IgnoreAlbumEditions
}

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) <= thresholdEpsilon
}

// Validate checks the invariants from the data model: thresholds in [0,100]
// and a minimum field count of at least 1.
func (cfg Config) Validate() error {
	for _, t := range []float64{cfg.TitleThreshold, cfg.ArtistThreshold, cfg.AlbumThreshold} {
		if t < 0 || t > 100 {
			return fmt.Errorf("threshold %v out of range [0,100]: %w", t, catalogerr.ErrInvalidConfig)
		}
	}
	if cfg.MinimumFieldsToMatch < 1 {
		return fmt.Errorf("minimumFieldsToMatch %d must be >= 1: %w", cfg.MinimumFieldsToMatch, catalogerr.ErrInvalidConfig)
	}
	return nil
}
