package profile

import (
	"time"

	"github.com/crateindex/crateindex/internal/fuzzyconfig"
	"github.com/crateindex/crateindex/internal/pathtemplate"
)

// fileConfig is the shape decoded from the TOML configuration file.
// Additive keys are ignored by older readers, matching spec.md §6's
// encoding requirement: unmarshal is tolerant of unknown keys and missing
// ones decode to zero values.
type fileConfig struct {
	ActiveProfileID string        `koanf:"active_profile_id"`
	Profiles        []fileProfile `koanf:"profiles"`
}

type fileProfile struct {
	ID               string       `koanf:"id"`
	Name             string       `koanf:"name"`
	DatabasePath     string       `koanf:"database_path"`
	CreatedDate      int64        `koanf:"created_date"`
	LastUsedDate     int64        `koanf:"last_used_date"`
	EnabledFileTypes []string     `koanf:"enabled_file_types"`
	Fuzzy            fileFuzzy    `koanf:"fuzzy"`
	Template         fileTemplate `koanf:"template"`
}

type fileFuzzy struct {
	TitleThreshold           float64 `koanf:"title_threshold"`
	ArtistThreshold          float64 `koanf:"artist_threshold"`
	AlbumThreshold           float64 `koanf:"album_threshold"`
	DurationToleranceSeconds int     `koanf:"duration_tolerance_seconds"`
	DurationTolerancePercent float64 `koanf:"duration_tolerance_percent"`
	IgnoreCase               bool    `koanf:"ignore_case"`
	IgnorePunctuation        bool    `koanf:"ignore_punctuation"`
	TrackNumberMustMatch     bool    `koanf:"track_number_must_match"`
	IgnoreArtistPrefixes     bool    `koanf:"ignore_artist_prefixes"`
	IgnoreFeaturing          bool    `koanf:"ignore_featuring"`
	IgnoreAlbumEditions      bool    `koanf:"ignore_album_editions"`
	MinimumFieldsToMatch     int     `koanf:"minimum_fields_to_match"`
}

type fileTemplate struct {
	Template                string `koanf:"template"`
	TextFormat              string `koanf:"text_format"`
	UseSubdirectoryGrouping bool   `koanf:"use_subdirectory_grouping"`
	SubdirectoryLevels      int    `koanf:"subdirectory_levels"`
}

func (fp fileProfile) toProfile() *Profile {
	types := make(map[string]bool, len(fp.EnabledFileTypes))
	for _, t := range fp.EnabledFileTypes {
		types[t] = true
	}

	return &Profile{
		ID:           fp.ID,
		Name:         fp.Name,
		DatabasePath: fp.DatabasePath,
		CreatedDate:  time.Unix(fp.CreatedDate, 0).UTC(),
		LastUsedDate: time.Unix(fp.LastUsedDate, 0).UTC(),
		Fuzzy: fuzzyconfig.Config{
			TitleThreshold:           fp.Fuzzy.TitleThreshold,
			ArtistThreshold:          fp.Fuzzy.ArtistThreshold,
			AlbumThreshold:           fp.Fuzzy.AlbumThreshold,
			DurationToleranceSeconds: fp.Fuzzy.DurationToleranceSeconds,
			DurationTolerancePercent: fp.Fuzzy.DurationTolerancePercent,
			IgnoreCase:               fp.Fuzzy.IgnoreCase,
			IgnorePunctuation:        fp.Fuzzy.IgnorePunctuation,
			TrackNumberMustMatch:     fp.Fuzzy.TrackNumberMustMatch,
			IgnoreArtistPrefixes:     fp.Fuzzy.IgnoreArtistPrefixes,
			IgnoreFeaturing:          fp.Fuzzy.IgnoreFeaturing,
			IgnoreAlbumEditions:      fp.Fuzzy.IgnoreAlbumEditions,
			MinimumFieldsToMatch:     fp.Fuzzy.MinimumFieldsToMatch,
		},
		Template: TemplateSettings{
			Template:                fp.Template.Template,
			TextFormat:              parseTextFormat(fp.Template.TextFormat),
			UseSubdirectoryGrouping: fp.Template.UseSubdirectoryGrouping,
			SubdirectoryLevels:      fp.Template.SubdirectoryLevels,
		},
		EnabledFileTypes: types,
	}
}

// toMap renders the current profile set into the nested map shape the
// koanf TOML parser marshals, since koanf's Parser.Marshal takes a
// map[string]interface{} rather than an arbitrary struct.
func (m *Manager) toMap() map[string]interface{} {
	profiles := make([]map[string]interface{}, 0, len(m.profiles))
	for _, p := range m.profiles {
		profiles = append(profiles, profileMap(p))
	}
	return map[string]interface{}{
		"active_profile_id": m.activeID,
		"profiles":          profiles,
	}
}

func profileMap(p *Profile) map[string]interface{} {
	return map[string]interface{}{
		"id":                 p.ID,
		"name":               p.Name,
		"database_path":      p.DatabasePath,
		"created_date":       p.CreatedDate.Unix(),
		"last_used_date":     p.LastUsedDate.Unix(),
		"enabled_file_types": sortedFileTypes(p.EnabledFileTypes),
		"fuzzy": map[string]interface{}{
			"title_threshold":            p.Fuzzy.TitleThreshold,
			"artist_threshold":           p.Fuzzy.ArtistThreshold,
			"album_threshold":            p.Fuzzy.AlbumThreshold,
			"duration_tolerance_seconds": p.Fuzzy.DurationToleranceSeconds,
			"duration_tolerance_percent": p.Fuzzy.DurationTolerancePercent,
			"ignore_case":                p.Fuzzy.IgnoreCase,
			"ignore_punctuation":         p.Fuzzy.IgnorePunctuation,
			"track_number_must_match":    p.Fuzzy.TrackNumberMustMatch,
			"ignore_artist_prefixes":     p.Fuzzy.IgnoreArtistPrefixes,
			"ignore_featuring":           p.Fuzzy.IgnoreFeaturing,
			"ignore_album_editions":      p.Fuzzy.IgnoreAlbumEditions,
			"minimum_fields_to_match":    p.Fuzzy.MinimumFieldsToMatch,
		},
		"template": map[string]interface{}{
			"template":                  p.Template.Template,
			"text_format":               textFormatName(p.Template.TextFormat),
			"use_subdirectory_grouping": p.Template.UseSubdirectoryGrouping,
			"subdirectory_levels":       p.Template.SubdirectoryLevels,
		},
	}
}

func textFormatName(f pathtemplate.TextFormat) string {
	switch f {
	case pathtemplate.TextFormatUnderscore:
		return "underscore"
	case pathtemplate.TextFormatDash:
		return "dash"
	default:
		return "none"
	}
}

func parseTextFormat(s string) pathtemplate.TextFormat {
	switch s {
	case "underscore":
		return pathtemplate.TextFormatUnderscore
	case "dash":
		return pathtemplate.TextFormatDash
	default:
		return pathtemplate.TextFormatNone
	}
}
