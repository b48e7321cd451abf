// Package pathtemplate parses and renders the placeholder-based path
// templates used to organize a catalog on disk.
package pathtemplate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/crateindex/crateindex/internal/bucketer"
	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/record"
)

// TextFormat controls how substituted placeholder values are sanitized
// before being written into a path segment.
type TextFormat int

const (
	// TextFormatNone leaves substituted values unchanged.
	TextFormatNone TextFormat = iota
	// TextFormatUnderscore replaces runs of non-word, non-dash
	// characters (including '.') with underscores.
	TextFormatUnderscore
	// TextFormatDash replaces the same runs with dashes.
	TextFormatDash
)

// formatStripRe deliberately excludes '.' from the allowed set: a
// substituted value's own punctuation (periods, commas, ...) collapses
// into the same separator as whitespace, so only the template's own
// literal "." before {file_type} survives.
var formatStripRe = regexp.MustCompile(`[^\w-]+`)

func (f TextFormat) apply(s string) string {
	switch f {
	case TextFormatUnderscore:
		return formatStripRe.ReplaceAllString(s, "_")
	case TextFormatDash:
		return formatStripRe.ReplaceAllString(s, "-")
	default:
		return s
	}
}

// fields recognized in placeholders. intFields may carry a :0Nd padding
// specifier; the rest may not.
var (
	knownFields = map[string]bool{
		"artist": true, "album_artist": true, "album": true, "title": true,
		"genre": true, "year": true, "track_number": true, "bit_rate": true,
		"sample_rate": true, "file_type": true, "subdirectory": true,
	}
	intFields = map[string]bool{
		"year": true, "track_number": true, "bit_rate": true, "sample_rate": true,
	}
)

type segment struct {
	literal  bool
	text     string // literal text, when literal
	field    string // placeholder field name, when !literal
	padWidth int     // 0 means no zero-padding
}

// Template is a parsed, validated path template ready for repeated Render calls.
type Template struct {
	raw                     string
	segments                []segment
	textFormat              TextFormat
	useSubdirectoryGrouping bool
	subdirectoryLevels      int
}

// Parse validates raw and compiles it into a Template. raw must terminate in
// the literal ".{file_type}" and every placeholder field must be one of the
// recognized names; only intFields may carry a :0Nd padding specifier.
func Parse(raw string, textFormat TextFormat, useSubdirectoryGrouping bool, subdirectoryLevels int) (*Template, error) {
	if useSubdirectoryGrouping && (subdirectoryLevels < 1 || subdirectoryLevels > 26) {
		return nil, fmt.Errorf("subdirectoryLevels %d out of range [1,26]: %w", subdirectoryLevels, catalogerr.ErrInvalidTemplate)
	}

	segs, err := parseSegments(raw)
	if err != nil {
		return nil, err
	}

	for _, s := range segs {
		if s.literal {
			continue
		}
		if !knownFields[s.field] {
			return nil, fmt.Errorf("unknown field %q: %w", s.field, catalogerr.ErrInvalidTemplate)
		}
		if s.padWidth > 0 && !intFields[s.field] {
			return nil, fmt.Errorf("field %q does not accept zero-padding: %w", s.field, catalogerr.ErrInvalidTemplate)
		}
	}

	if !strings.HasSuffix(raw, ".{file_type}") {
		return nil, fmt.Errorf("template must terminate in .{file_type}: %w", catalogerr.ErrInvalidTemplate)
	}

	return &Template{
		raw:                     raw,
		segments:                segs,
		textFormat:              textFormat,
		useSubdirectoryGrouping: useSubdirectoryGrouping,
		subdirectoryLevels:      subdirectoryLevels,
	}, nil
}

// placeholderRe matches {field} or {field:0Nd}.
var placeholderRe = regexp.MustCompile(`^([a-z_]+)(?::0(\d+)d)?$`)

// parseSegments splits raw into literal and placeholder segments. `{{` and
// `}}` are escaped braces; `{field}` or `{field:0Nd}` is a placeholder.
func parseSegments(raw string) ([]segment, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty template: %w", catalogerr.ErrInvalidTemplate)
	}

	var segments []segment
	var current []rune
	inPlaceholder := false

	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if r == '{' && i+1 < len(runes) && runes[i+1] == '{' {
			current = append(current, '{')
			i++
			continue
		}
		if r == '}' && i+1 < len(runes) && runes[i+1] == '}' {
			current = append(current, '}')
			i++
			continue
		}

		if r == '{' && !inPlaceholder {
			if len(current) > 0 {
				segments = append(segments, segment{literal: true, text: string(current)})
				current = nil
			}
			inPlaceholder = true
			continue
		}

		if r == '}' && inPlaceholder {
			field, padWidth, err := parsePlaceholder(string(current))
			if err != nil {
				return nil, err
			}
			segments = append(segments, segment{field: field, padWidth: padWidth})
			current = nil
			inPlaceholder = false
			continue
		}

		current = append(current, r)
	}

	if inPlaceholder {
		return nil, fmt.Errorf("unterminated placeholder %q: %w", string(current), catalogerr.ErrInvalidTemplate)
	}
	if len(current) > 0 {
		segments = append(segments, segment{literal: true, text: string(current)})
	}

	return segments, nil
}

func parsePlaceholder(raw string) (field string, padWidth int, err error) {
	m := placeholderRe.FindStringSubmatch(raw)
	if m == nil {
		return "", 0, fmt.Errorf("malformed placeholder %q: %w", raw, catalogerr.ErrInvalidTemplate)
	}
	field = m[1]
	if m[2] != "" {
		padWidth, err = strconv.Atoi(m[2])
		if err != nil {
			return "", 0, fmt.Errorf("malformed pad width in %q: %w", raw, catalogerr.ErrInvalidTemplate)
		}
	}
	return field, padWidth, nil
}

// Render substitutes every placeholder in t against r, using dist to
// resolve {subdirectory}. Literal segments, including path separators, are
// copied verbatim; substituted values are passed through t.textFormat.
func Render(t *Template, r *record.MusicRecord, dist *bucketer.Distribution) (string, error) {
	var b strings.Builder
	for _, s := range t.segments {
		if s.literal {
			b.WriteString(s.text)
			continue
		}
		value, err := fieldValue(s, r, dist)
		if err != nil {
			return "", err
		}
		b.WriteString(t.textFormat.apply(value))
	}
	return b.String(), nil
}

const unknownValue = "Unknown"

func fieldValue(s segment, r *record.MusicRecord, dist *bucketer.Distribution) (string, error) {
	switch s.field {
	case "artist":
		return stringOrUnknown(r.Artist()), nil
	case "album_artist":
		return stringOrUnknown(r.AlbumArtist()), nil
	case "album":
		return stringOrUnknown(r.Album()), nil
	case "title":
		return stringOrUnknown(r.Title()), nil
	case "genre":
		return stringOrUnknown(r.Genre()), nil
	case "year":
		return intOrUnknown(r.Year(), s.padWidth), nil
	case "track_number":
		return intOrUnknown(r.TrackNumber(), s.padWidth), nil
	case "bit_rate":
		return intOrUnknown(r.BitRateKbps(), s.padWidth), nil
	case "sample_rate":
		return intOrUnknown(r.SampleRateHz(), s.padWidth), nil
	case "file_type":
		return stringOrUnknown(r.FileType()), nil
	case "subdirectory":
		return bucketer.BucketFor(r.Artist(), dist), nil
	default:
		return "", fmt.Errorf("unknown field %q: %w", s.field, catalogerr.ErrInternal)
	}
}

func stringOrUnknown(s string) string {
	if s == "" {
		return unknownValue
	}
	return s
}

func intOrUnknown(v *int, padWidth int) string {
	if v == nil {
		return unknownValue
	}
	if padWidth > 0 {
		return fmt.Sprintf("%0*d", padWidth, *v)
	}
	return strconv.Itoa(*v)
}
