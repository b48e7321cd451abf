package pathtemplate

import (
	"errors"
	"testing"

	"github.com/crateindex/crateindex/internal/bucketer"
	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/record"
)

func intPtr(v int) *int { return &v }

func sampleRecord() *record.MusicRecord {
	r := record.New("/music/hey-jude.mp3", "mp3")
	r.SetArtist("The Beatles")
	r.SetAlbumArtist("The Beatles")
	r.SetAlbum("1967-1970")
	r.SetTitle("Hey Jude")
	r.SetTrackNumber(intPtr(1))
	r.SetYear(intPtr(1968))
	return r
}

func TestParseValid(t *testing.T) {
	tests := []string{
		"{artist}/{album}/{track_number:02d} {title}.{file_type}",
		"{album_artist}/{year}/{title}.{file_type}",
		"flat/{title}.{file_type}",
		"literal-only.{file_type}",
	}
	for _, raw := range tests {
		if _, err := Parse(raw, TextFormatNone, false, 1); err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", raw, err)
		}
	}
}

func TestParseRejectsMissingFileTypeTail(t *testing.T) {
	_, err := Parse("{artist}/{title}.mp3", TextFormatNone, false, 1)
	if !errors.Is(err, catalogerr.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestParseRejectsUnknownField(t *testing.T) {
	_, err := Parse("{nonsense}.{file_type}", TextFormatNone, false, 1)
	if !errors.Is(err, catalogerr.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestParseRejectsPaddingOnNonIntField(t *testing.T) {
	_, err := Parse("{artist:03d}.{file_type}", TextFormatNone, false, 1)
	if !errors.Is(err, catalogerr.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestParseRejectsUnterminatedPlaceholder(t *testing.T) {
	_, err := Parse("{artist/{title}.{file_type}", TextFormatNone, false, 1)
	if !errors.Is(err, catalogerr.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestParseRejectsInvalidSubdirectoryLevels(t *testing.T) {
	_, err := Parse("{artist}/{title}.{file_type}", TextFormatNone, true, 0)
	if !errors.Is(err, catalogerr.ErrInvalidTemplate) {
		t.Fatalf("expected ErrInvalidTemplate, got %v", err)
	}
}

func TestRenderSubstitutesFields(t *testing.T) {
	tpl, err := Parse("{artist}/{album}/{track_number:02d} {title}.{file_type}", TextFormatNone, false, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	got, err := Render(tpl, sampleRecord(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "The Beatles/1967-1970/01 Hey Jude.mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderMissingFieldBecomesUnknown(t *testing.T) {
	tpl, err := Parse("{genre}/{title}.{file_type}", TextFormatNone, false, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := sampleRecord()
	got, err := Render(tpl, r, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Unknown/Hey Jude.mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderTextFormatUnderscore(t *testing.T) {
	tpl, err := Parse("{artist}/{title}.{file_type}", TextFormatUnderscore, false, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := sampleRecord()
	r.SetTitle("Hey Jude (Live)")
	got, err := Render(tpl, r, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "The_Beatles/Hey_Jude_(Live).mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderTextFormatUnderscoreStripsInteriorDots(t *testing.T) {
	tpl, err := Parse("{artist}/{album}/{track_number:02d}-{title}.{file_type}", TextFormatUnderscore, false, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	r := record.New("/music/wall.mp3", "mp3")
	r.SetArtist("Pink Floyd")
	r.SetAlbum("The Wall")
	r.SetTrackNumber(intPtr(3))
	r.SetTitle("Another Brick in the Wall, Pt. 2")

	got, err := Render(tpl, r, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Pink_Floyd/The_Wall/03-Another_Brick_in_the_Wall_Pt_2.mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderPreservesLiteralSeparators(t *testing.T) {
	tpl, err := Parse("Music/{artist}/{title}.{file_type}", TextFormatUnderscore, false, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := Render(tpl, sampleRecord(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "Music/The_Beatles/Hey_Jude.mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderSubdirectory(t *testing.T) {
	tpl, err := Parse("{subdirectory}/{artist}/{title}.{file_type}", TextFormatNone, true, 3)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	records := []*record.MusicRecord{sampleRecord()}
	dist, err := bucketer.BuildDistribution(records, 1)
	if err != nil {
		t.Fatalf("BuildDistribution: %v", err)
	}

	got, err := Render(tpl, sampleRecord(), dist)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := dist.Buckets[0].Label + "/The Beatles/Hey Jude.mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestEscapedBraces(t *testing.T) {
	tpl, err := Parse("{{literal}}/{title}.{file_type}", TextFormatNone, false, 1)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got, err := Render(tpl, sampleRecord(), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "{literal}/Hey Jude.mp3"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}
