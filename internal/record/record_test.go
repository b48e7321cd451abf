package record

import (
	"testing"
	"time"
)

func intPtr(v int) *int { return &v }

func TestNewIsModified(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	if !r.Modified() {
		t.Error("new record should be modified until first save")
	}
	if r.FilePath() != "/music/a.mp3" {
		t.Errorf("FilePath() = %q, want /music/a.mp3", r.FilePath())
	}
	if r.FileType() != "mp3" {
		t.Errorf("FileType() = %q, want mp3", r.FileType())
	}
	if r.ID() != nil {
		t.Error("new record should have nil id")
	}
}

func TestClearModified(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	r.ClearModified()
	if r.Modified() {
		t.Error("ClearModified should reset Modified to false")
	}
}

func TestSetIDDoesNotMarkModified(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	r.ClearModified()
	r.SetID(42)
	if r.Modified() {
		t.Error("SetID should not mark the record modified")
	}
	if r.ID() == nil || *r.ID() != 42 {
		t.Errorf("ID() = %v, want 42", r.ID())
	}
}

func TestStringSettersTrackChanges(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	r.ClearModified()

	r.SetTitle("Hey Jude")
	if !r.Modified() {
		t.Error("SetTitle with a new value should mark modified")
	}
	r.ClearModified()

	r.SetTitle("Hey Jude")
	if r.Modified() {
		t.Error("SetTitle with the same value should not mark modified")
	}

	r.SetArtist("The Beatles")
	r.SetAlbum("The Beatles (White Album)")
	r.SetAlbumArtist("The Beatles")
	r.SetGenre("Rock")

	if r.Artist() != "The Beatles" || r.Album() != "The Beatles (White Album)" ||
		r.AlbumArtist() != "The Beatles" || r.Genre() != "Rock" {
		t.Error("string field getters should reflect setters")
	}
}

func TestIntPtrSettersTrackChanges(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	r.ClearModified()

	r.SetTrackNumber(intPtr(1))
	if !r.Modified() {
		t.Error("SetTrackNumber(non-nil) from nil should mark modified")
	}
	r.ClearModified()

	r.SetTrackNumber(intPtr(1))
	if r.Modified() {
		t.Error("SetTrackNumber with an equal value should not mark modified")
	}

	r.SetTrackNumber(intPtr(2))
	if !r.Modified() {
		t.Error("SetTrackNumber with a different value should mark modified")
	}
	r.ClearModified()

	r.SetTrackNumber(nil)
	if !r.Modified() {
		t.Error("SetTrackNumber(nil) from non-nil should mark modified")
	}
	r.ClearModified()

	r.SetTrackNumber(nil)
	if r.Modified() {
		t.Error("SetTrackNumber(nil) from nil should not mark modified")
	}
}

func TestYearDurationBitrateSampleRate(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	r.ClearModified()

	r.SetYear(intPtr(1968))
	r.SetDurationSeconds(intPtr(180))
	r.SetBitRateKbps(intPtr(320))
	r.SetSampleRateHz(intPtr(44100))

	if *r.Year() != 1968 || *r.DurationSeconds() != 180 || *r.BitRateKbps() != 320 || *r.SampleRateHz() != 44100 {
		t.Error("numeric getters should reflect setters")
	}
	if !r.Modified() {
		t.Error("expected modified after setting numeric fields")
	}
}

func TestFileSizeAndTimestamps(t *testing.T) {
	r := New("/music/a.mp3", "mp3")
	r.ClearModified()

	r.SetFileSizeBytes(1024)
	if !r.Modified() || r.FileSizeBytes() != 1024 {
		t.Error("SetFileSizeBytes should update the value and mark modified")
	}
	r.ClearModified()
	r.SetFileSizeBytes(1024)
	if r.Modified() {
		t.Error("SetFileSizeBytes with an equal value should not mark modified")
	}

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.SetLastModified(now)
	if !r.Modified() || !r.LastModified().Equal(now) {
		t.Error("SetLastModified should update the value and mark modified")
	}

	r.SetDateAdded(now)
	if r.DateAdded() != now && !r.DateAdded().Equal(now) {
		t.Error("SetDateAdded should update the value")
	}
}
