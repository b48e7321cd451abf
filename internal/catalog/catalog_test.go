package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/record"
)

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c := New()
	if err := c.Initialize(":memory:"); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { _ = c.Shutdown() })
	return c
}

func newRecord(path string) *record.MusicRecord {
	r := record.New(path, "mp3")
	r.SetTitle("Hey Jude")
	r.SetArtist("The Beatles")
	r.SetAlbum("1967-1970")
	r.SetAlbumArtist("The Beatles")
	return r
}

func TestInitializeIdempotent(t *testing.T) {
	c := New()
	if err := c.Initialize(":memory:"); err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	defer c.Shutdown()

	if err := c.Initialize(":memory:"); err != nil {
		t.Fatalf("second Initialize with same path should be a no-op: %v", err)
	}
}

func TestSaveInsertAssignsID(t *testing.T) {
	c := newTestCatalog(t)
	r := newRecord("/music/hey-jude.mp3")

	if err := c.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if r.ID() == nil {
		t.Fatal("expected Save to assign an id")
	}
	if r.Modified() {
		t.Error("expected Modified() to be false after Save")
	}
}

func TestSaveDuplicatePath(t *testing.T) {
	c := newTestCatalog(t)
	a := newRecord("/music/hey-jude.mp3")
	b := newRecord("/music/hey-jude.mp3")

	if err := c.Save(a); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	err := c.Save(b)
	if err == nil {
		t.Fatal("expected duplicate file path error")
	}
	if !errors.Is(err, catalogerr.ErrDuplicateFilePath) {
		t.Errorf("expected ErrDuplicateFilePath, got %v", err)
	}
}

func TestSaveUpdate(t *testing.T) {
	c := newTestCatalog(t)
	r := newRecord("/music/hey-jude.mp3")
	if err := c.Save(r); err != nil {
		t.Fatalf("Save insert: %v", err)
	}

	r.SetTitle("Hey Jude (Remastered)")
	if err := c.Save(r); err != nil {
		t.Fatalf("Save update: %v", err)
	}
	if r.Modified() {
		t.Error("expected Modified() to be false after update")
	}

	got, err := c.Get(*r.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title() != "Hey Jude (Remastered)" {
		t.Errorf("Title() = %q, want %q", got.Title(), "Hey Jude (Remastered)")
	}
}

func TestDeleteNotFound(t *testing.T) {
	c := newTestCatalog(t)
	r := newRecord("/music/ghost.mp3")
	r.SetID(999)

	err := c.Delete(r)
	if !errors.Is(err, catalogerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesRecord(t *testing.T) {
	c := newTestCatalog(t)
	r := newRecord("/music/hey-jude.mp3")
	if err := c.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := c.Delete(r); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	_, err := c.Get(*r.ID())
	if !errors.Is(err, catalogerr.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestGetAllOrderedByID(t *testing.T) {
	c := newTestCatalog(t)
	for i, p := range []string{"/music/a.mp3", "/music/b.mp3", "/music/c.mp3"} {
		r := newRecord(p)
		r.SetTitle(p)
		if err := c.Save(r); err != nil {
			t.Fatalf("Save %d: %v", i, err)
		}
	}

	all, err := c.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetAll returned %d records, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if *all[i-1].ID() >= *all[i].ID() {
			t.Error("GetAll is not ordered by ascending id")
		}
	}
}

func TestCount(t *testing.T) {
	c := newTestCatalog(t)
	if n, err := c.Count(); err != nil || n != 0 {
		t.Fatalf("Count on empty catalog = %d, %v", n, err)
	}

	if err := c.Save(newRecord("/music/a.mp3")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n, err := c.Count(); err != nil || n != 1 {
		t.Fatalf("Count = %d, %v, want 1", n, err)
	}
}

func TestSearchByTitleCaseInsensitive(t *testing.T) {
	c := newTestCatalog(t)
	r := newRecord("/music/hey-jude.mp3")
	if err := c.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.SearchByTitle("HEY")
	if err != nil {
		t.Fatalf("SearchByTitle: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("SearchByTitle returned %d results, want 1", len(got))
	}
}

func TestSearchOrsAcrossFields(t *testing.T) {
	c := newTestCatalog(t)
	a := newRecord("/music/hey-jude.mp3")
	b := record.New("/music/imagine.mp3", "mp3")
	b.SetTitle("Imagine")
	b.SetArtist("John Lennon")
	b.SetAlbum("Imagine")

	if err := c.Save(a); err != nil {
		t.Fatalf("Save a: %v", err)
	}
	if err := c.Save(b); err != nil {
		t.Fatalf("Save b: %v", err)
	}

	got, err := c.Search("lennon")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || got[0].Title() != "Imagine" {
		t.Fatalf("Search(\"lennon\") = %v, want exactly Imagine", got)
	}

	got, err = c.Search("mp3")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Search(\"mp3\") matched on file_path returned %d, want 2", len(got))
	}
}

func TestClearAll(t *testing.T) {
	c := newTestCatalog(t)
	if err := c.Save(newRecord("/music/a.mp3")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := c.ClearAll(); err != nil {
		t.Fatalf("ClearAll: %v", err)
	}
	n, err := c.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("Count after ClearAll = %d, want 0", n)
	}
}

func TestRoundTripPreservesFields(t *testing.T) {
	c := newTestCatalog(t)
	r := newRecord("/music/hey-jude.mp3")
	trackNum := 1
	year := 1968
	duration := 431
	bitRate := 320
	sampleRate := 44100
	r.SetTrackNumber(&trackNum)
	r.SetYear(&year)
	r.SetDurationSeconds(&duration)
	r.SetBitRateKbps(&bitRate)
	r.SetSampleRateHz(&sampleRate)
	r.SetFileSizeBytes(12345)
	lm := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	r.SetLastModified(lm)

	if err := c.Save(r); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := c.Get(*r.ID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got.TrackNumber() != trackNum || *got.Year() != year || *got.DurationSeconds() != duration ||
		*got.BitRateKbps() != bitRate || *got.SampleRateHz() != sampleRate {
		t.Error("numeric fields did not round-trip")
	}
	if got.FileSizeBytes() != 12345 {
		t.Errorf("FileSizeBytes() = %d, want 12345", got.FileSizeBytes())
	}
	if !got.LastModified().Equal(lm) {
		t.Errorf("LastModified() = %v, want %v", got.LastModified(), lm)
	}
}
