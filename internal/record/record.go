// Package record defines MusicRecord, the in-memory entity that flows
// between the scanner, the catalog and the duplicate engine.
package record

import "time"

// MusicRecord is a catalog entry for a single audio file. Nullable numeric
// fields are represented as pointers; nil means absent. Field mutation goes
// through the Set* accessors so that Modified reflects whatever has changed
// since the record was loaded or last persisted.
type MusicRecord struct {
	id *int64

	filePath string

	title       string
	artist      string
	album       string
	albumArtist string
	genre       string

	trackNumber     *int
	year            *int
	durationSeconds *int
	bitRateKbps     *int
	sampleRateHz    *int

	fileType      string
	fileSizeBytes int64
	lastModified  time.Time
	dateAdded     time.Time

	modified bool
}

// New constructs a MusicRecord with no id, ready for a first Catalog.Save.
func New(filePath, fileType string) *MusicRecord {
	return &MusicRecord{
		filePath: filePath,
		fileType: fileType,
		modified: true,
	}
}

// ID returns the surrogate id, or nil if the record has not yet been persisted.
func (r *MusicRecord) ID() *int64 { return r.id }

// SetID is called by the Catalog after an insert assigns the surrogate id.
// It does not mark the record modified: assigning an id is bookkeeping, not
// a content change.
func (r *MusicRecord) SetID(id int64) { r.id = &id }

// FilePath returns the absolute path backing this record.
func (r *MusicRecord) FilePath() string { return r.filePath }

// Modified reports whether any field has changed since load or last persist.
func (r *MusicRecord) Modified() bool { return r.modified }

// ClearModified is called by the Catalog after a successful save.
func (r *MusicRecord) ClearModified() { r.modified = false }

// Title returns the track title.
func (r *MusicRecord) Title() string { return r.title }

// SetTitle updates the title, marking the record modified if the value differs.
func (r *MusicRecord) SetTitle(v string) {
	if r.title != v {
		r.title = v
		r.modified = true
	}
}

// Artist returns the track artist.
func (r *MusicRecord) Artist() string { return r.artist }

// SetArtist updates the artist, marking the record modified if the value differs.
func (r *MusicRecord) SetArtist(v string) {
	if r.artist != v {
		r.artist = v
		r.modified = true
	}
}

// Album returns the album title.
func (r *MusicRecord) Album() string { return r.album }

// SetAlbum updates the album, marking the record modified if the value differs.
func (r *MusicRecord) SetAlbum(v string) {
	if r.album != v {
		r.album = v
		r.modified = true
	}
}

// AlbumArtist returns the album artist.
func (r *MusicRecord) AlbumArtist() string { return r.albumArtist }

// SetAlbumArtist updates the album artist, marking the record modified if the value differs.
func (r *MusicRecord) SetAlbumArtist(v string) {
	if r.albumArtist != v {
		r.albumArtist = v
		r.modified = true
	}
}

// Genre returns the genre.
func (r *MusicRecord) Genre() string { return r.genre }

// SetGenre updates the genre, marking the record modified if the value differs.
func (r *MusicRecord) SetGenre(v string) {
	if r.genre != v {
		r.genre = v
		r.modified = true
	}
}

// TrackNumber returns the track number, or nil if unknown.
func (r *MusicRecord) TrackNumber() *int { return r.trackNumber }

// SetTrackNumber updates the track number, marking the record modified if the value differs.
func (r *MusicRecord) SetTrackNumber(v *int) {
	if !intPtrEqual(r.trackNumber, v) {
		r.trackNumber = v
		r.modified = true
	}
}

// Year returns the release year, or nil if unknown.
func (r *MusicRecord) Year() *int { return r.year }

// SetYear updates the release year, marking the record modified if the value differs.
func (r *MusicRecord) SetYear(v *int) {
	if !intPtrEqual(r.year, v) {
		r.year = v
		r.modified = true
	}
}

// DurationSeconds returns the track duration, or nil if unknown.
func (r *MusicRecord) DurationSeconds() *int { return r.durationSeconds }

// SetDurationSeconds updates the duration, marking the record modified if the value differs.
func (r *MusicRecord) SetDurationSeconds(v *int) {
	if !intPtrEqual(r.durationSeconds, v) {
		r.durationSeconds = v
		r.modified = true
	}
}

// BitRateKbps returns the bit rate, or nil if unknown.
func (r *MusicRecord) BitRateKbps() *int { return r.bitRateKbps }

// SetBitRateKbps updates the bit rate, marking the record modified if the value differs.
func (r *MusicRecord) SetBitRateKbps(v *int) {
	if !intPtrEqual(r.bitRateKbps, v) {
		r.bitRateKbps = v
		r.modified = true
	}
}

// SampleRateHz returns the sample rate, or nil if unknown.
func (r *MusicRecord) SampleRateHz() *int { return r.sampleRateHz }

// SetSampleRateHz updates the sample rate, marking the record modified if the value differs.
func (r *MusicRecord) SetSampleRateHz(v *int) {
	if !intPtrEqual(r.sampleRateHz, v) {
		r.sampleRateHz = v
		r.modified = true
	}
}

// FileType returns the lowercase extension, without a leading dot.
func (r *MusicRecord) FileType() string { return r.fileType }

// FileSizeBytes returns the file size in bytes.
func (r *MusicRecord) FileSizeBytes() int64 { return r.fileSizeBytes }

// SetFileSizeBytes updates the file size, marking the record modified if the value differs.
func (r *MusicRecord) SetFileSizeBytes(v int64) {
	if r.fileSizeBytes != v {
		r.fileSizeBytes = v
		r.modified = true
	}
}

// LastModified returns the source file's modification time.
func (r *MusicRecord) LastModified() time.Time { return r.lastModified }

// SetLastModified updates the source file's modification time, marking the
// record modified if the value differs.
func (r *MusicRecord) SetLastModified(v time.Time) {
	if !r.lastModified.Equal(v) {
		r.lastModified = v
		r.modified = true
	}
}

// DateAdded returns when the record first entered the catalog.
func (r *MusicRecord) DateAdded() time.Time { return r.dateAdded }

// SetDateAdded sets the catalog insertion time. Used by the Catalog when
// loading rows back from storage; does not affect Modified.
func (r *MusicRecord) SetDateAdded(v time.Time) { r.dateAdded = v }

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
