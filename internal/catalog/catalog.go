// Package catalog is the primary persisted store of MusicRecords for one
// profile: a single SQLite-backed MUSIC_FILES table with additive schema
// migrations and single-writer discipline.
package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	dbutil "github.com/crateindex/crateindex/internal/db"
	"github.com/crateindex/crateindex/internal/catalogerr"
	"github.com/crateindex/crateindex/internal/record"

	_ "modernc.org/sqlite" // SQLite driver
)

// Catalog owns the lifecycle of one SQLite connection holding MUSIC_FILES.
// Reads may run concurrently; writes (Save, Delete, ClearAll) serialize on
// writeMu, since modernc.org/sqlite allows only one writer at a time even
// under WAL.
type Catalog struct {
	writeMu sync.Mutex

	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// New returns an unopened Catalog. Call Initialize before use.
func New() *Catalog {
	return &Catalog{}
}

// Initialize opens a connection to databasePath, creating MUSIC_FILES and
// its indexes if absent and applying any missing additive columns. A second
// Initialize call with the same path is a no-op; a call with a different
// path shuts down the existing connection first and reopens at the new path.
func (c *Catalog) Initialize(databasePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		if c.path == databasePath {
			return nil
		}
		if err := c.closeLocked(); err != nil {
			return fmt.Errorf("%s: %w", databasePath, errors.Join(catalogerr.ErrIO, err))
		}
	}

	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", databasePath, catalogerr.ErrIO)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("%s: %w", pragma, catalogerr.ErrIO)
		}
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return fmt.Errorf("init schema: %w", catalogerr.ErrIO)
	}

	c.db = db
	c.path = databasePath
	return nil
}

// Shutdown closes the underlying connection. Safe to call on an
// uninitialized or already-closed Catalog.
func (c *Catalog) Shutdown() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeLocked()
}

func (c *Catalog) closeLocked() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	c.path = ""
	return err
}

// Save inserts r if it has no id, or updates it by id otherwise. On insert,
// the store-assigned id is written back into r via record.SetID. On update,
// r.ClearModified is called on success.
func (c *Catalog) Save(r *record.MusicRecord) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("catalog not initialized: %w", catalogerr.ErrInternal)
	}

	if r.ID() == nil {
		return c.insert(db, r)
	}
	return c.update(db, r)
}

// insert runs the row insert and the id readback in one transaction, so a
// crash between the two can never leave r holding an id SQLite did not
// actually commit.
func (c *Catalog) insert(db *sql.DB, r *record.MusicRecord) error {
	var id int64
	err := dbutil.WithTx(db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO MUSIC_FILES (
				file_path, title, artist, album_artist, album, genre,
				track_number, year, duration_seconds, bit_rate, sample_rate,
				file_type, file_size_bytes, last_modified, date_added
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.FilePath(), r.Title(), r.Artist(), r.AlbumArtist(), r.Album(), r.Genre(),
			dbutil.IntPtrToNull(r.TrackNumber()), dbutil.IntPtrToNull(r.Year()),
			dbutil.IntPtrToNull(r.DurationSeconds()), dbutil.IntPtrToNull(r.BitRateKbps()),
			dbutil.IntPtrToNull(r.SampleRateHz()), r.FileType(), r.FileSizeBytes(),
			timeToUnix(r.LastModified()), timeToUnix(time.Now()),
		)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("%s: %w", r.FilePath(), catalogerr.ErrDuplicateFilePath)
		}
		return fmt.Errorf("insert %s: %w", r.FilePath(), catalogerr.ErrIO)
	}

	r.SetID(id)
	r.ClearModified()
	return nil
}

// update runs the row update and its affected-rows check in one
// transaction, matching insert's atomicity.
func (c *Catalog) update(db *sql.DB, r *record.MusicRecord) error {
	var n int64
	err := dbutil.WithTx(db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			UPDATE MUSIC_FILES SET
				file_path = ?, title = ?, artist = ?, album_artist = ?, album = ?, genre = ?,
				track_number = ?, year = ?, duration_seconds = ?, bit_rate = ?, sample_rate = ?,
				file_type = ?, file_size_bytes = ?, last_modified = ?
			WHERE id = ?
		`,
			r.FilePath(), r.Title(), r.Artist(), r.AlbumArtist(), r.Album(), r.Genre(),
			dbutil.IntPtrToNull(r.TrackNumber()), dbutil.IntPtrToNull(r.Year()),
			dbutil.IntPtrToNull(r.DurationSeconds()), dbutil.IntPtrToNull(r.BitRateKbps()),
			dbutil.IntPtrToNull(r.SampleRateHz()), r.FileType(), r.FileSizeBytes(),
			timeToUnix(r.LastModified()), *r.ID(),
		)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		if isUniqueConstraintErr(err) {
			return fmt.Errorf("%s: %w", r.FilePath(), catalogerr.ErrDuplicateFilePath)
		}
		return fmt.Errorf("update %d: %w", *r.ID(), catalogerr.ErrIO)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", *r.ID(), catalogerr.ErrNotFound)
	}

	r.ClearModified()
	return nil
}

// Delete removes r by id. Fails with catalogerr.ErrNotFound if absent.
func (c *Catalog) Delete(r *record.MusicRecord) error {
	if r.ID() == nil {
		return fmt.Errorf("record has no id: %w", catalogerr.ErrNotFound)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("catalog not initialized: %w", catalogerr.ErrInternal)
	}

	var n int64
	err := dbutil.WithTx(db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM MUSIC_FILES WHERE id = ?`, *r.ID())
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %d: %w", *r.ID(), catalogerr.ErrIO)
	}
	if n == 0 {
		return fmt.Errorf("id %d: %w", *r.ID(), catalogerr.ErrNotFound)
	}
	return nil
}

// Get returns the record with the given id, or catalogerr.ErrNotFound.
func (c *Catalog) Get(id int64) (*record.MusicRecord, error) {
	db, err := c.readDB()
	if err != nil {
		return nil, err
	}

	row := db.QueryRow(selectColumns+` FROM MUSIC_FILES WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("id %d: %w", id, catalogerr.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %d: %w", id, catalogerr.ErrIO)
	}
	return r, nil
}

// GetAll returns every record ordered by ascending id. A fresh slice is
// built on every call.
func (c *Catalog) GetAll() ([]*record.MusicRecord, error) {
	db, err := c.readDB()
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(selectColumns + ` FROM MUSIC_FILES ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("get all: %w", catalogerr.ErrIO)
	}
	defer rows.Close()

	return scanAll(rows)
}

// Count returns the number of records in the catalog.
func (c *Catalog) Count() (int, error) {
	db, err := c.readDB()
	if err != nil {
		return 0, err
	}

	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM MUSIC_FILES`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count: %w", catalogerr.ErrIO)
	}
	return n, nil
}

// SearchByTitle returns records whose title contains term, case-insensitively.
func (c *Catalog) SearchByTitle(term string) ([]*record.MusicRecord, error) {
	return c.searchColumn("title", term)
}

// SearchByArtist returns records whose artist contains term, case-insensitively.
func (c *Catalog) SearchByArtist(term string) ([]*record.MusicRecord, error) {
	return c.searchColumn("artist", term)
}

// SearchByAlbum returns records whose album contains term, case-insensitively.
func (c *Catalog) SearchByAlbum(term string) ([]*record.MusicRecord, error) {
	return c.searchColumn("album", term)
}

func (c *Catalog) searchColumn(column, term string) ([]*record.MusicRecord, error) {
	db, err := c.readDB()
	if err != nil {
		return nil, err
	}

	like := "%" + term + "%"
	rows, err := db.Query(
		selectColumns+` FROM MUSIC_FILES WHERE `+column+` LIKE ? COLLATE NOCASE`,
		like,
	)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", column, catalogerr.ErrIO)
	}
	defer rows.Close()

	return scanAll(rows)
}

// Search ORs a case-insensitive substring match across title, artist,
// album, and file path.
func (c *Catalog) Search(term string) ([]*record.MusicRecord, error) {
	db, err := c.readDB()
	if err != nil {
		return nil, err
	}

	like := "%" + term + "%"
	rows, err := db.Query(
		selectColumns+`
			FROM MUSIC_FILES
			WHERE title LIKE ? COLLATE NOCASE
			   OR artist LIKE ? COLLATE NOCASE
			   OR album LIKE ? COLLATE NOCASE
			   OR file_path LIKE ? COLLATE NOCASE
		`,
		like, like, like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", catalogerr.ErrIO)
	}
	defer rows.Close()

	return scanAll(rows)
}

// ClearAll removes every record. Used before a full re-scan.
func (c *Catalog) ClearAll() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.RLock()
	db := c.db
	c.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("catalog not initialized: %w", catalogerr.ErrInternal)
	}

	err := dbutil.WithTx(db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`DELETE FROM MUSIC_FILES`)
		return err
	})
	if err != nil {
		return fmt.Errorf("clear all: %w", catalogerr.ErrIO)
	}
	return nil
}

func (c *Catalog) readDB() (*sql.DB, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.db == nil {
		return nil, fmt.Errorf("catalog not initialized: %w", catalogerr.ErrInternal)
	}
	return c.db, nil
}

const selectColumns = `
	SELECT id, file_path, title, artist, album_artist, album, genre,
		track_number, year, duration_seconds, bit_rate, sample_rate,
		file_type, file_size_bytes, last_modified, date_added`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*record.MusicRecord, error) {
	var (
		id                                                               int64
		filePath, fileType                                               string
		title, artist, albumArtist, album, genre                         sql.NullString
		trackNumber, year, durationSeconds, bitRate, sampleRate          sql.NullInt64
		fileSizeBytes                                                    int64
		lastModified, dateAdded                                          sql.NullInt64
	)

	err := row.Scan(
		&id, &filePath, &title, &artist, &albumArtist, &album, &genre,
		&trackNumber, &year, &durationSeconds, &bitRate, &sampleRate,
		&fileType, &fileSizeBytes, &lastModified, &dateAdded,
	)
	if err != nil {
		return nil, err
	}

	r := record.New(filePath, fileType)
	r.SetID(id)
	r.SetTitle(dbutil.NullStringValue(title))
	r.SetArtist(dbutil.NullStringValue(artist))
	r.SetAlbumArtist(dbutil.NullStringValue(albumArtist))
	r.SetAlbum(dbutil.NullStringValue(album))
	r.SetGenre(dbutil.NullStringValue(genre))
	r.SetTrackNumber(dbutil.NullInt64ToIntPtr(trackNumber))
	r.SetYear(dbutil.NullInt64ToIntPtr(year))
	r.SetDurationSeconds(dbutil.NullInt64ToIntPtr(durationSeconds))
	r.SetBitRateKbps(dbutil.NullInt64ToIntPtr(bitRate))
	r.SetSampleRateHz(dbutil.NullInt64ToIntPtr(sampleRate))
	r.SetFileSizeBytes(fileSizeBytes)
	if lastModified.Valid {
		r.SetLastModified(time.Unix(lastModified.Int64, 0).UTC())
	}
	if dateAdded.Valid {
		r.SetDateAdded(time.Unix(dateAdded.Int64, 0).UTC())
	}
	r.ClearModified()
	return r, nil
}

func scanAll(rows *sql.Rows) ([]*record.MusicRecord, error) {
	records := make([]*record.MusicRecord, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan row: %w", catalogerr.ErrIO)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", catalogerr.ErrIO)
	}
	return records, nil
}

func timeToUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func isUniqueConstraintErr(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
