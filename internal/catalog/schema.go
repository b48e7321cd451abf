package catalog

import "database/sql"

// tableName is kept upper-case and literal: it is a documented part of the
// on-disk schema contract, not a Go naming choice to normalize away.
const tableName = "MUSIC_FILES"

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS MUSIC_FILES (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			file_path         TEXT    NOT NULL UNIQUE,
			title             TEXT,
			artist            TEXT,
			album_artist      TEXT,
			album             TEXT,
			genre             TEXT,
			track_number      INTEGER,
			year              INTEGER,
			duration_seconds  INTEGER,
			bit_rate          INTEGER,
			sample_rate       INTEGER,
			file_type         TEXT,
			file_size_bytes   INTEGER,
			last_modified     TIMESTAMP,
			date_added        TIMESTAMP
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_music_files_file_path ON MUSIC_FILES(file_path);
		CREATE INDEX IF NOT EXISTS idx_music_files_title ON MUSIC_FILES(title);
		CREATE INDEX IF NOT EXISTS idx_music_files_artist ON MUSIC_FILES(artist);
		CREATE INDEX IF NOT EXISTS idx_music_files_album ON MUSIC_FILES(album);
	`)
	if err != nil {
		return err
	}

	// Additive migrations: columns added by later schema versions. Errors are
	// ignored because ALTER TABLE ADD COLUMN fails once the column already
	// exists, which is the common case after the first run.
	migrations := []string{
		`ALTER TABLE MUSIC_FILES ADD COLUMN title TEXT`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN artist TEXT`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN album_artist TEXT`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN album TEXT`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN genre TEXT`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN track_number INTEGER`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN year INTEGER`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN duration_seconds INTEGER`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN bit_rate INTEGER`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN sample_rate INTEGER`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN file_type TEXT`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN file_size_bytes INTEGER`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN last_modified TIMESTAMP`,
		`ALTER TABLE MUSIC_FILES ADD COLUMN date_added TIMESTAMP`,
	}
	for _, m := range migrations {
		_, _ = db.Exec(m)
	}

	return nil
}
