package state

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS prefs (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			workflow TEXT NOT NULL DEFAULT 'bw',
			method TEXT,
			result_type TEXT,
			last_dir TEXT,
			sidebar_hidden INTEGER NOT NULL DEFAULT 0
		);

		CREATE TABLE IF NOT EXISTS save_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			workflow TEXT NOT NULL,
			source TEXT NOT NULL,
			method TEXT,
			result_type TEXT,
			result_path TEXT NOT NULL,
			mask_path TEXT,
			saved_at INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_save_history_saved_at ON save_history(saved_at DESC);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	return err
}
