package store

import (
	"database/sql"
	"time"
)

// ClearHint records that an education hint has been dismissed. Clearing an
// already-cleared hint keeps the original timestamp.
func (db *DB) ClearHint(key string) error {
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO hints (key, cleared_at) VALUES (?, ?)
		ON CONFLICT(key) DO NOTHING`, key, now)
	return err
}

// HintCleared reports whether an education hint has been dismissed.
func (db *DB) HintCleared(key string) (bool, error) {
	var clearedAt int64
	err := db.QueryRow(`SELECT cleared_at FROM hints WHERE key = ?`, key).Scan(&clearedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
