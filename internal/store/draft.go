package store

import (
	"database/sql"
	"time"
)

// SaveDraft stores unsent composer text for a chat. An empty body removes
// the draft instead of storing a blank row.
func (db *DB) SaveDraft(chatID, body string) error {
	if body == "" {
		return db.DeleteDraft(chatID)
	}
	now := time.Now().UnixMilli()
	_, err := db.Exec(`
		INSERT INTO drafts (chat_id, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at`,
		chatID, body, now)
	return err
}

// GetDraft returns the draft for a chat, or nil if none exists.
func (db *DB) GetDraft(chatID string) (*Draft, error) {
	var d Draft
	err := db.QueryRow(`SELECT chat_id, body, updated_at FROM drafts WHERE chat_id = ?`, chatID).
		Scan(&d.ChatID, &d.Body, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// DeleteDraft removes the draft for a chat. Missing drafts are not an error.
func (db *DB) DeleteDraft(chatID string) error {
	_, err := db.Exec(`DELETE FROM drafts WHERE chat_id = ?`, chatID)
	return err
}
