// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertSessionSave archives a serialized session snapshot and returns the
// save's identity.
func InsertSessionSave(db *sql.DB, sessionID string, payload []byte) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO session_save (id, session_id, payload, saved_at)
		VALUES ($1, $2, $3, $4)
	`, id, sessionID, string(payload), time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to insert session save: %w", err)
	}
	return id, nil
}
