// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/planning-poker/auth"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/rules"
)

// CreateSession inserts a new session in "waiting" status with no active
// story, generating its row identity and join code.
func CreateSession(db *sql.DB, name string, maxPlayers int, rule rules.Rule) (*models.Session, error) {
	id := uuid.NewString()
	code, err := auth.GenerateSessionCode()
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		INSERT INTO session (id, code, name, max_players, vote_rule, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, code, name, maxPlayers, string(rule), models.StatusWaiting, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	return SessionByID(db, id)
}

// SessionByID returns the session, or nil when no such row exists.
func SessionByID(db *sql.DB, id string) (*models.Session, error) {
	return scanSession(db.QueryRow(`
		SELECT id, code, name, max_players, vote_rule, current_story_id, status, created_at
		FROM session
		WHERE id = $1
	`, id))
}

// SessionByCode looks a session up by its join code, case-insensitively.
// Returns nil when no such row exists.
func SessionByCode(db *sql.DB, code string) (*models.Session, error) {
	return scanSession(db.QueryRow(`
		SELECT id, code, name, max_players, vote_rule, current_story_id, status, created_at
		FROM session
		WHERE code = $1
	`, auth.NormalizeSessionCode(code)))
}

// SetSessionStatus writes the session lifecycle status. The store performs
// no transition validation; that is the engine's job.
func SetSessionStatus(db *sql.DB, id, status string) error {
	_, err := db.Exec(`UPDATE session SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update session status: %w", err)
	}
	return nil
}

// SetActiveStory points the session at a story, or clears the pointer when
// storyID is nil.
func SetActiveStory(db *sql.DB, id string, storyID *string) error {
	_, err := db.Exec(`UPDATE session SET current_story_id = $1 WHERE id = $2`, storyID, id)
	if err != nil {
		return fmt.Errorf("failed to update active story: %w", err)
	}
	return nil
}

func scanSession(row *sql.Row) (*models.Session, error) {
	var s models.Session
	var rule string
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.MaxPlayers, &rule, &s.CurrentStoryID, &s.Status, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan session: %w", err)
	}
	s.VoteRule = rules.Rule(rule)
	return &s, nil
}
