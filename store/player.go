// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/planning-poker/models"
)

// CreatePlayer adds a player to a session's roster, connected by default.
// The (session_id, name) unique constraint surfaces duplicate names as an
// insert error; callers check availability first for a friendlier message.
func CreatePlayer(db *sql.DB, sessionID, name string, scrumMaster bool) (*models.Player, error) {
	p := models.Player{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Name:          name,
		IsScrumMaster: scrumMaster,
		IsConnected:   true,
		JoinedAt:      time.Now(),
	}

	_, err := db.Exec(`
		INSERT INTO player (id, session_id, name, is_scrum_master, is_connected, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.SessionID, p.Name, p.IsScrumMaster, p.IsConnected, p.JoinedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert player: %w", err)
	}

	return &p, nil
}

// PlayerByID returns the player, or nil when no such row exists.
func PlayerByID(db *sql.DB, id string) (*models.Player, error) {
	var p models.Player
	err := db.QueryRow(`
		SELECT id, session_id, name, is_scrum_master, is_connected, joined_at
		FROM player
		WHERE id = $1
	`, id).Scan(&p.ID, &p.SessionID, &p.Name, &p.IsScrumMaster, &p.IsConnected, &p.JoinedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan player: %w", err)
	}
	return &p, nil
}

// PlayersBySession returns the roster, scrum master first, then by name.
func PlayersBySession(db *sql.DB, sessionID string) ([]models.Player, error) {
	rows, err := db.Query(`
		SELECT id, session_id, name, is_scrum_master, is_connected, joined_at
		FROM player
		WHERE session_id = $1
		ORDER BY is_scrum_master DESC, name ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players: %w", err)
	}
	defer rows.Close()

	players := []models.Player{}
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.SessionID, &p.Name, &p.IsScrumMaster, &p.IsConnected, &p.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CountPlayers returns the roster size, connected or not.
func CountPlayers(db *sql.DB, sessionID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM player WHERE session_id = $1`, sessionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count players: %w", err)
	}
	return count, nil
}

// SetPlayerConnected flips the connectivity flag.
func SetPlayerConnected(db *sql.DB, id string, connected bool) error {
	_, err := db.Exec(`UPDATE player SET is_connected = $1 WHERE id = $2`, connected, id)
	if err != nil {
		return fmt.Errorf("failed to update player connectivity: %w", err)
	}
	return nil
}
