// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/planning-poker/models"
)

// UpsertVote records a vote, overwriting any earlier vote by the same
// player for the same story and round. Atomicity comes from the composite
// primary key: two concurrent submissions from the same player collapse
// into one row, and different players never clobber each other.
func UpsertVote(db *sql.DB, sessionID, storyID, playerID string, round int, value string) error {
	_, err := db.Exec(`
		INSERT INTO vote (session_id, story_id, player_id, vote_round, value, voted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id, story_id, player_id, vote_round)
		DO UPDATE SET value = excluded.value, voted_at = excluded.voted_at
	`, sessionID, storyID, playerID, round, value, time.Now())
	if err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

// VotesFor returns the round's votes joined with voter details, scrum
// master first, then alphabetically. The ordering is presentation only.
func VotesFor(db *sql.DB, sessionID, storyID string, round int) ([]models.Vote, error) {
	rows, err := db.Query(`
		SELECT v.player_id, p.name, p.is_scrum_master, v.value, v.voted_at
		FROM vote v
		JOIN player p ON p.id = v.player_id
		WHERE v.session_id = $1 AND v.story_id = $2 AND v.vote_round = $3
		ORDER BY p.is_scrum_master DESC, p.name ASC
	`, sessionID, storyID, round)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.PlayerID, &v.PlayerName, &v.IsScrumMaster, &v.Value, &v.VotedAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// CountVotes returns how many players have voted in the round.
func CountVotes(db *sql.DB, sessionID, storyID string, round int) (int, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM vote
		WHERE session_id = $1 AND story_id = $2 AND vote_round = $3
	`, sessionID, storyID, round).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return count, nil
}

// HasVoted reports whether the player has a vote in the round.
func HasVoted(db *sql.DB, sessionID, storyID, playerID string, round int) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM vote
		WHERE session_id = $1 AND story_id = $2 AND player_id = $3 AND vote_round = $4
	`, sessionID, storyID, playerID, round).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return count > 0, nil
}

// ClearVotes deletes every vote of the round. Used on revote, on
// estimation validation, and on coffee-break resume. Clearing an empty
// round is a no-op, not an error.
func ClearVotes(db *sql.DB, sessionID, storyID string, round int) error {
	_, err := db.Exec(`
		DELETE FROM vote
		WHERE session_id = $1 AND story_id = $2 AND vote_round = $3
	`, sessionID, storyID, round)
	if err != nil {
		return fmt.Errorf("failed to clear votes: %w", err)
	}
	return nil
}
