// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/danielhkuo/planning-poker/models"
)

// ReplaceBacklog deletes every existing story (and vote) of the session,
// then inserts the given items in order with status "pending" and
// sequential indexes from 0. This is a destructive replace, not a merge.
//
// The inserts are intentionally not wrapped in a transaction: a failure
// partway leaves a truncated backlog. Known limitation, kept as-is.
func ReplaceBacklog(db *sql.DB, sessionID string, items []models.BacklogItem) (int, error) {
	if _, err := db.Exec(`DELETE FROM vote WHERE session_id = $1`, sessionID); err != nil {
		return 0, fmt.Errorf("failed to clear votes for import: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM story WHERE session_id = $1`, sessionID); err != nil {
		return 0, fmt.Errorf("failed to clear backlog: %w", err)
	}

	for i, item := range items {
		desc := item.Description
		prio := item.Priority
		if prio == "" {
			prio = models.PriorityMedium
		}
		_, err := db.Exec(`
			INSERT INTO story (id, session_id, external_id, title, description, priority, status, order_index)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, uuid.NewString(), sessionID, item.ID, item.Title, desc, prio, models.StoryPending, i)
		if err != nil {
			return i, fmt.Errorf("failed to insert story %d: %w", i, err)
		}
	}

	return len(items), nil
}

// StoryByID returns the story, or nil when no such row exists.
func StoryByID(db *sql.DB, id string) (*models.Story, error) {
	return scanStory(db.QueryRow(`
		SELECT id, session_id, external_id, title, description, priority, estimation, status, order_index
		FROM story
		WHERE id = $1
	`, id))
}

// StoriesBySession returns all stories in backlog order.
func StoriesBySession(db *sql.DB, sessionID string) ([]models.Story, error) {
	rows, err := db.Query(`
		SELECT id, session_id, external_id, title, description, priority, estimation, status, order_index
		FROM story
		WHERE session_id = $1
		ORDER BY order_index ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query stories: %w", err)
	}
	defer rows.Close()

	stories := []models.Story{}
	for rows.Next() {
		var s models.Story
		if err := rows.Scan(&s.ID, &s.SessionID, &s.ExternalID, &s.Title, &s.Description, &s.Priority, &s.Estimation, &s.Status, &s.OrderIndex); err != nil {
			return nil, fmt.Errorf("failed to scan story: %w", err)
		}
		stories = append(stories, s)
	}
	return stories, rows.Err()
}

// FirstPendingStory returns the lowest-index pending story, or nil when
// the backlog holds none. A pure read; the engine owns pointer updates.
func FirstPendingStory(db *sql.DB, sessionID string) (*models.Story, error) {
	return scanStory(db.QueryRow(`
		SELECT id, session_id, external_id, title, description, priority, estimation, status, order_index
		FROM story
		WHERE session_id = $1 AND status = $2
		ORDER BY order_index ASC
		LIMIT 1
	`, sessionID, models.StoryPending))
}

// SetStoryStatus writes the story lifecycle status.
func SetStoryStatus(db *sql.DB, id, status string) error {
	_, err := db.Exec(`UPDATE story SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update story status: %w", err)
	}
	return nil
}

// SetStoryEstimation records the validated estimation. Status becomes
// "estimated" in the same statement; the two fields never move apart.
func SetStoryEstimation(db *sql.DB, id string, value int) error {
	_, err := db.Exec(`UPDATE story SET estimation = $1, status = $2 WHERE id = $3`, value, models.StoryEstimated, id)
	if err != nil {
		return fmt.Errorf("failed to update story estimation: %w", err)
	}
	return nil
}

// StoryStats returns the backlog progress counts for a session.
func StoryStats(db *sql.DB, sessionID string) (models.StoryStats, error) {
	var stats models.StoryStats
	err := db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'estimated' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'voting' THEN 1 ELSE 0 END), 0)
		FROM story
		WHERE session_id = $1
	`, sessionID).Scan(&stats.Total, &stats.Estimated, &stats.Pending, &stats.Voting)
	if err != nil {
		return models.StoryStats{}, fmt.Errorf("failed to compute story stats: %w", err)
	}
	return stats, nil
}

func scanStory(row *sql.Row) (*models.Story, error) {
	var s models.Story
	err := row.Scan(&s.ID, &s.SessionID, &s.ExternalID, &s.Title, &s.Description, &s.Priority, &s.Estimation, &s.Status, &s.OrderIndex)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan story: %w", err)
	}
	return &s, nil
}
