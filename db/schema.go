// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS. The DDL is restricted
// to the dialect both SQLite and PostgreSQL accept; timestamps are always
// written by the application, never defaulted by the database.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Sessions
CREATE TABLE IF NOT EXISTS session (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    max_players INTEGER NOT NULL,
    vote_rule TEXT NOT NULL CHECK (vote_rule IN ('strict', 'average', 'median', 'absolute_majority', 'relative_majority')),
    current_story_id TEXT,
    status TEXT NOT NULL DEFAULT 'waiting' CHECK (status IN ('waiting', 'voting', 'revealed', 'coffee_break', 'finished')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_code ON session(code);

-- Players
CREATE TABLE IF NOT EXISTS player (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    is_scrum_master BOOLEAN NOT NULL DEFAULT FALSE,
    is_connected BOOLEAN NOT NULL DEFAULT TRUE,
    joined_at TIMESTAMP NOT NULL,
    UNIQUE (session_id, name)
);

CREATE INDEX IF NOT EXISTS idx_player_session_id ON player(session_id);

-- Stories
CREATE TABLE IF NOT EXISTS story (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    external_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    priority TEXT NOT NULL DEFAULT 'medium',
    estimation INTEGER,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'voting', 'estimated')),
    order_index INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_story_session_id ON story(session_id);
CREATE INDEX IF NOT EXISTS idx_story_session_status ON story(session_id, status);

-- Votes: the composite primary key is the upsert target, giving one row
-- per (session, story, player, round) under concurrent submissions.
CREATE TABLE IF NOT EXISTS vote (
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    story_id TEXT NOT NULL REFERENCES story(id) ON DELETE CASCADE,
    player_id TEXT NOT NULL REFERENCES player(id) ON DELETE CASCADE,
    vote_round INTEGER NOT NULL,
    value TEXT NOT NULL,
    voted_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, story_id, player_id, vote_round)
);

CREATE INDEX IF NOT EXISTS idx_vote_story ON vote(session_id, story_id, vote_round);

-- Session saves
CREATE TABLE IF NOT EXISTS session_save (
    id TEXT PRIMARY KEY,
    session_id TEXT NOT NULL REFERENCES session(id) ON DELETE CASCADE,
    payload TEXT NOT NULL,
    saved_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_session_save_session_id ON session_save(session_id);
`
