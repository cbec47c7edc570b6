// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/planning-poker/auth"
	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full schema.
// The pool is pinned to a single connection: each connection to ":memory:"
// would otherwise see its own empty database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3413,
		DatabaseURL:  ":memory:",
		DatabaseType: cliparse.DatabaseSQLite,
	}
}

// CreateTestSession creates a session in the database and returns its ID
// and join code. rule should be one of the five vote rule names.
func CreateTestSession(t *testing.T, db *sql.DB, rule, status string) (sessionID, code string) {
	t.Helper()

	sessionID = uuid.NewString()
	code, err := auth.GenerateSessionCode()
	if err != nil {
		t.Fatalf("Failed to generate session code: %v", err)
	}

	_, err = db.Exec(`
		INSERT INTO session (id, code, name, max_players, vote_rule, status, created_at)
		VALUES ($1, $2, 'Test Session', 10, $3, $4, $5)
	`, sessionID, code, rule, status, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}

	return sessionID, code
}

// CreateTestPlayer adds a player to a session and returns the player ID
func CreateTestPlayer(t *testing.T, db *sql.DB, sessionID, name string, scrumMaster bool) string {
	t.Helper()

	playerID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO player (id, session_id, name, is_scrum_master, is_connected, joined_at)
		VALUES ($1, $2, $3, $4, TRUE, $5)
	`, playerID, sessionID, name, scrumMaster, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test player: %v", err)
	}

	return playerID
}

// AddTestStory adds a story to a session and returns the story ID
// status should be "pending", "voting", or "estimated"
func AddTestStory(t *testing.T, db *sql.DB, sessionID, title, status string, orderIndex int) string {
	t.Helper()

	storyID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO story (id, session_id, external_id, title, status, order_index)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, storyID, sessionID, "STORY-"+storyID[:8], title, status, orderIndex)
	if err != nil {
		t.Fatalf("Failed to create test story: %v", err)
	}

	return storyID
}

// SetActiveStory points a session at a story
func SetActiveStory(t *testing.T, db *sql.DB, sessionID, storyID string) {
	t.Helper()

	_, err := db.Exec(`UPDATE session SET current_story_id = $1 WHERE id = $2`, storyID, sessionID)
	if err != nil {
		t.Fatalf("Failed to set active story: %v", err)
	}
}

// SubmitTestVote records a vote for a player on a story
func SubmitTestVote(t *testing.T, db *sql.DB, sessionID, storyID, playerID, value string) {
	t.Helper()

	_, err := db.Exec(`
		INSERT INTO vote (session_id, story_id, player_id, vote_round, value, voted_at)
		VALUES ($1, $2, $3, 1, $4, $5)
	`, sessionID, storyID, playerID, value, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
