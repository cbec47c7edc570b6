// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/testutil"
)

func TestCreateSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg)

	tests := []struct {
		name           string
		request        models.CreateSessionRequest
		expectedStatus int
	}{
		{
			name: "valid session",
			request: models.CreateSessionRequest{
				Name:            "Sprint 12",
				MaxPlayers:      5,
				VoteRule:        "strict",
				FacilitatorName: "Alice",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "max players defaults when omitted",
			request: models.CreateSessionRequest{
				Name:            "Sprint 13",
				VoteRule:        "average",
				FacilitatorName: "Alice",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "missing name",
			request: models.CreateSessionRequest{
				VoteRule:        "strict",
				FacilitatorName: "Alice",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "missing facilitator",
			request: models.CreateSessionRequest{
				Name:     "Sprint 12",
				VoteRule: "strict",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "unknown vote rule",
			request: models.CreateSessionRequest{
				Name:            "Sprint 12",
				VoteRule:        "plurality",
				FacilitatorName: "Alice",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "max players below two",
			request: models.CreateSessionRequest{
				Name:            "Sprint 12",
				MaxPlayers:      1,
				VoteRule:        "strict",
				FacilitatorName: "Alice",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/sessions", tt.request, nil)
			w := httptest.NewRecorder()

			handler.Create(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusCreated {
				return
			}

			var resp models.CreateSessionResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.SessionID == "" || resp.PlayerID == "" {
				t.Errorf("Expected session and player ids, got %+v", resp)
			}
			if len(resp.Code) != 8 {
				t.Errorf("Expected 8-character join code, got %q", resp.Code)
			}

			// The facilitator lands on the roster as scrum master
			var isMaster bool
			err := db.QueryRow(`SELECT is_scrum_master FROM player WHERE id = $1`, resp.PlayerID).Scan(&isMaster)
			if err != nil {
				t.Fatalf("Failed to query facilitator: %v", err)
			}
			if !isMaster {
				t.Error("Expected facilitator to be scrum master")
			}
		})
	}
}

func TestJoinSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg)

	sessionID, code := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	testutil.CreateTestPlayer(t, db, sessionID, "Alice", true)

	t.Run("successful join", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{
			Code:       code,
			PlayerName: "Bob",
		}, nil)
		w := httptest.NewRecorder()

		handler.Join(w, req)
		testutil.AssertStatus(t, w, http.StatusCreated)

		var resp models.JoinSessionResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.SessionID != sessionID || resp.PlayerID == "" {
			t.Errorf("Unexpected response: %+v", resp)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{
			Code:       "ZZZZZZZZ",
			PlayerName: "Carol",
		}, nil)
		w := httptest.NewRecorder()

		handler.Join(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("duplicate name case-insensitive", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{
			Code:       code,
			PlayerName: "alice",
		}, nil)
		w := httptest.NewRecorder()

		handler.Join(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("missing fields", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{
			Code: code,
		}, nil)
		w := httptest.NewRecorder()

		handler.Join(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestJoinSessionFull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg)

	sessionID, code := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)

	// Fill the session to its limit of 10
	testutil.CreateTestPlayer(t, db, sessionID, "Master", true)
	for _, name := range []string{"P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8", "P9"} {
		testutil.CreateTestPlayer(t, db, sessionID, name, false)
	}

	req := testutil.MakeRequest("POST", "/sessions/join", models.JoinSessionRequest{
		Code:       code,
		PlayerName: "Overflow",
	}, nil)
	w := httptest.NewRecorder()

	handler.Join(w, req)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestLeaveSession(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	playerID := testutil.CreateTestPlayer(t, db, sessionID, "Alice", false)

	req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/leave", nil, map[string]string{
		"X-Player-ID": playerID,
	})
	req.SetPathValue("id", sessionID)
	w := httptest.NewRecorder()

	handler.Leave(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var connected bool
	if err := db.QueryRow(`SELECT is_connected FROM player WHERE id = $1`, playerID).Scan(&connected); err != nil {
		t.Fatalf("Failed to query player: %v", err)
	}
	if connected {
		t.Error("Expected player disconnected after leave")
	}
}

func TestStateRequiresMembership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	otherID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	outsider := testutil.CreateTestPlayer(t, db, otherID, "Eve", false)

	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
	}{
		{"no header", nil, http.StatusUnauthorized},
		{"unknown player", map[string]string{"X-Player-ID": "nonexistent"}, http.StatusUnauthorized},
		{"player from another session", map[string]string{"X-Player-ID": outsider}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/sessions/"+sessionID+"/state", nil, tt.headers)
			req.SetPathValue("id", sessionID)
			w := httptest.NewRecorder()

			handler.State(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestStateSnapshot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewSessionHandler(db, cfg)

	sessionID, _ := testutil.CreateTestSession(t, db, "median", models.StatusVoting)
	playerID := testutil.CreateTestPlayer(t, db, sessionID, "Alice", true)
	storyID := testutil.AddTestStory(t, db, sessionID, "Story", models.StoryVoting, 0)
	testutil.SetActiveStory(t, db, sessionID, storyID)
	testutil.SubmitTestVote(t, db, sessionID, storyID, playerID, "5")

	req := testutil.MakeRequest("GET", "/sessions/"+sessionID+"/state", nil, map[string]string{
		"X-Player-ID": playerID,
	})
	req.SetPathValue("id", sessionID)
	w := httptest.NewRecorder()

	handler.State(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var state models.SessionState
	testutil.AssertJSON(t, w, &state)

	if state.Session.ID != sessionID || state.Session.Status != models.StatusVoting {
		t.Errorf("Unexpected session summary: %+v", state.Session)
	}
	if state.Story == nil || state.Story.ID != storyID {
		t.Errorf("Expected active story, got %+v", state.Story)
	}
	if state.VoteInfo.VotesCount != 1 || !state.VoteInfo.HasVoted {
		t.Errorf("Unexpected vote info: %+v", state.VoteInfo)
	}
	if state.VoteInfo.Votes != nil {
		t.Error("Votes must stay hidden while the round is open")
	}
}
