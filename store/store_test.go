// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"strings"
	"testing"

	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/rules"
	"github.com/danielhkuo/planning-poker/testutil"
)

func TestCreateAndLookupSession(t *testing.T) {
	db := testutil.SetupTestDB(t)

	session, err := CreateSession(db, "Sprint 12", 8, rules.RuleMedian)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if session.Name != "Sprint 12" || session.MaxPlayers != 8 {
		t.Errorf("Unexpected session: %+v", session)
	}
	if session.Status != models.StatusWaiting {
		t.Errorf("Expected waiting status, got %s", session.Status)
	}
	if session.VoteRule != rules.RuleMedian {
		t.Errorf("Expected median rule, got %s", session.VoteRule)
	}
	if session.CurrentStoryID != nil {
		t.Error("New session should have no active story")
	}
	if len(session.Code) != 8 {
		t.Errorf("Expected 8-character join code, got %q", session.Code)
	}

	// Code lookup is case-insensitive
	found, err := SessionByCode(db, strings.ToLower(session.Code))
	if err != nil {
		t.Fatalf("SessionByCode failed: %v", err)
	}
	if found == nil || found.ID != session.ID {
		t.Errorf("Expected session %s, got %+v", session.ID, found)
	}

	// Missing rows come back as nil, nil
	missing, err := SessionByID(db, "nonexistent")
	if err != nil {
		t.Fatalf("SessionByID failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for missing session, got %+v", missing)
	}
}

func TestSetActiveStory(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	storyID := testutil.AddTestStory(t, db, sessionID, "Story", models.StoryPending, 0)

	if err := SetActiveStory(db, sessionID, &storyID); err != nil {
		t.Fatalf("SetActiveStory failed: %v", err)
	}
	session, _ := SessionByID(db, sessionID)
	if session.CurrentStoryID == nil || *session.CurrentStoryID != storyID {
		t.Errorf("Expected active story %s, got %v", storyID, session.CurrentStoryID)
	}

	if err := SetActiveStory(db, sessionID, nil); err != nil {
		t.Fatalf("SetActiveStory(nil) failed: %v", err)
	}
	session, _ = SessionByID(db, sessionID)
	if session.CurrentStoryID != nil {
		t.Error("Expected active story cleared")
	}
}

func TestPlayerRoster(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)

	master, err := CreatePlayer(db, sessionID, "Zoe", true)
	if err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}
	if _, err := CreatePlayer(db, sessionID, "Alice", false); err != nil {
		t.Fatalf("CreatePlayer failed: %v", err)
	}

	// Duplicate names within a session are rejected by the schema
	if _, err := CreatePlayer(db, sessionID, "Alice", false); err == nil {
		t.Error("Expected duplicate player name to fail")
	}

	players, err := PlayersBySession(db, sessionID)
	if err != nil {
		t.Fatalf("PlayersBySession failed: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("Expected 2 players, got %d", len(players))
	}
	// Scrum master sorts first despite the name ordering
	if players[0].ID != master.ID {
		t.Errorf("Expected scrum master first, got %s", players[0].Name)
	}

	count, err := CountPlayers(db, sessionID)
	if err != nil {
		t.Fatalf("CountPlayers failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}

	if err := SetPlayerConnected(db, master.ID, false); err != nil {
		t.Fatalf("SetPlayerConnected failed: %v", err)
	}
	updated, _ := PlayerByID(db, master.ID)
	if updated.IsConnected {
		t.Error("Expected player disconnected")
	}

	// Disconnected players still count against the session limit
	count, _ = CountPlayers(db, sessionID)
	if count != 2 {
		t.Errorf("Expected count 2 after disconnect, got %d", count)
	}
}

func TestReplaceBacklog(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	playerID := testutil.CreateTestPlayer(t, db, sessionID, "Alice", true)

	first := []models.BacklogItem{
		{ID: "PROJ-1", Title: "Login page", Priority: models.PriorityHigh},
		{ID: "PROJ-2", Title: "Logout button"},
	}
	n, err := ReplaceBacklog(db, sessionID, first)
	if err != nil {
		t.Fatalf("ReplaceBacklog failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Expected 2 imported, got %d", n)
	}

	stories, err := StoriesBySession(db, sessionID)
	if err != nil {
		t.Fatalf("StoriesBySession failed: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("Expected 2 stories, got %d", len(stories))
	}
	if stories[0].ExternalID != "PROJ-1" || stories[0].OrderIndex != 0 {
		t.Errorf("Unexpected first story: %+v", stories[0])
	}
	if stories[0].Status != models.StoryPending {
		t.Errorf("Imported stories start pending, got %s", stories[0].Status)
	}
	// Omitted priority defaults to medium
	if stories[1].Priority != models.PriorityMedium {
		t.Errorf("Expected medium priority, got %s", stories[1].Priority)
	}

	// A vote on the old backlog does not survive a re-import
	if err := UpsertVote(db, sessionID, stories[0].ID, playerID, 1, "5"); err != nil {
		t.Fatalf("UpsertVote failed: %v", err)
	}

	second := []models.BacklogItem{{ID: "PROJ-9", Title: "Rewrite"}}
	if _, err := ReplaceBacklog(db, sessionID, second); err != nil {
		t.Fatalf("ReplaceBacklog failed: %v", err)
	}

	stories, _ = StoriesBySession(db, sessionID)
	if len(stories) != 1 || stories[0].ExternalID != "PROJ-9" {
		t.Errorf("Expected replaced backlog, got %+v", stories)
	}

	var voteCount int
	if err := db.QueryRow(`SELECT COUNT(*) FROM vote WHERE session_id = $1`, sessionID).Scan(&voteCount); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if voteCount != 0 {
		t.Errorf("Expected old votes purged, got %d", voteCount)
	}
}

func TestFirstPendingStory(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)

	story, err := FirstPendingStory(db, sessionID)
	if err != nil {
		t.Fatalf("FirstPendingStory failed: %v", err)
	}
	if story != nil {
		t.Errorf("Expected nil on empty backlog, got %+v", story)
	}

	testutil.AddTestStory(t, db, sessionID, "Done", models.StoryEstimated, 0)
	want := testutil.AddTestStory(t, db, sessionID, "Next up", models.StoryPending, 1)
	testutil.AddTestStory(t, db, sessionID, "Later", models.StoryPending, 2)

	story, err = FirstPendingStory(db, sessionID)
	if err != nil {
		t.Fatalf("FirstPendingStory failed: %v", err)
	}
	if story == nil || story.ID != want {
		t.Errorf("Expected story %s, got %+v", want, story)
	}
}

func TestSetStoryEstimation(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusWaiting)
	storyID := testutil.AddTestStory(t, db, sessionID, "Story", models.StoryVoting, 0)

	if err := SetStoryEstimation(db, storyID, 13); err != nil {
		t.Fatalf("SetStoryEstimation failed: %v", err)
	}

	story, _ := StoryByID(db, storyID)
	if story.Estimation == nil || *story.Estimation != 13 {
		t.Errorf("Expected estimation 13, got %v", story.Estimation)
	}
	if story.Status != models.StoryEstimated {
		t.Errorf("Expected estimated status, got %s", story.Status)
	}
}

func TestVoteLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusVoting)
	master := testutil.CreateTestPlayer(t, db, sessionID, "Zoe", true)
	alice := testutil.CreateTestPlayer(t, db, sessionID, "Alice", false)
	storyID := testutil.AddTestStory(t, db, sessionID, "Story", models.StoryVoting, 0)

	if err := UpsertVote(db, sessionID, storyID, alice, 1, "5"); err != nil {
		t.Fatalf("UpsertVote failed: %v", err)
	}
	if err := UpsertVote(db, sessionID, storyID, master, 1, "8"); err != nil {
		t.Fatalf("UpsertVote failed: %v", err)
	}

	// Upsert replaces, never duplicates
	if err := UpsertVote(db, sessionID, storyID, alice, 1, "13"); err != nil {
		t.Fatalf("UpsertVote failed: %v", err)
	}

	votes, err := VotesFor(db, sessionID, storyID, 1)
	if err != nil {
		t.Fatalf("VotesFor failed: %v", err)
	}
	if len(votes) != 2 {
		t.Fatalf("Expected 2 votes, got %d", len(votes))
	}
	// Scrum master first
	if votes[0].PlayerID != master || votes[0].Value != "8" {
		t.Errorf("Unexpected first vote: %+v", votes[0])
	}
	if votes[1].PlayerID != alice || votes[1].Value != "13" {
		t.Errorf("Unexpected second vote: %+v", votes[1])
	}

	count, err := CountVotes(db, sessionID, storyID, 1)
	if err != nil {
		t.Fatalf("CountVotes failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected count 2, got %d", count)
	}

	voted, err := HasVoted(db, sessionID, storyID, alice, 1)
	if err != nil {
		t.Fatalf("HasVoted failed: %v", err)
	}
	if !voted {
		t.Error("Expected Alice to have voted")
	}

	if err := ClearVotes(db, sessionID, storyID, 1); err != nil {
		t.Fatalf("ClearVotes failed: %v", err)
	}
	count, _ = CountVotes(db, sessionID, storyID, 1)
	if count != 0 {
		t.Errorf("Expected 0 votes after clear, got %d", count)
	}

	// Clearing again is a no-op
	if err := ClearVotes(db, sessionID, storyID, 1); err != nil {
		t.Fatalf("ClearVotes on empty round failed: %v", err)
	}
}

func TestInsertSessionSave(t *testing.T) {
	db := testutil.SetupTestDB(t)

	sessionID, _ := testutil.CreateTestSession(t, db, "strict", models.StatusVoting)

	id, err := InsertSessionSave(db, sessionID, []byte(`{"stories":[]}`))
	if err != nil {
		t.Fatalf("InsertSessionSave failed: %v", err)
	}
	if id == "" {
		t.Fatal("Expected a save id")
	}

	var payload string
	if err := db.QueryRow(`SELECT payload FROM session_save WHERE id = $1`, id).Scan(&payload); err != nil {
		t.Fatalf("Failed to read save: %v", err)
	}
	if payload != `{"stories":[]}` {
		t.Errorf("Unexpected payload: %s", payload)
	}
}
