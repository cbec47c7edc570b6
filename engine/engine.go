// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"database/sql"

	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/rules"
	"github.com/danielhkuo/planning-poker/store"
)

// voteRound is the single active round per story. Revote clears the
// round's votes instead of advancing it; the vote table carries the round
// column so multi-round history stays possible without a schema change.
const voteRound = 1

// RevealResult is what a reveal returns: the story, the raw votes, and the
// computed (or unanimous-break) result. All fields are empty when the
// session has no current story.
type RevealResult struct {
	Story  *models.Story `json:"story"`
	Votes  []models.Vote `json:"votes"`
	Result *rules.Result `json:"result"`
}

// SubmitVote records a participant's vote for the current story. Any
// roster member may vote, the scrum master included. The story is promoted
// from "pending" to "voting" on the first vote.
func SubmitVote(db *sql.DB, sessionID, playerID, value string) error {
	session, err := sessionByID(db, sessionID)
	if err != nil {
		return err
	}

	// Precondition first: a blocked round must not mutate anything,
	// ensureActiveStory included.
	if session.Status == models.StatusCoffeeBreak {
		return ErrCoffeeBreak
	}

	story, err := ensureActiveStory(db, session)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrNoActiveStory
	}

	if story.Status == models.StoryPending {
		if err := store.SetStoryStatus(db, story.ID, models.StoryVoting); err != nil {
			return err
		}
	}

	return store.UpsertVote(db, sessionID, story.ID, playerID, voteRound, value)
}

// StartVoting makes a specific story the session's active story and puts
// both session and story into "voting".
func StartVoting(db *sql.DB, sessionID, storyID string) error {
	if _, err := sessionByID(db, sessionID); err != nil {
		return err
	}
	story, err := storyInSession(db, sessionID, storyID)
	if err != nil {
		return err
	}

	if err := store.SetActiveStory(db, sessionID, &story.ID); err != nil {
		return err
	}
	if err := store.SetSessionStatus(db, sessionID, models.StatusVoting); err != nil {
		return err
	}
	return store.SetStoryStatus(db, story.ID, models.StoryVoting)
}

// Reveal exposes the current round's votes and computes the consensus
// result. The session moves to "revealed" whether or not the result is
// valid. Votes are never cleared and no estimation is written here; those
// are separate, explicit operations.
//
// When every submitted vote is the coffee sentinel, the rule engine is
// skipped and a unanimous-break result is returned instead.
func Reveal(db *sql.DB, sessionID string) (RevealResult, error) {
	session, err := sessionByID(db, sessionID)
	if err != nil {
		return RevealResult{}, err
	}
	if session.Status == models.StatusCoffeeBreak {
		return RevealResult{}, ErrCoffeeBreak
	}

	story, err := ensureActiveStory(db, session)
	if err != nil {
		return RevealResult{}, err
	}
	if story == nil {
		return RevealResult{Votes: []models.Vote{}}, nil
	}

	votes, err := store.VotesFor(db, sessionID, story.ID, voteRound)
	if err != nil {
		return RevealResult{}, err
	}
	values := voteValues(votes)

	var result rules.Result
	if allCoffee(values) {
		result = rules.Result{Valid: true, CoffeeBreak: true, Reason: rules.ReasonCoffeeBreak}
	} else {
		result = rules.ComputeResult(values, session.VoteRule)
	}

	if err := store.SetSessionStatus(db, sessionID, models.StatusRevealed); err != nil {
		return RevealResult{}, err
	}

	return RevealResult{Story: story, Votes: votes, Result: &result}, nil
}

// Revote discards the current round's votes and reopens voting on the same
// story. Calling it twice in a row is harmless.
func Revote(db *sql.DB, sessionID string) error {
	session, err := sessionByID(db, sessionID)
	if err != nil {
		return err
	}
	story, err := ensureActiveStory(db, session)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrNoActiveStory
	}
	return restartRound(db, sessionID, story.ID)
}

// ValidateEstimation records the story's final estimation, clears its
// votes, and advances the backlog: the next pending story (lowest index)
// becomes active in "voting", or the session finishes when none remains.
// This is the only path that advances the backlog.
func ValidateEstimation(db *sql.DB, sessionID, storyID string, estimation int) (hasNext bool, err error) {
	if _, err := sessionByID(db, sessionID); err != nil {
		return false, err
	}
	story, err := storyInSession(db, sessionID, storyID)
	if err != nil {
		return false, err
	}

	if err := store.SetStoryEstimation(db, story.ID, estimation); err != nil {
		return false, err
	}
	if err := store.ClearVotes(db, sessionID, story.ID, voteRound); err != nil {
		return false, err
	}

	next, err := store.FirstPendingStory(db, sessionID)
	if err != nil {
		return false, err
	}

	if next == nil {
		if err := store.SetActiveStory(db, sessionID, nil); err != nil {
			return false, err
		}
		return false, store.SetSessionStatus(db, sessionID, models.StatusFinished)
	}

	if err := store.SetStoryStatus(db, next.ID, models.StoryVoting); err != nil {
		return false, err
	}
	if err := store.SetActiveStory(db, sessionID, &next.ID); err != nil {
		return false, err
	}
	return true, store.SetSessionStatus(db, sessionID, models.StatusVoting)
}

// EnterCoffeeBreak pauses the session. Existing votes are kept so the
// facilitator can still see who asked for the break, and the active story
// is left untouched; the break is layered on top of the unfinished round.
func EnterCoffeeBreak(db *sql.DB, sessionID, storyID string) error {
	if _, err := sessionByID(db, sessionID); err != nil {
		return err
	}
	if _, err := storyInSession(db, sessionID, storyID); err != nil {
		return err
	}
	return store.SetSessionStatus(db, sessionID, models.StatusCoffeeBreak)
}

// ResumeFromCoffeeBreak exits the break and restarts the round on the same
// story: votes cleared, story and session back to "voting".
func ResumeFromCoffeeBreak(db *sql.DB, sessionID string) error {
	session, err := sessionByID(db, sessionID)
	if err != nil {
		return err
	}
	story, err := ensureActiveStory(db, session)
	if err != nil {
		return err
	}
	if story == nil {
		return ErrNoActiveStory
	}
	return restartRound(db, sessionID, story.ID)
}

// Snapshot assembles the read-only state a polling client renders. The
// vote result is recomputed from the live ledger on every call, so it is
// always consistent with the votes it accompanies.
func Snapshot(db *sql.DB, sessionID, playerID string) (models.SessionState, error) {
	session, err := sessionByID(db, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}

	players, err := store.PlayersBySession(db, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}
	stats, err := store.StoryStats(db, sessionID)
	if err != nil {
		return models.SessionState{}, err
	}

	state := models.SessionState{
		Session: models.SessionSummary{
			ID:         session.ID,
			Name:       session.Name,
			Code:       session.Code,
			Status:     session.Status,
			VoteRule:   session.VoteRule,
			MaxPlayers: session.MaxPlayers,
		},
		Players: players,
		Stats:   stats,
	}

	story, err := ensureActiveStory(db, session)
	if err != nil {
		return models.SessionState{}, err
	}
	if story == nil {
		return state, nil
	}

	state.Story = &models.StorySummary{
		ID:          story.ID,
		ExternalID:  story.ExternalID,
		Title:       story.Title,
		Description: story.Description,
		Priority:    story.Priority,
		Status:      story.Status,
	}

	votes, err := store.VotesFor(db, sessionID, story.ID, voteRound)
	if err != nil {
		return models.SessionState{}, err
	}
	hasVoted, err := store.HasVoted(db, sessionID, story.ID, playerID, voteRound)
	if err != nil {
		return models.SessionState{}, err
	}

	state.VoteInfo = models.VoteInfo{
		StoryID:    story.ID,
		VotesCount: len(votes),
		HasVoted:   hasVoted,
	}

	revealed := session.Status == models.StatusRevealed || session.Status == models.StatusCoffeeBreak
	if revealed {
		state.VoteInfo.Votes = votes
		if len(votes) > 0 {
			values := voteValues(votes)
			var result rules.Result
			if allCoffee(values) {
				result = rules.Result{Valid: true, CoffeeBreak: true, Reason: rules.ReasonCoffeeBreak}
			} else {
				result = rules.ComputeResult(values, session.VoteRule)
			}
			state.VoteResult = &result
		}
	}

	return state, nil
}

// ensureActiveStory resolves "the story currently being voted on":
// the session's pointer when it still refers to an unestimated story,
// otherwise the first pending story, which becomes the new pointer.
// Concurrent callers racing here pick the same story, so the write is
// idempotent. Returns nil when the backlog holds nothing to vote on.
func ensureActiveStory(db *sql.DB, session *models.Session) (*models.Story, error) {
	if session.CurrentStoryID != nil {
		story, err := store.StoryByID(db, *session.CurrentStoryID)
		if err != nil {
			return nil, err
		}
		if story != nil && (story.Status == models.StoryPending || story.Status == models.StoryVoting) {
			return story, nil
		}
	}

	story, err := store.FirstPendingStory(db, session.ID)
	if err != nil || story == nil {
		return nil, err
	}
	if err := store.SetActiveStory(db, session.ID, &story.ID); err != nil {
		return nil, err
	}
	session.CurrentStoryID = &story.ID
	return story, nil
}

// restartRound is the shared tail of revote and coffee-break resume.
func restartRound(db *sql.DB, sessionID, storyID string) error {
	if err := store.ClearVotes(db, sessionID, storyID, voteRound); err != nil {
		return err
	}
	if err := store.SetStoryStatus(db, storyID, models.StoryVoting); err != nil {
		return err
	}
	return store.SetSessionStatus(db, sessionID, models.StatusVoting)
}

func sessionByID(db *sql.DB, id string) (*models.Session, error) {
	session, err := store.SessionByID(db, id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func storyInSession(db *sql.DB, sessionID, storyID string) (*models.Story, error) {
	story, err := store.StoryByID(db, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil || story.SessionID != sessionID {
		return nil, ErrStoryNotFound
	}
	return story, nil
}

func voteValues(votes []models.Vote) []string {
	values := make([]string, len(votes))
	for i, v := range votes {
		values[i] = v.Value
	}
	return values
}

// allCoffee reports a unanimous break request: at least one vote, and
// every raw value is the coffee sentinel.
func allCoffee(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if v != rules.ValueCoffee {
			return false
		}
	}
	return true
}
