// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"time"

	"github.com/danielhkuo/planning-poker/rules"
)

// Session status constants
const (
	StatusWaiting     = "waiting"
	StatusVoting      = "voting"
	StatusRevealed    = "revealed"
	StatusCoffeeBreak = "coffee_break"
	StatusFinished    = "finished"
)

// Story status constants
const (
	StoryPending   = "pending"
	StoryVoting    = "voting"
	StoryEstimated = "estimated"
)

// Story priority tags
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Request types

type CreateSessionRequest struct {
	Name            string `json:"name"`
	MaxPlayers      int    `json:"max_players"`
	VoteRule        string `json:"vote_rule"`
	FacilitatorName string `json:"facilitator_name"`
}

type JoinSessionRequest struct {
	Code       string `json:"code"`
	PlayerName string `json:"player_name"`
}

type SubmitVoteRequest struct {
	Value string `json:"value"`
}

type ValidateEstimationRequest struct {
	Estimation int `json:"estimation"`
}

type ImportBacklogRequest struct {
	Stories []BacklogItem `json:"stories"`
}

// BacklogItem is one story in an imported backlog. ID is the external
// business identifier (e.g. "US-001"), not a row identity.
type BacklogItem struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	Code      string `json:"code"`
	PlayerID  string `json:"player_id"`
}

type JoinSessionResponse struct {
	SessionID string `json:"session_id"`
	PlayerID  string `json:"player_id"`
}

type SubmitVoteResponse struct {
	Message string `json:"message"`
}

type ValidateEstimationResponse struct {
	Message string `json:"message"`
	HasNext bool   `json:"has_next"`
}

type CoffeeBreakResponse struct {
	Message           string `json:"message"`
	CoffeeBreakActive bool   `json:"coffee_break_active"`
}

type ResumeResponse struct {
	Message   string `json:"message"`
	SameStory bool   `json:"same_story"`
}

type ImportBacklogResponse struct {
	Imported int `json:"imported"`
}

// BacklogExport is the downloadable backlog document. Its stories use the
// same shape the import accepts, so an export can be re-imported.
type BacklogExport struct {
	SessionID   string          `json:"session_id"`
	SessionName string          `json:"session_name"`
	SessionCode string          `json:"session_code"`
	VoteRule    rules.Rule      `json:"vote_rule"`
	ExportedAt  time.Time       `json:"exported_at"`
	Stories     []ExportedStory `json:"stories"`
}

type ExportedStory struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Estimation  *int   `json:"estimation"`
	Status      string `json:"status"`
	OrderIndex  int    `json:"order_index,omitempty"`
}

// SessionSave is a full point-in-time archive of a session, stored in the
// session_save table and returned to the facilitator.
type SessionSave struct {
	Session SessionSummary  `json:"session"`
	Stories []ExportedStory `json:"stories"`
	SavedAt time.Time       `json:"saved_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Session struct {
	ID             string     `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	MaxPlayers     int        `json:"max_players"`
	VoteRule       rules.Rule `json:"vote_rule"`
	CurrentStoryID *string    `json:"current_story_id,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
}

type Player struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"session_id"`
	Name          string    `json:"name"`
	IsScrumMaster bool      `json:"is_scrum_master"`
	IsConnected   bool      `json:"is_connected"`
	JoinedAt      time.Time `json:"joined_at"`
}

type Story struct {
	ID          string `json:"id"`
	SessionID   string `json:"session_id"`
	ExternalID  string `json:"external_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Estimation  *int   `json:"estimation"`
	Status      string `json:"status"`
	OrderIndex  int    `json:"order_index"`
}

// Vote is one submitted vote joined with its voter's roster entry.
type Vote struct {
	PlayerID      string    `json:"player_id"`
	PlayerName    string    `json:"player_name"`
	IsScrumMaster bool      `json:"is_scrum_master"`
	Value         string    `json:"value"`
	VotedAt       time.Time `json:"voted_at"`
}

// StoryStats is the backlog progress breakdown for a session.
type StoryStats struct {
	Total     int `json:"total"`
	Estimated int `json:"estimated"`
	Pending   int `json:"pending"`
	Voting    int `json:"voting"`
}

// Snapshot types

type SessionSummary struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Code       string     `json:"code"`
	Status     string     `json:"status"`
	VoteRule   rules.Rule `json:"vote_rule"`
	MaxPlayers int        `json:"max_players"`
}

type StorySummary struct {
	ID          string `json:"id"`
	ExternalID  string `json:"external_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
}

// VoteInfo describes the current round from one player's point of view.
// The raw vote list is only populated once the round is revealed or the
// session is on a coffee break.
type VoteInfo struct {
	StoryID    string `json:"story_id,omitempty"`
	VotesCount int    `json:"votes_count"`
	HasVoted   bool   `json:"has_voted"`
	Votes      []Vote `json:"votes,omitempty"`
}

// SessionState is the polling snapshot returned by GET /sessions/{id}/state.
type SessionState struct {
	Session    SessionSummary `json:"session"`
	Story      *StorySummary  `json:"story"`
	Players    []Player       `json:"players"`
	VoteInfo   VoteInfo       `json:"vote_info"`
	VoteResult *rules.Result  `json:"vote_result"`
	Stats      StoryStats     `json:"stats"`
}
