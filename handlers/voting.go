// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/engine"
	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/rules"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// Submit handles POST /sessions/{id}/votes. Any roster member may vote,
// the scrum master included.
func (h *VotingHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	player := requirePlayer(h.db, w, r, sessionID)
	if player == nil {
		return
	}

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if !rules.ValidValue(req.Value) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid vote value: "+req.Value)
		return
	}

	if err := engine.SubmitVote(h.db, sessionID, player.ID, req.Value); err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitVoteResponse{
		Message: "Vote recorded",
	})
}

// Reveal handles POST /sessions/{id}/reveal [scrum master only]
func (h *VotingHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	result, err := engine.Reveal(h.db, sessionID)
	if err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, result)
}

// Revote handles POST /sessions/{id}/revote
func (h *VotingHandler) Revote(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if requirePlayer(h.db, w, r, sessionID) == nil {
		return
	}

	if err := engine.Revote(h.db, sessionID); err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "New voting round started"})
}

// StartVoting handles POST /sessions/{id}/stories/{storyID}/start
// [scrum master only]
func (h *VotingHandler) StartVoting(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	storyID := r.PathValue("storyID")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	if err := engine.StartVoting(h.db, sessionID, storyID); err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Voting started"})
}

// ValidateEstimation handles POST /sessions/{id}/stories/{storyID}/validate
// [scrum master only]
func (h *VotingHandler) ValidateEstimation(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	storyID := r.PathValue("storyID")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	var req models.ValidateEstimationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Estimation < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "estimation must not be negative")
		return
	}

	hasNext, err := engine.ValidateEstimation(h.db, sessionID, storyID, req.Estimation)
	if err != nil {
		engineError(w, err)
		return
	}

	message := "All stories estimated"
	if hasNext {
		message = "Estimation validated"
	}

	middleware.JSONResponse(w, http.StatusOK, models.ValidateEstimationResponse{
		Message: message,
		HasNext: hasNext,
	})
}

// CoffeeBreak handles POST /sessions/{id}/stories/{storyID}/coffee-break
// [scrum master only]
func (h *VotingHandler) CoffeeBreak(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	storyID := r.PathValue("storyID")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	if err := engine.EnterCoffeeBreak(h.db, sessionID, storyID); err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CoffeeBreakResponse{
		Message:           "Coffee break started, voting is blocked",
		CoffeeBreakActive: true,
	})
}

// Resume handles POST /sessions/{id}/resume [scrum master only]
func (h *VotingHandler) Resume(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	if err := engine.ResumeFromCoffeeBreak(h.db, sessionID); err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResumeResponse{
		Message:   "Coffee break over, voting reopened",
		SameStory: true,
	})
}
