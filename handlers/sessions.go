// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/engine"
	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/rules"
	"github.com/danielhkuo/planning-poker/store"
)

type SessionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSessionHandler(db *sql.DB, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{db: db, cfg: cfg}
}

const defaultMaxPlayers = 10

// Create handles POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.FacilitatorName = strings.TrimSpace(req.FacilitatorName)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.FacilitatorName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "facilitator_name is required")
		return
	}
	if req.MaxPlayers == 0 {
		req.MaxPlayers = defaultMaxPlayers
	}
	if req.MaxPlayers < 2 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "max_players must be at least 2")
		return
	}

	rule, err := rules.ParseRule(req.VoteRule)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "vote_rule must be one of: strict, average, median, absolute_majority, relative_majority")
		return
	}

	session, err := store.CreateSession(h.db, req.Name, req.MaxPlayers, rule)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	facilitator, err := store.CreatePlayer(h.db, session.ID, req.FacilitatorName, true)
	if err != nil {
		slog.Error("failed to create facilitator", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	slog.Info("session created", "session_id", session.ID, "code", session.Code, "rule", rule)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: session.ID,
		Code:      session.Code,
		PlayerID:  facilitator.ID,
	})
}

// Join handles POST /sessions/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req models.JoinSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.PlayerName = strings.TrimSpace(req.PlayerName)
	if req.Code == "" || req.PlayerName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "code and player_name are required")
		return
	}

	session, err := store.SessionByCode(h.db, req.Code)
	if err != nil {
		slog.Error("failed to query session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if session == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
		return
	}

	count, err := store.CountPlayers(h.db, session.ID)
	if err != nil {
		slog.Error("failed to count players", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count >= session.MaxPlayers {
		middleware.ErrorResponse(w, http.StatusConflict, "Session is full")
		return
	}

	players, err := store.PlayersBySession(h.db, session.ID)
	if err != nil {
		slog.Error("failed to query players", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	for _, p := range players {
		if strings.EqualFold(p.Name, req.PlayerName) {
			middleware.ErrorResponse(w, http.StatusConflict, "Name already taken")
			return
		}
	}

	player, err := store.CreatePlayer(h.db, session.ID, req.PlayerName, false)
	if err != nil {
		slog.Error("failed to create player", "error", err, "session_id", session.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to join session")
		return
	}

	slog.Info("player joined", "session_id", session.ID, "player", req.PlayerName)

	middleware.JSONResponse(w, http.StatusCreated, models.JoinSessionResponse{
		SessionID: session.ID,
		PlayerID:  player.ID,
	})
}

// Leave handles POST /sessions/{id}/leave — marks the player disconnected
// without removing their roster entry or votes.
func (h *SessionHandler) Leave(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	player := requirePlayer(h.db, w, r, sessionID)
	if player == nil {
		return
	}

	if err := store.SetPlayerConnected(h.db, player.ID, false); err != nil {
		slog.Error("failed to disconnect player", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Left session"})
}

// State handles GET /sessions/{id}/state — the polling snapshot.
func (h *SessionHandler) State(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	player := requirePlayer(h.db, w, r, sessionID)
	if player == nil {
		return
	}

	state, err := engine.Snapshot(h.db, sessionID, player.ID)
	if err != nil {
		engineError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}
