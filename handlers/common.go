// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/planning-poker/engine"
	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/store"
)

// requirePlayer resolves the X-Player-ID header to a roster member of the
// session. On failure it writes the error response and returns nil.
func requirePlayer(db *sql.DB, w http.ResponseWriter, r *http.Request, sessionID string) *models.Player {
	playerID := r.Header.Get("X-Player-ID")
	if playerID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Player-ID header required")
		return nil
	}

	player, err := store.PlayerByID(db, playerID)
	if err != nil {
		slog.Error("failed to query player", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return nil
	}
	if player == nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Unknown player")
		return nil
	}
	if player.SessionID != sessionID {
		middleware.ErrorResponse(w, http.StatusForbidden, "Player does not belong to this session")
		return nil
	}
	return player
}

// requireScrumMaster is requirePlayer plus the facilitator role check.
func requireScrumMaster(db *sql.DB, w http.ResponseWriter, r *http.Request, sessionID string) *models.Player {
	player := requirePlayer(db, w, r, sessionID)
	if player == nil {
		return nil
	}
	if !player.IsScrumMaster {
		middleware.ErrorResponse(w, http.StatusForbidden, "Scrum master only")
		return nil
	}
	return player
}

// engineError maps engine sentinel errors onto HTTP status codes.
func engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Session not found")
	case errors.Is(err, engine.ErrStoryNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Story not found")
	case errors.Is(err, engine.ErrNoActiveStory):
		middleware.ErrorResponse(w, http.StatusConflict, "No active story")
	case errors.Is(err, engine.ErrCoffeeBreak):
		middleware.ErrorResponse(w, http.StatusConflict, "Coffee break in progress")
	default:
		slog.Error("engine operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}
