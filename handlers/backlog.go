// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/middleware"
	"github.com/danielhkuo/planning-poker/models"
	"github.com/danielhkuo/planning-poker/store"
)

type BacklogHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewBacklogHandler(db *sql.DB, cfg cliparse.Config) *BacklogHandler {
	return &BacklogHandler{db: db, cfg: cfg}
}

// Import handles POST /sessions/{id}/backlog [scrum master only].
// The import replaces the session's entire backlog.
func (h *BacklogHandler) Import(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	var req models.ImportBacklogRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req.Stories) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, `"stories" must contain at least one item`)
		return
	}
	for _, item := range req.Stories {
		if item.ID == "" || item.Title == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "every story needs an id and a title")
			return
		}
	}

	imported, err := store.ReplaceBacklog(h.db, sessionID, req.Stories)
	if err != nil {
		slog.Error("backlog import failed", "error", err, "session_id", sessionID, "inserted", imported)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Backlog import failed")
		return
	}

	slog.Info("backlog imported", "session_id", sessionID, "stories", imported)

	middleware.JSONResponse(w, http.StatusCreated, models.ImportBacklogResponse{
		Imported: imported,
	})
}

// Export handles GET /sessions/{id}/backlog/export — a JSON document in
// the same shape the import accepts, estimations included.
func (h *BacklogHandler) Export(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if requirePlayer(h.db, w, r, sessionID) == nil {
		return
	}

	session, err := store.SessionByID(h.db, sessionID)
	if err != nil || session == nil {
		slog.Error("failed to query session for export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stories, err := store.StoriesBySession(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query stories for export", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	export := models.BacklogExport{
		SessionID:   session.ID,
		SessionName: session.Name,
		SessionCode: session.Code,
		VoteRule:    session.VoteRule,
		ExportedAt:  time.Now(),
		Stories:     exportedStories(stories, false),
	}

	middleware.JSONResponse(w, http.StatusOK, export)
}

// Save handles POST /sessions/{id}/save [scrum master only]: archives a
// full session snapshot in the session_save table and returns it.
func (h *BacklogHandler) Save(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")
	if requireScrumMaster(h.db, w, r, sessionID) == nil {
		return
	}

	session, err := store.SessionByID(h.db, sessionID)
	if err != nil || session == nil {
		slog.Error("failed to query session for save", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stories, err := store.StoriesBySession(h.db, sessionID)
	if err != nil {
		slog.Error("failed to query stories for save", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	save := models.SessionSave{
		Session: models.SessionSummary{
			ID:         session.ID,
			Name:       session.Name,
			Code:       session.Code,
			Status:     session.Status,
			VoteRule:   session.VoteRule,
			MaxPlayers: session.MaxPlayers,
		},
		Stories: exportedStories(stories, true),
		SavedAt: time.Now(),
	}

	payload, err := json.Marshal(save)
	if err != nil {
		slog.Error("failed to marshal session save", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	if _, err := store.InsertSessionSave(h.db, sessionID, payload); err != nil {
		slog.Error("failed to archive session save", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	slog.Info("session saved", "session_id", sessionID, "stories", len(stories))

	middleware.JSONResponse(w, http.StatusOK, save)
}

func exportedStories(stories []models.Story, withOrder bool) []models.ExportedStory {
	out := make([]models.ExportedStory, len(stories))
	for i, s := range stories {
		out[i] = models.ExportedStory{
			ID:          s.ExternalID,
			Title:       s.Title,
			Description: s.Description,
			Priority:    s.Priority,
			Estimation:  s.Estimation,
			Status:      s.Status,
		}
		if withOrder {
			out[i].OrderIndex = s.OrderIndex
		}
	}
	return out
}
