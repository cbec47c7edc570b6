// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/planning-poker/cliparse"
	"github.com/danielhkuo/planning-poker/handlers"
	"github.com/danielhkuo/planning-poker/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(db, cfg)
	votingHandler := handlers.NewVotingHandler(db, cfg)
	backlogHandler := handlers.NewBacklogHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session lifecycle
	mux.HandleFunc("POST /sessions", middleware.WithLogging(sessionHandler.Create))
	mux.HandleFunc("POST /sessions/join", middleware.WithLogging(sessionHandler.Join))
	mux.HandleFunc("POST /sessions/{id}/leave", middleware.WithLogging(sessionHandler.Leave))
	mux.HandleFunc("GET /sessions/{id}/state", middleware.WithLogging(sessionHandler.State))

	// Voting round
	mux.HandleFunc("POST /sessions/{id}/votes", middleware.WithLogging(votingHandler.Submit))
	mux.HandleFunc("POST /sessions/{id}/reveal", middleware.WithLogging(votingHandler.Reveal))
	mux.HandleFunc("POST /sessions/{id}/revote", middleware.WithLogging(votingHandler.Revote))
	mux.HandleFunc("POST /sessions/{id}/resume", middleware.WithLogging(votingHandler.Resume))
	mux.HandleFunc("POST /sessions/{id}/stories/{storyID}/start", middleware.WithLogging(votingHandler.StartVoting))
	mux.HandleFunc("POST /sessions/{id}/stories/{storyID}/validate", middleware.WithLogging(votingHandler.ValidateEstimation))
	mux.HandleFunc("POST /sessions/{id}/stories/{storyID}/coffee-break", middleware.WithLogging(votingHandler.CoffeeBreak))

	// Backlog management
	mux.HandleFunc("POST /sessions/{id}/backlog", middleware.WithLogging(backlogHandler.Import))
	mux.HandleFunc("GET /sessions/{id}/backlog/export", middleware.WithLogging(backlogHandler.Export))
	mux.HandleFunc("POST /sessions/{id}/save", middleware.WithLogging(backlogHandler.Save))

	// Root endpoint; {$} keeps it from swallowing unknown GET paths
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("planning-poker API v1"))
	})

	return mux
}
