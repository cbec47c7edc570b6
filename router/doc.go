// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the HTTP routes using Go 1.22+ method patterns.

Routes:

	GET  /health
	POST /sessions
	POST /sessions/join
	POST /sessions/{id}/leave
	GET  /sessions/{id}/state
	POST /sessions/{id}/votes
	POST /sessions/{id}/reveal
	POST /sessions/{id}/revote
	POST /sessions/{id}/resume
	POST /sessions/{id}/stories/{storyID}/start
	POST /sessions/{id}/stories/{storyID}/validate
	POST /sessions/{id}/stories/{storyID}/coffee-break
	POST /sessions/{id}/backlog
	GET  /sessions/{id}/backlog/export
	POST /sessions/{id}/save

All routes are wrapped with request logging; CORS is applied once around
the whole mux in main.
*/
package router
