// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Planning Poker API server.

Planning Poker is a story estimation service for agile teams: a scrum
master imports a backlog, players vote on each story with planning poker
cards, and a configurable consensus rule turns the revealed votes into an
estimation.

# Starting the Server

The server runs on SQLite by default and needs no configuration:

	go run main.go

Or against PostgreSQL:

	DATABASE_TYPE=postgres DATABASE_URL=postgres://... go run main.go

Or with flags:

	go run main.go -p 3413 -t postgres -d "postgres://..."

# Configuration

Optional settings:

  - PORT (-p): Server port (default: 3413)
  - DATABASE_TYPE (-t): "sqlite" or "postgres" (default: sqlite)
  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
    (default: planning-poker.db; required when the type is postgres)

A .env file in the working directory is loaded if present.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (sessions, voting, backlog)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - engine: Session and story state machine
  - rules: Consensus rules that turn votes into estimations
  - store: SQL persistence
  - auth: Session code generation
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
