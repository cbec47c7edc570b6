// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Handlers

  - SessionHandler: create, join, leave, and the polling state snapshot
  - VotingHandler: vote submission, reveal, revote, start-voting,
    estimation validation, coffee-break enter and resume
  - BacklogHandler: backlog import (destructive replace), export, and
    full session saves

# Identity and roles

Every session-scoped route reads the X-Player-ID header and checks the
player against the session's roster. Facilitator-only operations (reveal,
validate, start, coffee-break, resume, import, save) additionally require
the scrum-master flag. The engine below assumes these checks have already
happened.

# Errors

Engine sentinel errors map to HTTP statuses in engineError: missing
session or story to 404, state-machine precondition failures (no active
story, coffee break in progress) to 409 Conflict.
*/
package handlers
