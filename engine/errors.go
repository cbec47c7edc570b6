// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import "errors"

// Engine error taxonomy. Handlers map these onto HTTP status codes:
// not-found errors to 404, precondition failures to 409.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStoryNotFound   = errors.New("story not found")
	ErrNoActiveStory   = errors.New("no active story")
	ErrCoffeeBreak     = errors.New("voting blocked: coffee break in progress")
)
