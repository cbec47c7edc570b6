// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package engine coordinates voting rounds: it is the state machine that
decides what a session and its stories may do at any moment.

# Session state machine

	waiting → voting → revealed → {voting (revote) | coffee_break | finished}
	coffee_break → voting (resume)

"finished" is terminal. Per story: pending → voting → estimated, where
"voting" is re-entered on every revote until an estimation is validated.

# Operations

  - SubmitVote: any member; blocked during a coffee break; first vote
    promotes the story from pending to voting
  - Reveal: reads the round, runs the session's rule (or detects a
    unanimous coffee break first), moves the session to revealed
  - Revote / ResumeFromCoffeeBreak: clear the round, back to voting
  - ValidateEstimation: writes the estimation, clears votes, advances to
    the next pending story or finishes the session
  - EnterCoffeeBreak: pauses the session, keeping votes and active story
  - StartVoting: facilitator picks a specific story to vote on
  - Snapshot: the read aggregation polling clients render

Facilitator-only enforcement lives in the handlers; the engine trusts that
callers have already checked the role.

The engine holds no locks. Vote upserts are atomic per row via the store;
session and story rows are last-writer-wins. The "current story" resolution
(ensureActiveStory) may write the session's pointer, but concurrent callers
converge on the same story, so the race is benign.

All precondition violations return sentinel errors (see errors.go); failed
operations leave the stores unchanged, except the documented partial-import
hazard in store.ReplaceBacklog.
*/
package engine
