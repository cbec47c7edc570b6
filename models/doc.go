// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Domain Types

  - Session: one estimation gathering with a join code, a fixed vote rule,
    a lifecycle status, and a pointer to the story currently being voted on
  - Player: a roster entry; the creator is the scrum master
  - Story: one backlog item with external ID, priority, position, and a
    nullable estimation that is set exactly when status is "estimated"
  - Vote: a submitted vote joined with voter details
  - StoryStats: backlog progress counts

# Lifecycle Constants

Session status:

	waiting → voting → revealed → {voting | coffee_break | finished}
	coffee_break → voting

Story status:

	pending → voting → estimated

# Snapshot Types

SessionState is the aggregation clients poll for: session summary, current
story, roster, vote info, the computed result (only while revealed or on a
coffee break), and progress stats.
*/
package models
