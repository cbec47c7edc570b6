// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer: package-level functions over a
*sql.DB, one file per aggregate (session, player, story, vote, save).

The stores are deliberately dumb. They validate nothing about lifecycle
transitions — SetSessionStatus and SetStoryStatus write whatever they are
given — so a transition bug in the engine surfaces at the orchestration
layer during testing instead of being silently absorbed here.

Lookups return (nil, nil) for a missing row; the engine translates absence
into its own error taxonomy.

Concurrency: UpsertVote relies on the vote table's composite primary key
plus ON CONFLICT DO UPDATE for per-row atomicity. Everything else is
last-writer-wins, matching the engine's documented discipline.
*/
package store
