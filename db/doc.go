// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL works unchanged under both supported drivers (modernc.org/sqlite and
lib/pq).

# Tables

  - session: session metadata, vote rule, lifecycle status, active story
  - player: roster entries with the scrum-master and connectivity flags
  - story: backlog items with estimation and position
  - vote: one row per (session, story, player, round); composite primary key
  - session_save: archived session snapshots

# Relationships

	session 1──* player
	session 1──* story
	session 1──* vote
	session 1──* session_save
	story   1──* vote

All foreign keys use ON DELETE CASCADE.
*/
package db
