// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles configuration from CLI flags and environment.

Flags take precedence; environment variables fill the gaps:

  - PORT (-p): server port (default 3413)
  - DATABASE_URL (-d): connection string or SQLite file path
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"

With the sqlite type, DATABASE_URL defaults to a local "planning-poker.db"
file so the server runs with no configuration at all. The postgres type
requires an explicit URL.

A .env file, when present, is loaded by main before parsing.
*/
package cliparse
