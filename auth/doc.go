// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth generates and normalizes session join codes.

A join code is the 8-character uppercase-hex string a facilitator shares
with the team. It identifies a session for joining only; row identities are
UUIDs and never leave the API as credentials.

Participant identity is carried by the X-Player-ID header and checked
against the roster in the handlers; there is no token or signature scheme
beyond the binary scrum-master role flag.
*/
package auth
