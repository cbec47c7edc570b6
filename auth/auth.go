// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// SessionCodeLen is the length of a human-shareable join code.
const SessionCodeLen = 8

// GenerateSessionCode creates a random join code: 8 uppercase hex
// characters, short enough to read out loud to the team.
func GenerateSessionCode() (string, error) {
	b := make([]byte, SessionCodeLen/2)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session code: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(b)), nil
}

// NormalizeSessionCode canonicalizes a user-typed join code so lookups are
// case- and whitespace-insensitive.
func NormalizeSessionCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
