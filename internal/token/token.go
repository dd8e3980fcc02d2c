// Package token generates opaque share tokens.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Length of generated tokens in hex characters (32 random bytes).
const Length = 64

// New returns a cryptographically random, unguessable token. Uniqueness is
// enforced by the store's primary key, not here; collisions are treated as
// negligible but a duplicate insert is rejected rather than overwritten.
func New() (string, error) {
	buf := make([]byte, Length/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("token: read random: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
