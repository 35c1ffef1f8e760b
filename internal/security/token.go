package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// TokenBytes is the entropy of every session and game token (128 bits)
const TokenBytes = 16

// GenerateToken returns a fresh opaque token drawn from crypto/rand,
// hex-encoded. Tokens are the only access control in the game, so a
// failing random source is an error rather than a fallback.
func GenerateToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// HashToken returns the BLAKE2b-256 digest stored in place of a raw token
func HashToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// ExpiresAt computes a token's expiry from the moment it was issued or refreshed
func ExpiresAt(from time.Time, ttl time.Duration) time.Time {
	return from.Add(ttl).UTC()
}
