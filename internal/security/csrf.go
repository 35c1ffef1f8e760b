package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// CSRFFieldName is the hidden form field every screen form carries
const CSRFFieldName = "csrf_token"

// CSRFGenerator derives form tokens from the session token with HMAC-SHA256.
// Nothing is stored: the same session token always yields the same form token.
type CSRFGenerator struct {
	secret []byte
}

// NewCSRFGenerator creates a new stateless HMAC-based CSRF generator.
func NewCSRFGenerator(secret string) *CSRFGenerator {
	return &CSRFGenerator{secret: []byte(secret)}
}

// Token returns the form token for sessionToken, or "" when there is no session
func (g *CSRFGenerator) Token(sessionToken string) string {
	if sessionToken == "" {
		return ""
	}
	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(sessionToken))
	return hex.EncodeToString(mac.Sum(nil))
}

// Valid reports whether token was minted for sessionToken.
func (g *CSRFGenerator) Valid(sessionToken, token string) bool {
	if sessionToken == "" || token == "" {
		return false
	}
	return hmac.Equal([]byte(g.Token(sessionToken)), []byte(token))
}
