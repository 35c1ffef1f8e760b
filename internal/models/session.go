package models

import "time"

// Session is one player's durable settings, addressed by a long-lived token
type Session struct {
	ID        int64
	Token     string // raw token; only known for the request that minted or presented it
	RangeMax  int
	HardMode  bool
	Language  string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the session token is no longer valid at now
func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionDefaults are the settings every new session starts with
type SessionDefaults struct {
	RangeMax int
	HardMode bool
	Language string
}
