package models

import "time"

// Result is the immutable record of one won round
type Result struct {
	ID         int64
	GameID     int64
	PlayerName string
	GuessCount int
	Timestamp  time.Time
	HardMode   bool
}

// Mode returns the display label for the difficulty the round was won on
func (r *Result) Mode() string {
	if r.HardMode {
		return "HARD"
	}
	return "EASY"
}
