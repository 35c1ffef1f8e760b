package models

import "time"

// Game is a single round of number guessing owned by a session
type Game struct {
	ID           int64
	Token        string
	SessionID    int64
	RangeMax     int
	HardMode     bool
	SecretNumber int
	GuessCount   int
	MaxGuesses   int
	IsWon        bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// IsExpired checks if the game token is no longer usable
func (g *Game) IsExpired() bool {
	return g.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the game token is no longer usable at now
func (g *Game) IsExpiredAt(now time.Time) bool {
	return !now.Before(g.ExpiresAt)
}

// OutcomeKind classifies the result of evaluating a guess
type OutcomeKind int

const (
	OutcomeContinue OutcomeKind = iota
	OutcomeWon
	OutcomeExhausted
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeWon:
		return "won"
	case OutcomeExhausted:
		return "exhausted"
	default:
		return "continue"
	}
}

// Hint is the higher/lower nudge shown after a wrong guess
type Hint string

const (
	HintNone   Hint = ""
	HintHigher Hint = "higher"
	HintLower  Hint = "lower"
)

// GuessOutcome is what a submitted guess resolved to
type GuessOutcome struct {
	Kind       OutcomeKind
	Hint       Hint
	Guess      int
	GuessCount int
	MaxGuesses int
	// Secret is only set once the round is over
	Secret int
	// Repeated marks a win that an earlier request already counted
	Repeated bool
}
