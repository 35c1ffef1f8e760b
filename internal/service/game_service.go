package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"guessgame/internal/models"
	"guessgame/internal/repository"
	"guessgame/internal/security"
)

// GameService starts rounds and evaluates guesses against them
type GameService struct {
	games  *repository.GameRepository
	ttl    time.Duration
	now    func() time.Time
	secret func(rangeMax int) (int, error)
}

// NewGameService creates a new game service
func NewGameService(games *repository.GameRepository, ttl time.Duration) *GameService {
	return &GameService{
		games:  games,
		ttl:    ttl,
		now:    utcNow,
		secret: drawSecret,
	}
}

// drawSecret picks a number uniformly from [1, rangeMax]
func drawSecret(rangeMax int) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(rangeMax)))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()) + 1, nil
}

// MaxGuesses is ceil(rangeMax/4), never less than one
func MaxGuesses(rangeMax int) int {
	if rangeMax < 1 {
		return 1
	}
	return (rangeMax-1)/4 + 1
}

// IsNumeric reports whether raw, once trimmed, is made only of ASCII digits
func IsNumeric(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return false
		}
	}
	return true
}

// ParseGuess turns raw input into a guess. Anything that is not a plain
// non-negative 32-bit number becomes 0, which never matches a secret.
func ParseGuess(raw string) int {
	if !IsNumeric(raw) {
		return 0
	}
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0
	}
	return int(n)
}

// Start snapshots the session settings into a new round and persists it.
// The returned game carries its raw token for the caller to hand out.
func (s *GameService) Start(ctx context.Context, session *models.Session) (*models.Game, error) {
	if session.RangeMax < 1 {
		return nil, ErrInvalidRange
	}

	secret, err := s.secret(session.RangeMax)
	if err != nil {
		return nil, fmt.Errorf("failed to draw secret number: %w", err)
	}
	token, err := security.GenerateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate game token: %w", err)
	}

	now := s.now()
	game := &models.Game{
		Token:        token,
		SessionID:    session.ID,
		RangeMax:     session.RangeMax,
		HardMode:     session.HardMode,
		SecretNumber: secret,
		GuessCount:   1,
		MaxGuesses:   MaxGuesses(session.RangeMax),
		CreatedAt:    now,
		ExpiresAt:    security.ExpiresAt(now, s.ttl),
	}
	if err := s.games.Create(ctx, security.HashToken(token), game); err != nil {
		return nil, err
	}
	return game, nil
}

// Resolve looks a round up by its raw token. Unknown, expired and finished
// rounds are all ErrGameNotFound.
func (s *GameService) Resolve(ctx context.Context, token string) (*models.Game, error) {
	if token == "" {
		return nil, ErrGameNotFound
	}

	game, err := s.games.GetByTokenHash(ctx, security.HashToken(token))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve game: %w", err)
	}
	if game.IsExpiredAt(s.now()) {
		return nil, ErrGameNotFound
	}

	game.Token = token
	return game, nil
}

// IncrementGuess counts one more submitted guess against the round. A won
// round keeps its count, so replayed submissions cannot change the score.
func (s *GameService) IncrementGuess(ctx context.Context, game *models.Game) error {
	if game.IsWon {
		return nil
	}

	err := s.games.IncrementGuess(ctx, game.ID)
	if errors.Is(err, repository.ErrNotFound) {
		// either gone or won by a concurrent request
		current, getErr := s.games.GetByID(ctx, game.ID)
		if getErr != nil || !current.IsWon {
			return ErrGameNotFound
		}
		game.IsWon = true
		game.GuessCount = current.GuessCount
		return nil
	}
	if err != nil {
		return err
	}

	count, err := s.games.GuessCount(ctx, game.ID)
	if err != nil {
		return fmt.Errorf("failed to reload guess count: %w", err)
	}
	game.GuessCount = count
	return nil
}

// Evaluate decides what a guess means for the round without touching storage.
// A win is checked first, so the last allowed guess can still win.
func Evaluate(game *models.Game, guess int) models.GuessOutcome {
	outcome := models.GuessOutcome{
		Guess:      guess,
		GuessCount: game.GuessCount,
		MaxGuesses: game.MaxGuesses,
	}

	switch {
	case guess == game.SecretNumber:
		outcome.Kind = models.OutcomeWon
		outcome.Secret = game.SecretNumber
	case game.GuessCount <= game.MaxGuesses:
		outcome.Kind = models.OutcomeContinue
		if !game.HardMode && guess > 0 {
			if guess < game.SecretNumber {
				outcome.Hint = models.HintHigher
			} else {
				outcome.Hint = models.HintLower
			}
		}
	default:
		outcome.Kind = models.OutcomeExhausted
		outcome.Secret = game.SecretNumber
	}
	return outcome
}

// SubmitGuess evaluates raw input against the round and persists the side
// effects: a win is recorded once, an exhausted round is expired at once.
// A round that is already won answers Won again without looking at raw.
func (s *GameService) SubmitGuess(ctx context.Context, game *models.Game, raw string) (models.GuessOutcome, error) {
	if game.IsWon {
		return wonAgain(game), nil
	}

	outcome := Evaluate(game, ParseGuess(raw))

	switch outcome.Kind {
	case models.OutcomeWon:
		first, err := s.games.MarkWon(ctx, game.ID)
		if err != nil {
			return outcome, err
		}
		game.IsWon = true
		outcome.Repeated = !first
	case models.OutcomeExhausted:
		now := s.now()
		expired, err := s.games.ExpireLost(ctx, game.ID, now)
		if err != nil {
			return outcome, err
		}
		if !expired {
			// a concurrent request won the round first
			current, err := s.games.GetByID(ctx, game.ID)
			if err != nil || !current.IsWon {
				return outcome, ErrGameNotFound
			}
			current.Token = game.Token
			*game = *current
			return wonAgain(game), nil
		}
		game.ExpiresAt = now
	}
	return outcome, nil
}

// wonAgain is the outcome for any submission against a round that is already won
func wonAgain(game *models.Game) models.GuessOutcome {
	return models.GuessOutcome{
		Kind:       models.OutcomeWon,
		Guess:      game.SecretNumber,
		GuessCount: game.GuessCount,
		MaxGuesses: game.MaxGuesses,
		Secret:     game.SecretNumber,
		Repeated:   true,
	}
}
