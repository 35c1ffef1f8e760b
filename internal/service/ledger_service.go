package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"guessgame/internal/database"
	"guessgame/internal/models"
	"guessgame/internal/repository"
)

// MaxPlayerNameLength caps the stored player name, in runes
const MaxPlayerNameLength = 32

// Message keys for the rank announcement after a win
const (
	RankMessageHighscore = "game.highscore"
	RankMessageTopTen    = "game.highscore_top10"
)

// LedgerService records won rounds and answers leaderboard questions
type LedgerService struct {
	db      *database.DB
	results *repository.ResultRepository
	now     func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(db *database.DB) *LedgerService {
	return &LedgerService{
		db:      db,
		results: repository.NewResultRepository(db),
		now:     utcNow,
	}
}

// NormalizePlayerName trims, uppercases and truncates a submitted name
func NormalizePlayerName(name string) string {
	name = cases.Upper(language.Und).String(strings.TrimSpace(name))
	if utf8.RuneCountInString(name) > MaxPlayerNameLength {
		name = string([]rune(name)[:MaxPlayerNameLength])
	}
	return name
}

// Record stores the result of a won round and retires its token. Recording
// the same round twice returns the first result unchanged.
func (s *LedgerService) Record(ctx context.Context, game *models.Game, playerName string) (*models.Result, error) {
	var recorded *models.Result

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		games := repository.NewGameRepository(tx)
		results := repository.NewResultRepository(tx)

		current, err := games.GetByIDForUpdate(ctx, game.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrGameNotFound
		}
		if err != nil {
			return err
		}
		if !current.IsWon {
			return ErrGameNotWon
		}

		existing, err := results.GetByGameID(ctx, current.ID)
		if err == nil {
			recorded = existing
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		now := s.now()
		result := &models.Result{
			GameID:     current.ID,
			PlayerName: NormalizePlayerName(playerName),
			// the counter runs one ahead of the guesses actually used
			GuessCount: current.GuessCount - 1,
			Timestamp:  now,
			HardMode:   current.HardMode,
		}
		if err := results.Create(ctx, result); err != nil {
			return err
		}
		if err := games.Expire(ctx, current.ID, now); err != nil {
			return err
		}
		recorded = result
		return nil
	})

	if err != nil && s.db.Dialect.IsUniqueViolation(err) {
		existing, getErr := s.results.GetByGameID(ctx, game.ID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load existing result: %w", getErr)
		}
		return existing, nil
	}
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// TopTen returns up to ten results in leaderboard order, never nil
func (s *LedgerService) TopTen(ctx context.Context) ([]models.Result, error) {
	return s.results.TopTen(ctx)
}

// RankOf is the 1-based leaderboard position of the round's result, or 0
// when it has no result or falls outside the top ten.
func (s *LedgerService) RankOf(ctx context.Context, gameID int64) (int, error) {
	top, err := s.TopTen(ctx)
	if err != nil {
		return 0, err
	}
	for i, r := range top {
		if r.GameID == gameID {
			return i + 1, nil
		}
	}
	return 0, nil
}

// RankMessage returns the message key announcing rank, or "" for none
func RankMessage(rank int) string {
	switch {
	case rank == 1:
		return RankMessageHighscore
	case rank > 1 && rank <= repository.LeaderboardSize:
		return RankMessageTopTen
	default:
		return ""
	}
}
