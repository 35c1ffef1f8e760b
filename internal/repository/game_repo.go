package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"guessgame/internal/database"
	"guessgame/internal/models"
)

// GameRepository handles database operations for game rounds
type GameRepository struct {
	db database.DBTX
}

// NewGameRepository creates a new game repository over a connection or transaction
func NewGameRepository(db database.DBTX) *GameRepository {
	return &GameRepository{db: db}
}

const gameColumns = `id, session_id, range_max, hard_mode, secret_number, guess_count, max_guesses, is_won, created_at, expires_at`

// Create inserts a new round keyed by the digest of its token and sets g.ID
func (r *GameRepository) Create(ctx context.Context, tokenHash string, g *models.Game) error {
	query := `
		INSERT INTO games (token_hash, session_id, range_max, hard_mode, secret_number, guess_count, max_guesses, is_won, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query,
		tokenHash, g.SessionID, g.RangeMax, g.HardMode, g.SecretNumber,
		g.GuessCount, g.MaxGuesses, g.IsWon, g.CreatedAt, g.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	g.ID = id
	return nil
}

// GetByTokenHash retrieves a round by the digest of its token
func (r *GameRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE token_hash = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, tokenHash))
}

// GetByID retrieves a round by id
func (r *GameRepository) GetByID(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByIDForUpdate re-reads a round and locks its row until the transaction ends
func (r *GameRepository) GetByIDForUpdate(ctx context.Context, id int64) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = ?` + r.db.GetDialect().LockClause()
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *GameRepository) scanOne(row *sql.Row) (*models.Game, error) {
	g := &models.Game{}
	err := row.Scan(
		&g.ID,
		&g.SessionID,
		&g.RangeMax,
		&g.HardMode,
		&g.SecretNumber,
		&g.GuessCount,
		&g.MaxGuesses,
		&g.IsWon,
		&g.CreatedAt,
		&g.ExpiresAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return g, nil
}

// IncrementGuess bumps guess_count in a single statement so concurrent
// submissions against the same round are never lost. A won round is left
// alone and reported as ErrNotFound.
func (r *GameRepository) IncrementGuess(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`UPDATE games SET guess_count = guess_count + 1 WHERE id = ? AND is_won = %s`, r.db.GetDialect().BoolValue(false))
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment guess: %w", err)
	}
	return requireRow(result)
}

// GuessCount reads the current counter for a round
func (r *GameRepository) GuessCount(ctx context.Context, id int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT guess_count FROM games WHERE id = ?`, id).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read guess count: %w", err)
	}
	return count, nil
}

// MarkWon flips is_won from false to true. It reports false when another
// request already did so.
func (r *GameRepository) MarkWon(ctx context.Context, id int64) (bool, error) {
	d := r.db.GetDialect()
	query := fmt.Sprintf(`UPDATE games SET is_won = %s WHERE id = ? AND is_won = %s`, d.BoolValue(true), d.BoolValue(false))
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to mark game won: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// Expire makes the round's token unusable from at onwards
func (r *GameRepository) Expire(ctx context.Context, id int64, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE games SET expires_at = ? WHERE id = ?`, at, id)
	if err != nil {
		return fmt.Errorf("failed to expire game: %w", err)
	}
	return requireRow(result)
}

// ExpireLost expires a round that was not won. It reports false when the
// round is won or gone, leaving it untouched.
func (r *GameRepository) ExpireLost(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := fmt.Sprintf(`UPDATE games SET expires_at = ? WHERE id = ? AND is_won = %s`, r.db.GetDialect().BoolValue(false))
	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to expire game: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n == 1, nil
}

// DeleteExpired removes rounds that expired before now without a recorded result
func (r *GameRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM games
		WHERE expires_at <= ? AND id NOT IN (SELECT game_id FROM results)
	`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired games: %w", err)
	}
	return result.RowsAffected()
}
