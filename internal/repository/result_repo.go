package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"guessgame/internal/database"
	"guessgame/internal/models"
)

// LeaderboardSize is how many results the highscore table shows
const LeaderboardSize = 10

// ResultRepository handles database operations for recorded wins
type ResultRepository struct {
	db database.DBTX
}

// NewResultRepository creates a new result repository over a connection or transaction
func NewResultRepository(db database.DBTX) *ResultRepository {
	return &ResultRepository{db: db}
}

// Create inserts a result and sets res.ID. A second result for the same
// game violates the unique index on game_id.
func (r *ResultRepository) Create(ctx context.Context, res *models.Result) error {
	query := `
		INSERT INTO results (game_id, player_name, guess_count, timestamp, hard_mode)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, res.GameID, res.PlayerName, res.GuessCount, res.Timestamp, res.HardMode)
	if err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	res.ID = id
	return nil
}

// GetByGameID retrieves the result recorded for a round
func (r *ResultRepository) GetByGameID(ctx context.Context, gameID int64) (*models.Result, error) {
	query := `
		SELECT id, game_id, player_name, guess_count, timestamp, hard_mode
		FROM results
		WHERE game_id = ?
	`
	res := &models.Result{}
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&res.ID,
		&res.GameID,
		&res.PlayerName,
		&res.GuessCount,
		&res.Timestamp,
		&res.HardMode,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return res, nil
}

// TopTen returns the leaderboard: fewest guesses first, hard mode before
// easy on ties, then earliest win. id breaks exact timestamp ties.
func (r *ResultRepository) TopTen(ctx context.Context) ([]models.Result, error) {
	query := `
		SELECT id, game_id, player_name, guess_count, timestamp, hard_mode
		FROM results
		ORDER BY guess_count ASC, hard_mode DESC, timestamp ASC, id ASC
		LIMIT ?
	`
	rows, err := r.db.QueryContext(ctx, query, LeaderboardSize)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	results := make([]models.Result, 0, LeaderboardSize)
	for rows.Next() {
		var res models.Result
		if err := rows.Scan(&res.ID, &res.GameID, &res.PlayerName, &res.GuessCount, &res.Timestamp, &res.HardMode); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leaderboard: %w", err)
	}
	return results, nil
}
