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

// SessionRepository handles database operations for player sessions
type SessionRepository struct {
	db database.DBTX
}

// NewSessionRepository creates a new session repository over a connection or transaction
func NewSessionRepository(db database.DBTX) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session keyed by the digest of its token and sets s.ID
func (r *SessionRepository) Create(ctx context.Context, tokenHash string, s *models.Session) error {
	query := `
		INSERT INTO sessions (token_hash, range_max, hard_mode, language, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(ctx, query, tokenHash, s.RangeMax, s.HardMode, s.Language, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	s.ID = id
	return nil
}

// GetByTokenHash retrieves a session by the digest of its token
func (r *SessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.Session, error) {
	query := `
		SELECT id, range_max, hard_mode, language, expires_at, created_at
		FROM sessions
		WHERE token_hash = ?
	`
	s := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&s.ID,
		&s.RangeMax,
		&s.HardMode,
		&s.Language,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return s, nil
}

// Update persists the mutable session fields
func (r *SessionRepository) Update(ctx context.Context, s *models.Session) error {
	query := `
		UPDATE sessions
		SET range_max = ?, hard_mode = ?, language = ?, expires_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, s.RangeMax, s.HardMode, s.Language, s.ExpiresAt, s.ID)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return requireRow(result)
}

// requireRow maps an UPDATE that touched nothing to ErrNotFound
func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteExpired removes sessions that expired before now and own no rounds
func (r *SessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		DELETE FROM sessions
		WHERE expires_at <= ? AND id NOT IN (SELECT session_id FROM games)
	`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return result.RowsAffected()
}
