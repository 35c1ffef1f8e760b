package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"guessgame/internal/database"
	"guessgame/internal/repository"
)

// CleanupService purges rows whose tokens can no longer resolve. Rounds with
// a recorded result stay, and so do the sessions that own them.
type CleanupService struct {
	db  *database.DB
	now func() time.Time
}

// NewCleanupService creates a new cleanup service
func NewCleanupService(db *database.DB) *CleanupService {
	return &CleanupService{db: db, now: utcNow}
}

// DeleteExpired removes dead rounds first so their sessions become eligible
func (s *CleanupService) DeleteExpired(ctx context.Context) (games, sessions int64, err error) {
	now := s.now()
	err = s.db.WithTx(ctx, func(tx *database.Tx) error {
		var err error
		if games, err = repository.NewGameRepository(tx).DeleteExpired(ctx, now); err != nil {
			return err
		}
		sessions, err = repository.NewSessionRepository(tx).DeleteExpired(ctx, now)
		return err
	})
	return games, sessions, err
}

// Run calls DeleteExpired every interval until ctx is cancelled
func (s *CleanupService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			games, sessions, err := s.DeleteExpired(ctx)
			if err != nil {
				log.Error().Err(err).Msg("Failed to clean up expired rows")
				continue
			}
			log.Debug().Int64("games", games).Int64("sessions", sessions).Msg("Expired rows cleaned up")
		}
	}
}
