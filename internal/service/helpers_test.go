package service

import (
	"context"
	"testing"
	"time"

	"guessgame/internal/database"
	"guessgame/internal/database/dbtest"
	"guessgame/internal/models"
	"guessgame/internal/repository"
)

var testDefaults = models.SessionDefaults{RangeMax: 20, HardMode: false, Language: "en"}

type testEnv struct {
	db       *database.DB
	sessions *SessionService
	games    *GameService
	ledger   *LedgerService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.New(t)
	return &testEnv{
		db:       db,
		sessions: NewSessionService(repository.NewSessionRepository(db), testDefaults, 180*24*time.Hour),
		games:    NewGameService(repository.NewGameRepository(db), 120*time.Second),
		ledger:   NewLedgerService(db),
	}
}

func (e *testEnv) newSession(t *testing.T) *models.Session {
	t.Helper()
	s, err := e.sessions.Create(context.Background())
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return s
}

// fixedSecret makes the next rounds use secret instead of a random draw
func (e *testEnv) fixedSecret(secret int) {
	e.games.secret = func(int) (int, error) { return secret, nil }
}

// insertWonGame stores a finished round directly so results can reference it
func (e *testEnv) insertWonGame(t *testing.T, sessionID int64, hash string, hardMode bool) int64 {
	t.Helper()
	now := time.Now().UTC()
	g := &models.Game{
		SessionID:    sessionID,
		RangeMax:     20,
		HardMode:     hardMode,
		SecretNumber: 3,
		GuessCount:   2,
		MaxGuesses:   5,
		IsWon:        true,
		CreatedAt:    now,
		ExpiresAt:    now,
	}
	if err := repository.NewGameRepository(e.db).Create(context.Background(), hash, g); err != nil {
		t.Fatalf("insert game: %v", err)
	}
	return g.ID
}
