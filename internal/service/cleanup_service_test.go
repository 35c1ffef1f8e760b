package service

import (
	"context"
	"testing"
	"time"

	"guessgame/internal/models"
)

func TestCleanupDeletesOnlyDeadRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	cleanup := NewCleanupService(env.db)

	// A session with a recorded result survives; so does a live round.
	winner := env.newSession(t)
	wonID := env.insertWonGame(t, winner.ID, "won-hash", false)
	if _, err := env.ledger.Record(ctx, &models.Game{ID: wonID}, "ada"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	player := env.newSession(t)
	live, err := env.games.Start(ctx, player)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	env.newSession(t)

	// Move past the round TTL but not the session TTL
	cleanup.now = func() time.Time { return time.Now().UTC().Add(time.Hour) }
	games, sessions, err := cleanup.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if games != 1 || sessions != 0 {
		t.Errorf("DeleteExpired() = (%d, %d), want (1, 0)", games, sessions)
	}
	if _, err := env.games.Resolve(ctx, live.Token); err == nil {
		t.Error("expired round still resolves")
	}

	// Past every session TTL: only sessions without rounds go
	cleanup.now = func() time.Time { return time.Now().UTC().Add(365 * 24 * time.Hour) }
	games, sessions, err = cleanup.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("DeleteExpired() error = %v", err)
	}
	if games != 0 || sessions != 2 {
		t.Errorf("DeleteExpired() = (%d, %d), want (0, 2)", games, sessions)
	}

	top, err := env.ledger.TopTen(ctx)
	if err != nil {
		t.Fatalf("TopTen() error = %v", err)
	}
	if len(top) != 1 || top[0].PlayerName != "ADA" {
		t.Errorf("TopTen() = %+v, want the recorded result", top)
	}
}
