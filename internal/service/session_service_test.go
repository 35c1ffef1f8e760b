package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSessionCreateAppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	s := env.newSession(t)

	if len(s.Token) != 32 {
		t.Errorf("Token length = %d, want 32", len(s.Token))
	}
	if s.RangeMax != 20 || s.HardMode || s.Language != "en" {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.ID == 0 {
		t.Error("ID not assigned")
	}
	if !s.ExpiresAt.After(time.Now().Add(179 * 24 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want about 180 days ahead", s.ExpiresAt)
	}
}

func TestSessionResolveIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.newSession(t)

	first, err := env.sessions.Resolve(ctx, created.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := env.sessions.Resolve(ctx, created.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if first.ID != second.ID || first.RangeMax != second.RangeMax ||
		first.HardMode != second.HardMode || first.Language != second.Language {
		t.Errorf("Resolve() not stable: %+v vs %+v", first, second)
	}
	if first.Token != created.Token {
		t.Errorf("Token = %q, want %q", first.Token, created.Token)
	}
}

func TestSessionResolveNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	created := env.newSession(t)

	tests := []struct {
		name  string
		token string
		now   time.Time
	}{
		{"empty token", "", time.Now()},
		{"unknown token", "00000000000000000000000000000000", time.Now()},
		{"expired token", created.Token, created.ExpiresAt.Add(time.Second)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.sessions.now = func() time.Time { return tt.now }
			_, err := env.sessions.Resolve(ctx, tt.token)
			if !errors.Is(err, ErrSessionNotFound) {
				t.Errorf("Resolve() error = %v, want ErrSessionNotFound", err)
			}
		})
	}
}

func TestSessionResolveOrCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	s, created, err := env.sessions.ResolveOrCreate(ctx, "stale-token")
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	if !created {
		t.Error("expected a new session for an unknown token")
	}

	again, created, err := env.sessions.ResolveOrCreate(ctx, s.Token)
	if err != nil {
		t.Fatalf("ResolveOrCreate() error = %v", err)
	}
	if created || again.ID != s.ID {
		t.Errorf("expected existing session %d, got %d (created=%v)", s.ID, again.ID, created)
	}
}

func TestSessionStorageErrorsAreNotMasked(t *testing.T) {
	env := newTestEnv(t)
	env.db.Close()

	_, created, err := env.sessions.ResolveOrCreate(context.Background(), "some-token")
	if err == nil {
		t.Fatal("expected an error from a closed database")
	}
	if errors.Is(err, ErrSessionNotFound) || created {
		t.Errorf("storage failure reported as missing session: %v", err)
	}
}

func TestSessionSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.newSession(t)

	if err := env.sessions.ToggleHardMode(ctx, s); err != nil {
		t.Fatalf("ToggleHardMode() error = %v", err)
	}
	if err := env.sessions.SetRange(ctx, s, 0); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("SetRange(0) error = %v, want ErrInvalidRange", err)
	}
	if err := env.sessions.SetRange(ctx, s, 50); err != nil {
		t.Fatalf("SetRange(50) error = %v", err)
	}
	if err := env.sessions.SetLanguage(ctx, s, "not a tag!"); !errors.Is(err, ErrInvalidLanguage) {
		t.Errorf("SetLanguage() error = %v, want ErrInvalidLanguage", err)
	}
	if err := env.sessions.SetLanguage(ctx, s, "de"); err != nil {
		t.Fatalf("SetLanguage(de) error = %v", err)
	}

	got, err := env.sessions.Resolve(ctx, s.Token)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.HardMode || got.RangeMax != 50 || got.Language != "de" {
		t.Errorf("settings not persisted: %+v", got)
	}
}

func TestSessionTouchExtendsExpiry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	s := env.newSession(t)

	later := time.Now().UTC().Add(100 * 24 * time.Hour)
	env.sessions.now = func() time.Time { return later }
	if err := env.sessions.Touch(ctx, s); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	// Still valid 250 days after creation because of the refresh
	env.sessions.now = func() time.Time { return later.Add(150 * 24 * time.Hour) }
	if _, err := env.sessions.Resolve(ctx, s.Token); err != nil {
		t.Errorf("Resolve() after Touch error = %v", err)
	}
}
