package database

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"guessgame/migrations"
)

func openMigrated(t *testing.T) *DB {
	t.Helper()

	db, err := Initialize(filepath.Join(t.TempDir(), "integration.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(context.Background(), migrations.FS); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func insertSession(t *testing.T, ctx context.Context, q DBTX, hash string) int64 {
	t.Helper()
	now := time.Now().UTC()
	id, err := q.ExecReturningID(ctx,
		"INSERT INTO sessions (token_hash, range_max, hard_mode, language, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		hash, 20, false, "en", now.Add(time.Hour), now)
	if err != nil {
		t.Fatalf("Failed to insert session: %v", err)
	}
	return id
}

// TestDatabaseIntegration tests the complete database lifecycle
func TestDatabaseIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	tables := []string{"sessions", "games", "results", "migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s not found: %v", table, err)
		}
	}

	// Running again must be a no-op
	if err := db.RunMigrations(ctx, migrations.FS); err != nil {
		t.Fatalf("Second migration run failed: %v", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to count migrations: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 recorded migration, got %d", count)
	}
}

// TestDatabaseTransactions tests commit and rollback through WithTx
func TestDatabaseTransactions(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	err := db.WithTx(ctx, func(tx *Tx) error {
		insertSession(t, ctx, tx, "committed")
		return nil
	})
	if err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int
	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE token_hash = ?", "committed").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after commit: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 session, got %d", count)
	}

	errAbort := errors.New("abort")
	err = db.WithTx(ctx, func(tx *Tx) error {
		insertSession(t, ctx, tx, "rolled-back")
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("WithTx returned %v, want %v", err, errAbort)
	}

	err = db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sessions WHERE token_hash = ?", "rolled-back").Scan(&count)
	if err != nil {
		t.Fatalf("Failed to query after rollback: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 sessions after rollback, got %d", count)
	}
}

func TestUniqueViolationFromSQLite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()

	insertSession(t, ctx, db, "dup")
	now := time.Now().UTC()
	_, err := db.ExecContext(ctx,
		"INSERT INTO sessions (token_hash, range_max, hard_mode, language, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		"dup", 20, false, "en", now, now)
	if err == nil {
		t.Fatal("Expected duplicate token_hash to fail")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}
}

// TestConcurrentAccess tests concurrent writers against one row
func TestConcurrentAccess(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	db := openMigrated(t)
	ctx := context.Background()
	id := insertSession(t, ctx, db, "concurrent")

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := db.ExecContext(ctx, "UPDATE sessions SET range_max = range_max + 1 WHERE id = ?", id); err != nil {
				t.Errorf("Concurrent update failed: %v", err)
			}
		}()
	}
	wg.Wait()

	var rangeMax int
	if err := db.QueryRowContext(ctx, "SELECT range_max FROM sessions WHERE id = ?", id).Scan(&rangeMax); err != nil {
		t.Fatalf("Failed to read back: %v", err)
	}
	if rangeMax != 20+writers {
		t.Errorf("range_max = %d, want %d", rangeMax, 20+writers)
	}
}
