package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"guessgame/internal/database"
)

// BackupVersion is written into every export and checked on import
const BackupVersion = "1.0"

// BackupData represents the complete database backup structure
type BackupData struct {
	Version    string          `json:"version"`
	ExportedAt time.Time       `json:"exported_at"`
	Sessions   []SessionBackup `json:"sessions"`
	Games      []GameBackup    `json:"games"`
	Results    []ResultBackup  `json:"results"`
}

// SessionBackup represents a session record for backup. Only the token
// digest is stored, so restored sessions keep working for their cookies.
type SessionBackup struct {
	ID        int64     `json:"id"`
	TokenHash string    `json:"token_hash"`
	RangeMax  int       `json:"range_max"`
	HardMode  bool      `json:"hard_mode"`
	Language  string    `json:"language"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// GameBackup represents a round for backup
type GameBackup struct {
	ID           int64     `json:"id"`
	TokenHash    string    `json:"token_hash"`
	SessionID    int64     `json:"session_id"`
	RangeMax     int       `json:"range_max"`
	HardMode     bool      `json:"hard_mode"`
	SecretNumber int       `json:"secret_number"`
	GuessCount   int       `json:"guess_count"`
	MaxGuesses   int       `json:"max_guesses"`
	IsWon        bool      `json:"is_won"`
	CreatedAt    time.Time `json:"created_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ResultBackup represents a leaderboard entry for backup
type ResultBackup struct {
	ID         int64     `json:"id"`
	GameID     int64     `json:"game_id"`
	PlayerName string    `json:"player_name"`
	GuessCount int       `json:"guess_count"`
	Timestamp  time.Time `json:"timestamp"`
	HardMode   bool      `json:"hard_mode"`
}

// backupTables in dependency order; Clear walks it backwards
var backupTables = []string{"sessions", "games", "results"}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export writes a complete backup of the database to a file
func (s *BackupService) Export(ctx context.Context, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	return s.ExportToWriter(ctx, file)
}

// ExportToWriter writes the backup as indented JSON
func (s *BackupService) ExportToWriter(ctx context.Context, w io.Writer) error {
	backup := &BackupData{
		Version:    BackupVersion,
		ExportedAt: utcNow(),
		Sessions:   []SessionBackup{},
		Games:      []GameBackup{},
		Results:    []ResultBackup{},
	}

	if err := s.exportSessions(ctx, backup); err != nil {
		return fmt.Errorf("failed to export sessions: %w", err)
	}
	if err := s.exportGames(ctx, backup); err != nil {
		return fmt.Errorf("failed to export games: %w", err)
	}
	if err := s.exportResults(ctx, backup); err != nil {
		return fmt.Errorf("failed to export results: %w", err)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Info().
		Int("sessions", len(backup.Sessions)).
		Int("games", len(backup.Games)).
		Int("results", len(backup.Results)).
		Msg("Database exported")
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(ctx context.Context, inputPath string) error {
	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	return s.ImportFromReader(ctx, file)
}

// ImportFromReader restores a backup in one transaction, keeping the original ids
func (s *BackupService) ImportFromReader(ctx context.Context, r io.Reader) error {
	var backup BackupData
	if err := json.NewDecoder(r).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}
	if backup.Version != BackupVersion {
		return fmt.Errorf("unsupported backup version %q", backup.Version)
	}

	log.Info().Str("version", backup.Version).Time("exported_at", backup.ExportedAt).Msg("Importing backup")

	err := s.db.WithTx(ctx, func(tx *database.Tx) error {
		if err := importSessions(ctx, tx, backup.Sessions); err != nil {
			return fmt.Errorf("failed to import sessions: %w", err)
		}
		if err := importGames(ctx, tx, backup.Games); err != nil {
			return fmt.Errorf("failed to import games: %w", err)
		}
		if err := importResults(ctx, tx, backup.Results); err != nil {
			return fmt.Errorf("failed to import results: %w", err)
		}
		for _, table := range backupTables {
			if query := tx.GetDialect().ResetSequenceQuery(table); query != "" {
				if _, err := tx.ExecContext(ctx, query); err != nil {
					return fmt.Errorf("failed to reset %s sequence: %w", table, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Msg("Database import completed")
	return nil
}

// Clear deletes every session, game and result
func (s *BackupService) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *database.Tx) error {
		for i := len(backupTables) - 1; i >= 0; i-- {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+backupTables[i]); err != nil {
				return fmt.Errorf("failed to clear table %s: %w", backupTables[i], err)
			}
		}
		return nil
	})
}

func (s *BackupService) exportSessions(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, token_hash, range_max, hard_mode, language, expires_at, created_at FROM sessions ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b SessionBackup
		if err := rows.Scan(&b.ID, &b.TokenHash, &b.RangeMax, &b.HardMode, &b.Language, &b.ExpiresAt, &b.CreatedAt); err != nil {
			return err
		}
		backup.Sessions = append(backup.Sessions, b)
	}
	return rows.Err()
}

func (s *BackupService) exportGames(ctx context.Context, backup *BackupData) error {
	query := `SELECT id, token_hash, session_id, range_max, hard_mode, secret_number, guess_count, max_guesses, is_won, created_at, expires_at
		FROM games ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b GameBackup
		if err := rows.Scan(&b.ID, &b.TokenHash, &b.SessionID, &b.RangeMax, &b.HardMode, &b.SecretNumber,
			&b.GuessCount, &b.MaxGuesses, &b.IsWon, &b.CreatedAt, &b.ExpiresAt); err != nil {
			return err
		}
		backup.Games = append(backup.Games, b)
	}
	return rows.Err()
}

func (s *BackupService) exportResults(ctx context.Context, backup *BackupData) error {
	query := "SELECT id, game_id, player_name, guess_count, timestamp, hard_mode FROM results ORDER BY id"
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var b ResultBackup
		if err := rows.Scan(&b.ID, &b.GameID, &b.PlayerName, &b.GuessCount, &b.Timestamp, &b.HardMode); err != nil {
			return err
		}
		backup.Results = append(backup.Results, b)
	}
	return rows.Err()
}

func importSessions(ctx context.Context, tx database.DBTX, sessions []SessionBackup) error {
	log.Info().Int("count", len(sessions)).Msg("Importing sessions")
	query := "INSERT INTO sessions (id, token_hash, range_max, hard_mode, language, expires_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)"
	for _, b := range sessions {
		if _, err := tx.ExecContext(ctx, query, b.ID, b.TokenHash, b.RangeMax, b.HardMode, b.Language, b.ExpiresAt.UTC(), b.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("session %d: %w", b.ID, err)
		}
	}
	return nil
}

func importGames(ctx context.Context, tx database.DBTX, games []GameBackup) error {
	log.Info().Int("count", len(games)).Msg("Importing games")
	query := `INSERT INTO games (id, token_hash, session_id, range_max, hard_mode, secret_number, guess_count, max_guesses, is_won, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, b := range games {
		_, err := tx.ExecContext(ctx, query, b.ID, b.TokenHash, b.SessionID, b.RangeMax, b.HardMode, b.SecretNumber,
			b.GuessCount, b.MaxGuesses, b.IsWon, b.CreatedAt.UTC(), b.ExpiresAt.UTC())
		if err != nil {
			return fmt.Errorf("game %d: %w", b.ID, err)
		}
	}
	return nil
}

func importResults(ctx context.Context, tx database.DBTX, results []ResultBackup) error {
	log.Info().Int("count", len(results)).Msg("Importing results")
	query := "INSERT INTO results (id, game_id, player_name, guess_count, timestamp, hard_mode) VALUES (?, ?, ?, ?, ?, ?)"
	for _, b := range results {
		if _, err := tx.ExecContext(ctx, query, b.ID, b.GameID, b.PlayerName, b.GuessCount, b.Timestamp.UTC(), b.HardMode); err != nil {
			return fmt.Errorf("result %d: %w", b.ID, err)
		}
	}
	return nil
}
