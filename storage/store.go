// Package storage handles SQLite persistence for users and solo game results.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrUserNotFound is returned when a user id has no row.
var ErrUserNotFound = errors.New("user not found")

// User is a registered or guest account.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt time.Time `json:"created_at"`
}

// GameResult is one completed solo race.
type GameResult struct {
	ID             int64     `json:"id"`
	PlayerID       uuid.UUID `json:"player_id"`
	PlayerUsername string    `json:"player_username"`
	WordsTyped     int       `json:"words_typed"`
	TotalWords     int       `json:"total_words"`
	Errors         int       `json:"errors"`
	WPM            float64   `json:"wpm"`
	Accuracy       float64   `json:"accuracy"`
	ElapsedMs      int64     `json:"elapsed_ms"`
	IsWinner       bool      `json:"is_winner"`
	GameMode       string    `json:"game_mode"`
	CompletedAt    time.Time `json:"completed_at"`
}

// LeaderboardEntry is one ranked row. EffectiveWPM is wpm scaled by accuracy,
// the primary ranking key.
type LeaderboardEntry struct {
	Rank           int       `json:"rank"`
	PlayerUsername string    `json:"player_username"`
	WPM            float64   `json:"wpm"`
	Accuracy       float64   `json:"accuracy"`
	EffectiveWPM   float64   `json:"effective_wpm"`
	GameMode       string    `json:"game_mode"`
	CompletedAt    time.Time `json:"completed_at"`
}

// LeaderboardQuery filters and paginates the leaderboard.
type LeaderboardQuery struct {
	GameMode string // empty for all modes
	Since    time.Time
	Page     int
	PageSize int
}

const maxPageSize = 100

// Store wraps SQLite access.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL,
			is_guest INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS game_results (
			id INTEGER PRIMARY KEY,
			player_id TEXT NOT NULL,
			player_username TEXT NOT NULL,
			words_typed INTEGER NOT NULL,
			total_words INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			wpm REAL NOT NULL,
			accuracy REAL NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			is_winner INTEGER NOT NULL,
			game_mode TEXT NOT NULL,
			completed_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_completed_at ON game_results(completed_at);`,
		`CREATE INDEX IF NOT EXISTS idx_game_results_game_mode ON game_results(game_mode);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// CreateUser inserts a new user row.
func (s *Store) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, is_guest, created_at) VALUES (?, ?, ?, ?)`,
		u.ID.String(), u.Username, boolToInt(u.IsGuest), u.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser loads a user by id.
func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, username, is_guest, created_at FROM users WHERE id = ?`, id.String())

	var u User
	var rawID, createdAt string
	var isGuest int
	if err := row.Scan(&rawID, &u.Username, &isGuest, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, err
	}
	parsedID, err := uuid.Parse(rawID)
	if err != nil {
		return User{}, fmt.Errorf("parse user id: %w", err)
	}
	parsedAt, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return User{}, fmt.Errorf("parse created_at: %w", err)
	}
	u.ID = parsedID
	u.IsGuest = isGuest != 0
	u.CreatedAt = parsedAt
	return u, nil
}

// InsertResult stores a completed solo race and returns its row id.
func (s *Store) InsertResult(ctx context.Context, r GameResult) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO game_results (player_id, player_username, words_typed, total_words, errors, wpm, accuracy, elapsed_ms, is_winner, game_mode, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.PlayerID.String(),
		r.PlayerUsername,
		r.WordsTyped,
		r.TotalWords,
		r.Errors,
		r.WPM,
		r.Accuracy,
		r.ElapsedMs,
		boolToInt(r.IsWinner),
		r.GameMode,
		r.CompletedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return 0, fmt.Errorf("insert game result: %w", err)
	}
	return res.LastInsertId()
}

// Leaderboard returns ranked results ordered by effective WPM, then raw WPM,
// then accuracy. Page numbers are 1-based; page size is clamped.
func (s *Store) Leaderboard(ctx context.Context, q LeaderboardQuery) ([]LeaderboardEntry, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}

	clauses := []string{"1=1"}
	args := []any{}
	if q.GameMode != "" {
		clauses = append(clauses, "game_mode = ?")
		args = append(args, q.GameMode)
	}
	if !q.Since.IsZero() {
		clauses = append(clauses, "completed_at >= ?")
		args = append(args, q.Since.UTC().Format(time.RFC3339Nano))
	}

	query := fmt.Sprintf(`SELECT player_username, wpm, accuracy, wpm * accuracy / 100.0 AS effective_wpm, game_mode, completed_at
		FROM game_results
		WHERE %s
		ORDER BY effective_wpm DESC, wpm DESC, accuracy DESC
		LIMIT ? OFFSET ?`, strings.Join(clauses, " AND "))
	offset := (q.Page - 1) * q.PageSize
	args = append(args, q.PageSize, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []LeaderboardEntry
	for rows.Next() {
		var e LeaderboardEntry
		var completedAt string
		if err := rows.Scan(&e.PlayerUsername, &e.WPM, &e.Accuracy, &e.EffectiveWPM, &e.GameMode, &completedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, completedAt)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		e.CompletedAt = parsed
		e.Rank = offset + len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
