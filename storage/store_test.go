package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "typerace.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return s
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	u := User{
		ID:        uuid.New(),
		Username:  "alice",
		IsGuest:   true,
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := s.GetUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.ID != u.ID || got.Username != "alice" || !got.IsGuest {
		t.Errorf("unexpected user: %+v", got)
	}
	if !got.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("expected created_at %v, got %v", u.CreatedAt, got.CreatedAt)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetUser(context.Background(), uuid.New()); err != ErrUserNotFound {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestLeaderboard(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	insert := func(username string, wpm, accuracy float64, mode string, at time.Time) {
		t.Helper()
		_, err := s.InsertResult(ctx, GameResult{
			PlayerID:       uuid.New(),
			PlayerUsername: username,
			WordsTyped:     50,
			TotalWords:     50,
			WPM:            wpm,
			Accuracy:       accuracy,
			ElapsedMs:      60000,
			GameMode:       mode,
			CompletedAt:    at,
		})
		if err != nil {
			t.Fatalf("insert result: %v", err)
		}
	}

	// effective wpm: alice 90*100/100=90, bob 100*80/100=80, carol 85*95/100=80.75
	insert("alice", 90, 100, "timed", now)
	insert("bob", 100, 80, "timed", now)
	insert("carol", 85, 95, "word-count", now)
	insert("dave", 120, 99, "timed", now.Add(-40*24*time.Hour))

	t.Run("orders by effective wpm", func(t *testing.T) {
		entries, err := s.Leaderboard(ctx, LeaderboardQuery{PageSize: 10})
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(entries) != 4 {
			t.Fatalf("expected 4 entries, got %d", len(entries))
		}
		if entries[0].PlayerUsername != "dave" || entries[1].PlayerUsername != "alice" {
			t.Errorf("unexpected ordering: %v then %v", entries[0].PlayerUsername, entries[1].PlayerUsername)
		}
		if entries[2].PlayerUsername != "carol" || entries[3].PlayerUsername != "bob" {
			t.Errorf("expected carol above bob, got %v then %v", entries[2].PlayerUsername, entries[3].PlayerUsername)
		}
		if entries[0].Rank != 1 || entries[3].Rank != 4 {
			t.Errorf("unexpected ranks: %d..%d", entries[0].Rank, entries[3].Rank)
		}
	})

	t.Run("filters by mode", func(t *testing.T) {
		entries, err := s.Leaderboard(ctx, LeaderboardQuery{GameMode: "word-count", PageSize: 10})
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(entries) != 1 || entries[0].PlayerUsername != "carol" {
			t.Errorf("unexpected mode filter result: %+v", entries)
		}
	})

	t.Run("filters by period", func(t *testing.T) {
		entries, err := s.Leaderboard(ctx, LeaderboardQuery{Since: now.Add(-7 * 24 * time.Hour), PageSize: 10})
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(entries) != 3 {
			t.Errorf("expected 3 recent entries, got %d", len(entries))
		}
		for _, e := range entries {
			if e.PlayerUsername == "dave" {
				t.Error("expected dave excluded by period filter")
			}
		}
	})

	t.Run("paginates with continued ranks", func(t *testing.T) {
		entries, err := s.Leaderboard(ctx, LeaderboardQuery{Page: 2, PageSize: 2})
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries on page 2, got %d", len(entries))
		}
		if entries[0].Rank != 3 {
			t.Errorf("expected rank 3 at top of page 2, got %d", entries[0].Rank)
		}
	})

	t.Run("clamps page size", func(t *testing.T) {
		entries, err := s.Leaderboard(ctx, LeaderboardQuery{PageSize: 5000})
		if err != nil {
			t.Fatalf("leaderboard: %v", err)
		}
		if len(entries) != 4 {
			t.Errorf("expected all 4 entries, got %d", len(entries))
		}
	})
}
