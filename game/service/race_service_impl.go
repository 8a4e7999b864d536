package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"typerace/auth"
	"typerace/game/room"
	"typerace/game/typing"
	"typerace/game/words"
	"typerace/storage"
)

// Validation errors surfaced to API callers.
var (
	ErrGuestNotAllowed = errors.New("guests cannot submit results")
	ErrInvalidGameMode = errors.New("invalid game mode")
	ErrInvalidPeriod   = errors.New("invalid leaderboard period")
	ErrInvalidResult   = errors.New("invalid result values")
)

// recordableModes are the solo modes whose results count toward the
// leaderboard. Zen has no score and multiplayer races are never persisted.
var recordableModes = map[typing.Mode]bool{
	typing.ModeTimed:        true,
	typing.ModeWordCount:    true,
	typing.ModeInstantDeath: true,
}

// raceServiceImpl implements the RaceService interface.
type raceServiceImpl struct {
	registry *room.Registry
	store    *storage.Store
	tokens   *auth.Manager
}

// NewRaceService creates a new race service instance.
func NewRaceService(registry *room.Registry, store *storage.Store, tokens *auth.Manager) RaceService {
	return &raceServiceImpl{
		registry: registry,
		store:    store,
		tokens:   tokens,
	}
}

// CreateGuest mints a guest account, persists it and signs its token.
func (s *raceServiceImpl) CreateGuest(ctx context.Context, username string) (*GuestSession, error) {
	ident := auth.NewGuestIdentity(username)

	user := storage.User{
		ID:        ident.ID,
		Username:  ident.Username,
		IsGuest:   true,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}

	token, err := s.tokens.Generate(ident)
	if err != nil {
		return nil, fmt.Errorf("sign guest token: %w", err)
	}

	return &GuestSession{Token: token, User: user}, nil
}

// GetUser loads a stored account.
func (s *raceServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRooms returns summaries of every live room.
func (s *raceServiceImpl) ListRooms(ctx context.Context) ([]RoomInfo, error) {
	rooms := s.registry.List()
	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		info := RoomInfo{
			Code:         r.Code,
			Status:       string(r.Status),
			HostUsername: r.Host.Username,
			CreatedAt:    r.CreatedAt,
		}
		if r.Guest != nil {
			info.GuestUsername = r.Guest.Username
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// SubmitResult validates and stores a solo race outcome for a registered
// player.
func (s *raceServiceImpl) SubmitResult(ctx context.Context, ident auth.Identity, sub ResultSubmission) (*storage.GameResult, error) {
	if ident.IsGuest {
		return nil, ErrGuestNotAllowed
	}
	if !recordableModes[typing.Mode(sub.GameMode)] {
		return nil, ErrInvalidGameMode
	}
	if sub.WordsTyped < 0 || sub.TotalWords <= 0 || sub.Errors < 0 ||
		sub.WPM < 0 || sub.Accuracy < 0 || sub.Accuracy > 100 || sub.ElapsedMs < 0 {
		return nil, ErrInvalidResult
	}

	result := storage.GameResult{
		PlayerID:       ident.ID,
		PlayerUsername: ident.Username,
		WordsTyped:     sub.WordsTyped,
		TotalWords:     sub.TotalWords,
		Errors:         sub.Errors,
		WPM:            sub.WPM,
		Accuracy:       sub.Accuracy,
		ElapsedMs:      sub.ElapsedMs,
		IsWinner:       true,
		GameMode:       sub.GameMode,
		CompletedAt:    time.Now().UTC(),
	}
	id, err := s.store.InsertResult(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("store result: %w", err)
	}
	result.ID = id
	return &result, nil
}

// Leaderboard resolves the period window and queries ranked results.
func (s *raceServiceImpl) Leaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardPage, error) {
	since, err := periodSince(q.Period, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if q.GameMode != "" && !recordableModes[typing.Mode(q.GameMode)] {
		return nil, ErrInvalidGameMode
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}

	entries, err := s.store.Leaderboard(ctx, storage.LeaderboardQuery{
		GameMode: q.GameMode,
		Since:    since,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	if entries == nil {
		entries = []storage.LeaderboardEntry{}
	}
	return &LeaderboardPage{
		Entries:  entries,
		Page:     q.Page,
		PageSize: q.PageSize,
		GameMode: q.GameMode,
		Period:   q.Period,
	}, nil
}

// GenerateWords returns a fresh practice word list.
func (s *raceServiceImpl) GenerateWords(ctx context.Context, count int) ([]string, error) {
	if count <= 0 {
		count = words.RaceWordCount
	}
	return words.Generate(count), nil
}

func periodSince(period string, now time.Time) (time.Time, error) {
	switch period {
	case "", "all", "all-time":
		return time.Time{}, nil
	case "daily":
		return now.Add(-24 * time.Hour), nil
	case "weekly":
		return now.Add(-7 * 24 * time.Hour), nil
	case "monthly":
		return now.Add(-30 * 24 * time.Hour), nil
	default:
		return time.Time{}, ErrInvalidPeriod
	}
}
