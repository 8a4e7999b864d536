package service

import (
	"context"

	"github.com/google/uuid"

	"typerace/auth"
	"typerace/storage"
)

// RaceService defines the operations shared by the REST API and MCP layers.
type RaceService interface {
	// Accounts
	CreateGuest(ctx context.Context, username string) (*GuestSession, error)
	GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error)

	// Rooms
	ListRooms(ctx context.Context) ([]RoomInfo, error)

	// Results and rankings
	SubmitResult(ctx context.Context, ident auth.Identity, sub ResultSubmission) (*storage.GameResult, error)
	Leaderboard(ctx context.Context, q LeaderboardQuery) (*LeaderboardPage, error)

	// Practice material
	GenerateWords(ctx context.Context, count int) ([]string, error)
}
