package repository

import (
	"context"

	"github.com/allkinds24/allkinds-backend/internal/domain"
)

// MatchRepository is the append-only match ledger.
type MatchRepository interface {
	// GetOrCreate inserts the match for its normalized pair, or returns the
	// existing row unchanged if one exists. Concurrent duplicate creation
	// resolves to reuse, never an error.
	GetOrCreate(ctx context.Context, match *domain.Match) (*domain.Match, error)
	GetByID(ctx context.Context, id int) (*domain.Match, error)
	GetByUsers(ctx context.Context, user1ID, user2ID int) (*domain.Match, error)
	GetMatchesForUser(ctx context.Context, userID int) ([]*domain.Match, error)
}
