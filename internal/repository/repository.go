package repository

import (
	"context"

	"github.com/allkinds24/allkinds-backend/internal/domain"
)

// Transactor runs fn inside a database transaction. Repositories called with
// the ctx it passes to fn participate in that transaction, so read-check-
// then-write sequences (match getOrCreate + session createOrReuse) stay
// atomic under concurrent requests from both sides of a pair.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// AnswerRepository reads the answer store. Owned by the answering flow;
// strictly read-only here.
type AnswerRepository interface {
	// GetGroupAnswers returns the user's answers restricted to questions of
	// the group, keyed by question id. Skips are excluded. An empty set is a
	// normal outcome, not an error.
	GetGroupAnswers(ctx context.Context, userID, groupID int) (domain.AnswerSet, error)
}

// GroupRepository reads the group directory.
type GroupRepository interface {
	GetOtherActiveMembers(ctx context.Context, groupID, excludingUserID int) ([]int, error)
}

// UserRepository reads the user directory and charges points.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (*domain.User, error)
	// DeductPoints subtracts amount atomically and returns
	// domain.ErrInsufficientPoints when the balance would go negative.
	DeductPoints(ctx context.Context, userID, amount int) error
}
