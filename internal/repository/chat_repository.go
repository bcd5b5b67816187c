package repository

import (
	"context"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
)

// ChatSessionRepository owns the chat session rendezvous rows.
type ChatSessionRepository interface {
	// Create inserts the session, or adopts the pair's existing open session
	// when a concurrent insert won: at most one non-ended session exists per
	// unordered pair, and conflicting creation resolves to reuse.
	Create(ctx context.Context, session *domain.ChatSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.ChatSession, error)
	// GetByUsersAndStatus matches the pair in either direction.
	GetByUsersAndStatus(ctx context.Context, userA, userB int, status domain.SessionStatus) (*domain.ChatSession, error)
	GetActiveForUser(ctx context.Context, userID int) ([]*domain.ChatSession, error)
	UpdateStatus(ctx context.Context, id int, status domain.SessionStatus, endedAt *time.Time) error
	// UpdateStatusFrom applies the transition only if the row still holds the
	// expected status, so a stale in-memory read cannot resurrect an ended
	// session. Returns false when another writer got there first.
	UpdateStatusFrom(ctx context.Context, id int, from, to domain.SessionStatus, endedAt *time.Time) (bool, error)
	TouchActivity(ctx context.Context, id int) error
}

// ChatMessageRepository owns relayed message history.
type ChatMessageRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	// ListBySession pages backwards: beforeID 0 starts from the newest.
	ListBySession(ctx context.Context, sessionID, limit, beforeID int) ([]*domain.ChatMessage, error)
	MarkRead(ctx context.Context, sessionID, readerID int) error
	CountUnread(ctx context.Context, sessionID, readerID int) (int, error)
}

// BlockedUserRepository is the block list consulted before forwarding.
type BlockedUserRepository interface {
	Block(ctx context.Context, blockerID, blockedID int) error
	Unblock(ctx context.Context, blockerID, blockedID int) error
	// IsBlockedEither reports whether either user blocks the other.
	IsBlockedEither(ctx context.Context, userA, userB int) (bool, error)
}

// ProposalStore keeps the pending proposal per requesting user.
type ProposalStore interface {
	Save(ctx context.Context, proposal *domain.MatchProposal, ttl time.Duration) error
	// Get returns domain.ErrProposalNotFound when nothing is pending.
	Get(ctx context.Context, userID int) (*domain.MatchProposal, error)
	Delete(ctx context.Context, userID int) error
}
