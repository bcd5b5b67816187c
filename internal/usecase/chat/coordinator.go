package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Coordinator owns the chat session lifecycle. Sessions are the rendezvous
// between the two bot processes: every operation here is resumable purely
// from the persisted row, never from process memory.
type Coordinator struct {
	sessionRepo repository.ChatSessionRepository
	messageRepo repository.ChatMessageRepository
	events      domain.EventPublisher
	logger      *zap.Logger
}

func NewCoordinator(
	sessionRepo repository.ChatSessionRepository,
	messageRepo repository.ChatMessageRepository,
	events domain.EventPublisher,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		events:      events,
		logger:      logger,
	}
}

// CreateOrReuseSession returns the pair's active session if one exists,
// reuses a pending one (a handoff may be mid-flight), and only then creates
// a fresh pending session with a new token. Run it inside the caller's
// transaction when paired with ledger writes.
func (c *Coordinator) CreateOrReuseSession(ctx context.Context, initiatorID, recipientID int, matchID *int) (*domain.ChatSession, error) {
	for _, status := range []domain.SessionStatus{domain.SessionActive, domain.SessionPending} {
		session, err := c.sessionRepo.GetByUsersAndStatus(ctx, initiatorID, recipientID, status)
		if err == nil {
			return session, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("look up %s session: %w", status, err)
		}
	}

	session := &domain.ChatSession{
		SessionID:   uuid.NewString(),
		InitiatorID: initiatorID,
		RecipientID: recipientID,
		MatchID:     matchID,
		Status:      domain.SessionPending,
	}
	if err := c.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.logger.Info("chat session created",
		zap.String("session_id", session.SessionID),
		zap.Int("initiator_id", initiatorID),
		zap.Int("recipient_id", recipientID),
	)
	return session, nil
}

// ResolveHandoffToken binds a user to the session behind a handoff token.
// First resolver moves pending to active; the second resolver finds it
// already active and binds as a no-op, so racing links from both
// participants land on the same session. An ended session reads as expired,
// distinct from an unknown token.
func (c *Coordinator) ResolveHandoffToken(ctx context.Context, token string, userID int) (*domain.ChatSession, error) {
	session, err := c.sessionRepo.GetBySessionID(ctx, token)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}

	switch session.Status {
	case domain.SessionEnded:
		return nil, domain.ErrSessionExpired
	case domain.SessionActive:
		return session, nil
	}

	if !session.Status.CanTransitionTo(domain.SessionActive) {
		return nil, domain.ErrInvalidTransition
	}
	// Guarded write: the row must still be pending. The other process may have
	// ended the session between our read and this write; a stale read must not
	// resurrect it.
	applied, err := c.sessionRepo.UpdateStatusFrom(ctx, session.ID, domain.SessionPending, domain.SessionActive, nil)
	if err != nil {
		return nil, fmt.Errorf("activate session: %w", err)
	}
	if !applied {
		current, err := c.sessionRepo.GetBySessionID(ctx, token)
		if err != nil {
			return nil, err
		}
		switch current.Status {
		case domain.SessionActive:
			return current, nil
		case domain.SessionEnded:
			return nil, domain.ErrSessionExpired
		}
		return nil, domain.ErrInvalidTransition
	}
	session.Status = domain.SessionActive

	c.events.Publish(domain.ChatSessionStarted{
		EventBase:   domain.EventBase{At: time.Now().UTC()},
		SessionID:   session.SessionID,
		InitiatorID: session.InitiatorID,
		RecipientID: session.RecipientID,
		ResolvedBy:  userID,
	})
	return session, nil
}

// ListSessions returns the user's active chats with unread counts for the
// chat-selection menu.
func (c *Coordinator) ListSessions(ctx context.Context, userID int) ([]domain.SessionSummary, error) {
	sessions, err := c.sessionRepo.GetActiveForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for _, session := range sessions {
		partner, _ := session.Partner(userID)
		unread, err := c.messageRepo.CountUnread(ctx, session.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("count unread for session %d: %w", session.ID, err)
		}
		summaries = append(summaries, domain.SessionSummary{
			Session:     *session,
			PartnerID:   partner,
			UnreadCount: unread,
		})
	}
	return summaries, nil
}
