package chat

import (
	"context"
	"fmt"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
	"go.uber.org/zap"
)

// Relay forwards messages between the two anonymous participants of a
// session. Messages are persisted before any delivery attempt so history
// survives a partner being offline; repeated delivery failure downgrades the
// session instead of retrying forever.
type Relay struct {
	sessionRepo repository.ChatSessionRepository
	messageRepo repository.ChatMessageRepository
	blockRepo   repository.BlockedUserRepository
	userRepo    repository.UserRepository
	deliverer   domain.Deliverer
	events      domain.EventPublisher
	maxAttempts int
	logger      *zap.Logger
}

func NewRelay(
	sessionRepo repository.ChatSessionRepository,
	messageRepo repository.ChatMessageRepository,
	blockRepo repository.BlockedUserRepository,
	userRepo repository.UserRepository,
	deliverer domain.Deliverer,
	events domain.EventPublisher,
	maxAttempts int,
	logger *zap.Logger,
) *Relay {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Relay{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		blockRepo:   blockRepo,
		userRepo:    userRepo,
		deliverer:   deliverer,
		events:      events,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// SendMessage relays one message to the session's counterpart. A block in
// either direction persists nothing and surfaces as domain.ErrBlocked, which
// handlers present as a generic delivery failure so block status never leaks
// to the sender.
func (r *Relay) SendMessage(ctx context.Context, sessionID string, senderID int, contentType string, textContent, fileID *string) (*domain.ChatMessage, error) {
	session, err := r.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionActive {
		return nil, domain.ErrSessionNotActive
	}

	partnerID, ok := session.Partner(senderID)
	if !ok {
		return nil, domain.ErrNotParticipant
	}

	blocked, err := r.blockRepo.IsBlockedEither(ctx, senderID, partnerID)
	if err != nil {
		return nil, fmt.Errorf("check block list: %w", err)
	}
	if blocked {
		return nil, domain.ErrBlocked
	}

	// Persist first: history must survive a failed live delivery.
	msg := &domain.ChatMessage{
		SessionID:   session.ID,
		SenderID:    senderID,
		ContentType: contentType,
		TextContent: textContent,
		FileID:      fileID,
	}
	if err := r.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}
	if err := r.sessionRepo.TouchActivity(ctx, session.ID); err != nil {
		r.logger.Warn("touch session activity", zap.String("session_id", sessionID), zap.Error(err))
	}

	delivered := false
	content := renderContent(contentType, textContent)
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if err := r.deliverer.Deliver(ctx, partnerID, content); err == nil {
			delivered = true
			break
		} else {
			r.logger.Warn("delivery attempt failed",
				zap.String("session_id", sessionID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
		}
	}

	r.events.Publish(domain.MessageRelayed{
		EventBase:   domain.EventBase{At: time.Now().UTC()},
		SessionID:   sessionID,
		SenderID:    senderID,
		ContentType: contentType,
		Delivered:   delivered,
	})

	if !delivered {
		// Partner is unreachable: downgrade rather than loop. The message is
		// already persisted, so only the live notification is lost.
		if _, err := r.endSession(ctx, session, senderID, "delivery_failed"); err != nil {
			r.logger.Error("downgrade session after failed delivery",
				zap.String("session_id", sessionID), zap.Error(err))
		}
		return msg, domain.ErrPartnerUnreachable
	}
	return msg, nil
}

// RevealIdentity returns the caller's own profile summary, formatted for
// disclosure to the partner. Delivering it is the caller's responsibility;
// session state is untouched.
func (r *Relay) RevealIdentity(ctx context.Context, sessionID string, senderID int) (domain.ProfileSummary, error) {
	session, err := r.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return domain.ProfileSummary{}, err
	}
	if !session.HasParticipant(senderID) {
		return domain.ProfileSummary{}, domain.ErrNotParticipant
	}

	user, err := r.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return domain.ProfileSummary{}, err
	}
	return user.Summary(), nil
}

// EndSession moves the session to ended and reports which partner the caller
// should notify. Ending twice is a no-op, not an error, and the original
// ended_at stands.
func (r *Relay) EndSession(ctx context.Context, sessionID string, requesterID int) (int, error) {
	session, err := r.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	partnerID, ok := session.Partner(requesterID)
	if !ok {
		return 0, domain.ErrNotParticipant
	}
	if session.Status == domain.SessionEnded {
		return partnerID, nil
	}
	return r.endSession(ctx, session, requesterID, "ended_by_user")
}

func (r *Relay) endSession(ctx context.Context, session *domain.ChatSession, endedBy int, reason string) (int, error) {
	if !session.Status.CanTransitionTo(domain.SessionEnded) {
		return 0, domain.ErrInvalidTransition
	}
	now := time.Now().UTC()
	if err := r.sessionRepo.UpdateStatus(ctx, session.ID, domain.SessionEnded, &now); err != nil {
		return 0, fmt.Errorf("end session: %w", err)
	}
	session.Status = domain.SessionEnded
	session.EndedAt = &now

	r.events.Publish(domain.ChatSessionEnded{
		EventBase: domain.EventBase{At: now},
		SessionID: session.SessionID,
		EndedBy:   endedBy,
		Reason:    reason,
	})

	partnerID, _ := session.Partner(endedBy)
	return partnerID, nil
}

// History pages the session's messages newest-first and marks the partner's
// messages as read for the requesting participant.
func (r *Relay) History(ctx context.Context, sessionID string, userID, limit, beforeID int) ([]*domain.ChatMessage, error) {
	session, err := r.sessionRepo.GetBySessionID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.HasParticipant(userID) {
		return nil, domain.ErrNotParticipant
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	messages, err := r.messageRepo.ListBySession(ctx, session.ID, limit, beforeID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if err := r.messageRepo.MarkRead(ctx, session.ID, userID); err != nil {
		r.logger.Warn("mark messages read", zap.String("session_id", sessionID), zap.Error(err))
	}
	return messages, nil
}

// Block and Unblock manage the relay's block list on behalf of the
// communicator front-end.
func (r *Relay) Block(ctx context.Context, blockerID, blockedID int) error {
	return r.blockRepo.Block(ctx, blockerID, blockedID)
}

func (r *Relay) Unblock(ctx context.Context, blockerID, blockedID int) error {
	return r.blockRepo.Unblock(ctx, blockerID, blockedID)
}

func renderContent(contentType string, textContent *string) string {
	if contentType == domain.ContentTypeText && textContent != nil {
		return *textContent
	}
	label := map[string]string{
		domain.ContentTypePhoto:    "[photo]",
		domain.ContentTypeDocument: "[document]",
		domain.ContentTypeSticker:  "[sticker]",
		domain.ContentTypeVoice:    "[voice message]",
	}[contentType]
	if label == "" {
		label = "[message]"
	}
	if textContent != nil && *textContent != "" {
		return label + " " + *textContent
	}
	return label
}
