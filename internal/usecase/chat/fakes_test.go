package chat

import (
	"context"
	"time"

	"github.com/allkinds24/allkinds-backend/internal/domain"
)

// In-memory stand-ins for the persistence ports. Not safe for concurrent use;
// the tests drive them sequentially.

type fakeSessionRepo struct {
	sessions []*domain.ChatSession
	nextID   int
}

func (f *fakeSessionRepo) Create(_ context.Context, session *domain.ChatSession) error {
	// Mirrors the open-pair uniqueness of the store: a lost insert race adopts
	// the pair's existing non-ended session.
	for _, s := range f.sessions {
		same := (s.InitiatorID == session.InitiatorID && s.RecipientID == session.RecipientID) ||
			(s.InitiatorID == session.RecipientID && s.RecipientID == session.InitiatorID)
		if same && s.Status != domain.SessionEnded {
			*session = *s
			return nil
		}
	}
	f.nextID++
	session.ID = f.nextID
	session.CreatedAt = time.Now().UTC()
	session.LastActivity = session.CreatedAt
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeSessionRepo) GetBySessionID(_ context.Context, sessionID string) (*domain.ChatSession, error) {
	for _, s := range f.sessions {
		if s.SessionID == sessionID {
			return s, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) GetByUsersAndStatus(_ context.Context, userA, userB int, status domain.SessionStatus) (*domain.ChatSession, error) {
	for _, s := range f.sessions {
		same := (s.InitiatorID == userA && s.RecipientID == userB) ||
			(s.InitiatorID == userB && s.RecipientID == userA)
		if same && s.Status == status {
			return s, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) GetActiveForUser(_ context.Context, userID int) ([]*domain.ChatSession, error) {
	var out []*domain.ChatSession
	for _, s := range f.sessions {
		if s.Status == domain.SessionActive && s.HasParticipant(userID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) UpdateStatus(_ context.Context, id int, status domain.SessionStatus, endedAt *time.Time) error {
	for _, s := range f.sessions {
		if s.ID == id {
			s.Status = status
			if endedAt != nil {
				s.EndedAt = endedAt
			}
			return nil
		}
	}
	return domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) UpdateStatusFrom(_ context.Context, id int, from, to domain.SessionStatus, endedAt *time.Time) (bool, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			if s.Status != from {
				return false, nil
			}
			s.Status = to
			if endedAt != nil {
				s.EndedAt = endedAt
			}
			return true, nil
		}
	}
	return false, domain.ErrSessionNotFound
}

func (f *fakeSessionRepo) TouchActivity(_ context.Context, id int) error {
	for _, s := range f.sessions {
		if s.ID == id {
			s.LastActivity = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrSessionNotFound
}

type fakeMessageRepo struct {
	messages []*domain.ChatMessage
	nextID   int
}

func (f *fakeMessageRepo) Create(_ context.Context, msg *domain.ChatMessage) error {
	f.nextID++
	msg.ID = f.nextID
	msg.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeMessageRepo) ListBySession(_ context.Context, sessionID, limit, beforeID int) ([]*domain.ChatMessage, error) {
	var out []*domain.ChatMessage
	for i := len(f.messages) - 1; i >= 0 && len(out) < limit; i-- {
		msg := f.messages[i]
		if msg.SessionID != sessionID {
			continue
		}
		if beforeID > 0 && msg.ID >= beforeID {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, sessionID, readerID int) error {
	now := time.Now().UTC()
	for _, msg := range f.messages {
		if msg.SessionID == sessionID && msg.SenderID != readerID && msg.ReadAt == nil {
			msg.ReadAt = &now
		}
	}
	return nil
}

func (f *fakeMessageRepo) CountUnread(_ context.Context, sessionID, readerID int) (int, error) {
	count := 0
	for _, msg := range f.messages {
		if msg.SessionID == sessionID && msg.SenderID != readerID && msg.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

type fakeBlockRepo struct {
	blocks map[[2]int]bool
}

func newFakeBlockRepo() *fakeBlockRepo {
	return &fakeBlockRepo{blocks: make(map[[2]int]bool)}
}

func (f *fakeBlockRepo) Block(_ context.Context, blockerID, blockedID int) error {
	f.blocks[[2]int{blockerID, blockedID}] = true
	return nil
}

func (f *fakeBlockRepo) Unblock(_ context.Context, blockerID, blockedID int) error {
	delete(f.blocks, [2]int{blockerID, blockedID})
	return nil
}

func (f *fakeBlockRepo) IsBlockedEither(_ context.Context, userA, userB int) (bool, error) {
	return f.blocks[[2]int{userA, userB}] || f.blocks[[2]int{userB, userA}], nil
}

type fakeUserRepo struct {
	users map[int]*domain.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id int) (*domain.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) DeductPoints(_ context.Context, userID, amount int) error {
	user, ok := f.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if user.Points < amount {
		return domain.ErrInsufficientPoints
	}
	user.Points -= amount
	return nil
}

type fakeDeliverer struct {
	failures  int // fail this many deliveries before succeeding
	delivered []int
}

func (f *fakeDeliverer) Deliver(_ context.Context, userID int, _ string) error {
	if f.failures > 0 {
		f.failures--
		return domain.ErrPartnerUnreachable
	}
	f.delivered = append(f.delivered, userID)
	return nil
}

type fakePublisher struct {
	events []domain.Event
}

func (f *fakePublisher) Publish(event domain.Event) {
	f.events = append(f.events, event)
}

func (f *fakePublisher) topics() []string {
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.EventTopic())
	}
	return out
}
