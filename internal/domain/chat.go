package domain

import "time"

// SessionStatus is the chat session lifecycle state.
type SessionStatus string

const (
	SessionPending SessionStatus = "pending"
	SessionActive  SessionStatus = "active"
	SessionEnded   SessionStatus = "ended"
)

// sessionTransitions is the table of valid status changes. Nothing leaves
// ended; pending may end directly (abandoned handoff).
var sessionTransitions = map[SessionStatus][]SessionStatus{
	SessionPending: {SessionActive, SessionEnded},
	SessionActive:  {SessionEnded},
	SessionEnded:   {},
}

func (s SessionStatus) CanTransitionTo(next SessionStatus) bool {
	for _, allowed := range sessionTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ChatSession is the durable rendezvous between the two bot processes. The
// SessionID token is the only artifact carried across the process boundary.
type ChatSession struct {
	ID           int           `json:"id" db:"id"`
	SessionID    string        `json:"session_id" db:"session_id"`
	InitiatorID  int           `json:"initiator_id" db:"initiator_id"`
	RecipientID  int           `json:"recipient_id" db:"recipient_id"`
	MatchID      *int          `json:"match_id" db:"match_id"`
	Status       SessionStatus `json:"status" db:"status"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	EndedAt      *time.Time    `json:"ended_at" db:"ended_at"`
	LastActivity time.Time     `json:"last_activity" db:"last_activity"`
}

func (s *ChatSession) HasParticipant(userID int) bool {
	return s.InitiatorID == userID || s.RecipientID == userID
}

// Partner returns the counterpart of the given participant.
func (s *ChatSession) Partner(userID int) (int, bool) {
	if s.InitiatorID == userID {
		return s.RecipientID, true
	}
	if s.RecipientID == userID {
		return s.InitiatorID, true
	}
	return 0, false
}

// Message content types accepted by the relay.
const (
	ContentTypeText     = "text"
	ContentTypePhoto    = "photo"
	ContentTypeDocument = "document"
	ContentTypeSticker  = "sticker"
	ContentTypeVoice    = "voice"
)

// ChatMessage is an append-only relay record; only ReadAt is ever updated.
type ChatMessage struct {
	ID          int        `json:"id" db:"id"`
	SessionID   int        `json:"session_id" db:"chat_session_id"`
	SenderID    int        `json:"sender_id" db:"sender_id"`
	ContentType string     `json:"content_type" db:"content_type"`
	TextContent *string    `json:"text_content" db:"text_content"`
	FileID      *string    `json:"file_id" db:"file_id"`
	ReadAt      *time.Time `json:"read_at" db:"read_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// BlockedUser is a one-directional block consulted by the relay.
type BlockedUser struct {
	BlockerID int       `json:"blocker_id" db:"blocker_id"`
	BlockedID int       `json:"blocked_id" db:"blocked_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionSummary lists an active chat with its unread message count, for the
// communicator's chat-selection menu.
type SessionSummary struct {
	Session     ChatSession `json:"session"`
	PartnerID   int         `json:"partner_id"`
	UnreadCount int         `json:"unread_count"`
}
