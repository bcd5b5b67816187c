package domain

import "time"

// Event topics published on the bus. Aggregation is left to external
// collectors subscribing to these.
const (
	TopicMatchProposed  = "match.proposed"
	TopicMatchConfirmed = "match.confirmed"
	TopicSessionStarted = "chat.session.started"
	TopicMessageRelayed = "chat.message.relayed"
	TopicSessionEnded   = "chat.session.ended"
)

// Event is the contract for everything published on the bus.
type Event interface {
	EventTopic() string
	OccurredAt() time.Time
}

type EventBase struct {
	At time.Time `json:"at"`
}

func (e EventBase) OccurredAt() time.Time { return e.At }

type MatchProposed struct {
	EventBase
	UserID          int     `json:"user_id"`
	GroupID         int     `json:"group_id"`
	CandidateUserID int     `json:"candidate_user_id"`
	Score           float64 `json:"score"`
	CommonQuestions int     `json:"common_questions"`
}

func (MatchProposed) EventTopic() string { return TopicMatchProposed }

type MatchConfirmed struct {
	EventBase
	MatchID         int     `json:"match_id"`
	User1ID         int     `json:"user1_id"`
	User2ID         int     `json:"user2_id"`
	GroupID         int     `json:"group_id"`
	Score           float64 `json:"score"`
	PointsCharged   int     `json:"points_charged"`
	ChargedToUserID int     `json:"charged_to_user_id"`
}

func (MatchConfirmed) EventTopic() string { return TopicMatchConfirmed }

type ChatSessionStarted struct {
	EventBase
	SessionID   string `json:"session_id"`
	InitiatorID int    `json:"initiator_id"`
	RecipientID int    `json:"recipient_id"`
	ResolvedBy  int    `json:"resolved_by"`
}

func (ChatSessionStarted) EventTopic() string { return TopicSessionStarted }

type MessageRelayed struct {
	EventBase
	SessionID   string `json:"session_id"`
	SenderID    int    `json:"sender_id"`
	ContentType string `json:"content_type"`
	Delivered   bool   `json:"delivered"`
}

func (MessageRelayed) EventTopic() string { return TopicMessageRelayed }

type ChatSessionEnded struct {
	EventBase
	SessionID string `json:"session_id"`
	EndedBy   int    `json:"ended_by"`
	Reason    string `json:"reason"`
}

func (ChatSessionEnded) EventTopic() string { return TopicSessionEnded }

// EventPublisher decouples the usecases from the bus implementation.
// Publishing is fire-and-forget: observability must never fail an operation.
type EventPublisher interface {
	Publish(event Event)
}
