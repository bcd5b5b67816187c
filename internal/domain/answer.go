package domain

// Answer value scale. Zero means "skip" and is excluded from scoring by the
// answering flow, so answers loaded for matching never carry it.
const (
	AnswerMin = -2
	AnswerMax = 2

	// MaxAnswerSpan is the widest possible disagreement on the 5-point scale.
	MaxAnswerSpan = AnswerMax - AnswerMin
)

// Answer is a user's response to a group question. Owned by the answering
// flow; read-only in this service.
type Answer struct {
	UserID     int    `json:"user_id" db:"user_id"`
	QuestionID int    `json:"question_id" db:"question_id"`
	Value      int    `json:"value" db:"value"`
	Category   string `json:"category" db:"category"`
}

// AnswerSet maps question id to the answer a user gave.
type AnswerSet map[int]Answer
