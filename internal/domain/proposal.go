package domain

import "time"

// MatchProposal is the explicit state of the propose→confirm flow. It lives
// in the proposal store (keyed by requesting user) so the flow survives a
// process restart; confirmation consumes it, cancellation deletes it.
type MatchProposal struct {
	UserID          int       `json:"user_id"`
	GroupID         int       `json:"group_id"`
	CandidateUserID int       `json:"candidate_user_id"`
	Score           float64   `json:"score"`
	CommonQuestions int       `json:"common_questions"`
	CreatedAt       time.Time `json:"created_at"`
}
