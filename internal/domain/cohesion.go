package domain

// CohesionResult is the similarity between two answer sets over their common
// questions. Ephemeral: recomputed on demand, never persisted.
type CohesionResult struct {
	Score               float64            `json:"score"`
	CommonQuestionCount int                `json:"common_question_count"`
	CategoryScores      map[string]float64 `json:"category_scores"`
	CategoryCounts      map[string]int     `json:"category_counts"`
}

// MatchCandidate is a scored partner suggestion. Not persisted until the
// requester confirms it.
type MatchCandidate struct {
	CandidateUserID int            `json:"candidate_user_id"`
	Cohesion        CohesionResult `json:"cohesion"`
}
