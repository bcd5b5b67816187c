package domain

import "time"

// Match is an immutable ledger row recording a confirmed pairing.
// The (User1ID, User2ID) pair is stored normalized: User1ID < User2ID.
type Match struct {
	ID              int       `json:"id" db:"id"`
	User1ID         int       `json:"user1_id" db:"user1_id"`
	User2ID         int       `json:"user2_id" db:"user2_id"`
	GroupID         int       `json:"group_id" db:"group_id"`
	Score           float64   `json:"score" db:"score"`
	CommonQuestions int       `json:"common_questions" db:"common_questions"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

func (m *Match) HasUser(userID int) bool {
	return m.User1ID == userID || m.User2ID == userID
}

func (m *Match) GetOtherUserID(userID int) (int, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return 0, false
}

// NormalizePair orders a user pair by smaller id first so that pair-keyed
// lookups and unique constraints behave the same regardless of call order.
func NormalizePair(userA, userB int) (int, int) {
	if userA > userB {
		return userB, userA
	}
	return userA, userB
}
