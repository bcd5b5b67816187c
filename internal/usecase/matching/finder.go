package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/allkinds24/allkinds-backend/internal/repository"
)

// Finder scans a group for the best-scoring partner. It is a pure
// read-and-compute query: point deduction and ledger writes belong to the
// caller, which sequences them after a candidate is confirmed.
type Finder struct {
	answerRepo repository.AnswerRepository
	groupRepo  repository.GroupRepository
	minShared  int
}

func NewFinder(
	answerRepo repository.AnswerRepository,
	groupRepo repository.GroupRepository,
	minShared int,
) *Finder {
	return &Finder{
		answerRepo: answerRepo,
		groupRepo:  groupRepo,
		minShared:  minShared,
	}
}

// FindBestMatch returns the highest-scoring candidate sharing at least the
// minimum number of answered questions, or nil when nobody qualifies.
// Candidates are visited in ascending user-id order, and a strictly greater
// score is required to displace the current best, so equal scores resolve to
// the lowest candidate id.
func (f *Finder) FindBestMatch(ctx context.Context, userID, groupID int) (*domain.MatchCandidate, error) {
	answers, err := f.answerRepo.GetGroupAnswers(ctx, userID, groupID)
	if err != nil {
		return nil, fmt.Errorf("load requester answers: %w", err)
	}
	if len(answers) == 0 {
		return nil, nil
	}

	members, err := f.groupRepo.GetOtherActiveMembers(ctx, groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("load group members: %w", err)
	}
	sort.Ints(members)

	var best *domain.MatchCandidate
	for _, candidateID := range members {
		candidateAnswers, err := f.answerRepo.GetGroupAnswers(ctx, candidateID, groupID)
		if err != nil {
			return nil, fmt.Errorf("load answers for candidate %d: %w", candidateID, err)
		}

		result := Score(answers, candidateAnswers)
		// Hard floor: too few shared answers makes the score untrustworthy.
		if result.CommonQuestionCount < f.minShared {
			continue
		}

		if best == nil || result.Score > best.Cohesion.Score {
			best = &domain.MatchCandidate{
				CandidateUserID: candidateID,
				Cohesion:        result,
			}
		}
	}

	return best, nil
}

// PairScore reports the cohesion between two specific users in a group.
// Below the shared-question floor it reports a zero result rather than a
// partial score.
func (f *Finder) PairScore(ctx context.Context, userA, userB, groupID int) (domain.CohesionResult, error) {
	zero := domain.CohesionResult{
		CategoryScores: map[string]float64{},
		CategoryCounts: map[string]int{},
	}

	answersA, err := f.answerRepo.GetGroupAnswers(ctx, userA, groupID)
	if err != nil {
		return zero, fmt.Errorf("load answers for user %d: %w", userA, err)
	}
	answersB, err := f.answerRepo.GetGroupAnswers(ctx, userB, groupID)
	if err != nil {
		return zero, fmt.Errorf("load answers for user %d: %w", userB, err)
	}

	result := Score(answersA, answersB)
	if result.CommonQuestionCount < f.minShared {
		return zero, nil
	}
	return result, nil
}
