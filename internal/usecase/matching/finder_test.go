package matching

import (
	"context"
	"testing"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnswerRepo struct {
	answers map[int]domain.AnswerSet
}

func (f *fakeAnswerRepo) GetGroupAnswers(_ context.Context, userID, _ int) (domain.AnswerSet, error) {
	set, ok := f.answers[userID]
	if !ok {
		return domain.AnswerSet{}, nil
	}
	return set, nil
}

type fakeGroupRepo struct {
	members []int
}

func (f *fakeGroupRepo) GetOtherActiveMembers(_ context.Context, _, excludingUserID int) ([]int, error) {
	out := make([]int, 0, len(f.members))
	for _, id := range f.members {
		if id != excludingUserID {
			out = append(out, id)
		}
	}
	return out, nil
}

func uniformAnswers(questionIDs []int, value int) domain.AnswerSet {
	set := make(domain.AnswerSet, len(questionIDs))
	for _, id := range questionIDs {
		set[id] = domain.Answer{QuestionID: id, Value: value}
	}
	return set
}

func TestFindBestMatch_PicksHighestScore(t *testing.T) {
	answers := &fakeAnswerRepo{answers: map[int]domain.AnswerSet{
		1: uniformAnswers([]int{1, 2, 3, 4}, 1),
		2: uniformAnswers([]int{1, 2, 3, 4}, -1), // disagrees everywhere
		3: uniformAnswers([]int{1, 2, 3, 4}, 1),  // perfect agreement
	}}
	groups := &fakeGroupRepo{members: []int{2, 3}}
	finder := NewFinder(answers, groups, 3)

	candidate, err := finder.FindBestMatch(context.Background(), 1, 10)

	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, 3, candidate.CandidateUserID)
	assert.Equal(t, 1.0, candidate.Cohesion.Score)
	assert.Equal(t, 4, candidate.Cohesion.CommonQuestionCount)
}

func TestFindBestMatch_SharedQuestionFloor(t *testing.T) {
	answers := &fakeAnswerRepo{answers: map[int]domain.AnswerSet{
		1: uniformAnswers([]int{1, 2, 3, 4}, 1),
		// Perfect agreement but only two shared questions: below the floor.
		2: uniformAnswers([]int{1, 2}, 1),
	}}
	groups := &fakeGroupRepo{members: []int{2}}
	finder := NewFinder(answers, groups, 3)

	candidate, err := finder.FindBestMatch(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestFindBestMatch_TieResolvesToLowestID(t *testing.T) {
	shared := uniformAnswers([]int{1, 2, 3}, 2)
	answers := &fakeAnswerRepo{answers: map[int]domain.AnswerSet{
		1: shared,
		7: shared,
		4: shared,
	}}
	// Members arrive unordered; equal scores must still resolve to user 4.
	groups := &fakeGroupRepo{members: []int{7, 4}}
	finder := NewFinder(answers, groups, 3)

	candidate, err := finder.FindBestMatch(context.Background(), 1, 10)

	require.NoError(t, err)
	require.NotNil(t, candidate)
	assert.Equal(t, 4, candidate.CandidateUserID)
}

func TestFindBestMatch_RequesterWithoutAnswers(t *testing.T) {
	answers := &fakeAnswerRepo{answers: map[int]domain.AnswerSet{
		2: uniformAnswers([]int{1, 2, 3}, 1),
	}}
	groups := &fakeGroupRepo{members: []int{2}}
	finder := NewFinder(answers, groups, 3)

	candidate, err := finder.FindBestMatch(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Nil(t, candidate)
}

func TestPairScore_BelowFloorReportsZero(t *testing.T) {
	answers := &fakeAnswerRepo{answers: map[int]domain.AnswerSet{
		1: uniformAnswers([]int{1, 2}, 1),
		2: uniformAnswers([]int{1, 2}, 1),
	}}
	finder := NewFinder(answers, &fakeGroupRepo{}, 3)

	result, err := finder.PairScore(context.Background(), 1, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.CommonQuestionCount)
}

func TestPairScore_AboveFloor(t *testing.T) {
	answers := &fakeAnswerRepo{answers: map[int]domain.AnswerSet{
		1: uniformAnswers([]int{1, 2, 3}, 1),
		2: uniformAnswers([]int{1, 2, 3}, 2),
	}}
	finder := NewFinder(answers, &fakeGroupRepo{}, 3)

	result, err := finder.PairScore(context.Background(), 1, 2, 10)

	require.NoError(t, err)
	assert.InDelta(t, 0.75, result.Score, 1e-9)
	assert.Equal(t, 3, result.CommonQuestionCount)
}
