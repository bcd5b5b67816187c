package matching

import (
	"testing"

	"github.com/allkinds24/allkinds-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func answerSet(values map[int]int, categories map[int]string) domain.AnswerSet {
	set := make(domain.AnswerSet, len(values))
	for questionID, value := range values {
		set[questionID] = domain.Answer{
			QuestionID: questionID,
			Value:      value,
			Category:   categories[questionID],
		}
	}
	return set
}

func TestScore_NoCommonQuestions(t *testing.T) {
	a := answerSet(map[int]int{1: 2, 2: -1}, nil)
	b := answerSet(map[int]int{3: 2, 4: -1}, nil)

	result := Score(a, b)

	assert.Equal(t, 0.0, result.Score)
	assert.Equal(t, 0, result.CommonQuestionCount)
	assert.Empty(t, result.CategoryScores)
}

func TestScore_IdenticalAnswers(t *testing.T) {
	values := map[int]int{1: 2, 2: -2, 3: 2, 4: 1}
	a := answerSet(values, nil)
	b := answerSet(values, nil)

	result := Score(a, b)

	assert.Equal(t, 1.0, result.Score)
	assert.Equal(t, 4, result.CommonQuestionCount)
}

func TestScore_Symmetric(t *testing.T) {
	a := answerSet(map[int]int{1: 2, 2: -1, 3: 1}, nil)
	b := answerSet(map[int]int{1: -2, 2: 1, 3: 1, 4: 2}, nil)

	ab := Score(a, b)
	ba := Score(b, a)

	assert.Equal(t, ab.Score, ba.Score)
	assert.Equal(t, ab.CommonQuestionCount, ba.CommonQuestionCount)
}

func TestScore_SkippedQuestionsIgnored(t *testing.T) {
	// A zero on either side is a skip, not an opinion: the question neither
	// scores nor counts as common.
	a := answerSet(map[int]int{1: 1, 2: 0, 3: 2, 4: 1}, nil)
	b := answerSet(map[int]int{1: 1, 2: 2, 3: 0, 4: 1}, nil)

	result := Score(a, b)

	assert.Equal(t, 2, result.CommonQuestionCount)
	assert.Equal(t, 1.0, result.Score)
}

func TestScore_PartialDisagreement(t *testing.T) {
	// Four identical answers plus one fully opposed (-2 vs 2): the opposed
	// question contributes a penalty of 1, so the score is 1 - 1/5 = 0.8.
	a := answerSet(map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: -2}, nil)
	b := answerSet(map[int]int{1: 1, 2: 1, 3: 1, 4: 1, 5: 2}, nil)

	result := Score(a, b)

	assert.InDelta(t, 0.8, result.Score, 1e-9)
	assert.Equal(t, 5, result.CommonQuestionCount)
}

func TestScore_CategoryCountsSumToCommon(t *testing.T) {
	categories := map[int]string{1: "Values", 2: "Values", 3: "Humor", 5: ""}
	a := answerSet(map[int]int{1: 2, 2: 1, 3: -1, 5: 1}, categories)
	b := answerSet(map[int]int{1: 1, 2: 1, 3: 1, 5: -1}, categories)

	result := Score(a, b)

	total := 0
	for _, count := range result.CategoryCounts {
		total += count
	}
	assert.Equal(t, result.CommonQuestionCount, total)
	// Unlabeled questions land in Other.
	assert.Equal(t, 1, result.CategoryCounts[OtherCategory])
	assert.Equal(t, 2, result.CategoryCounts["Values"])
}

func TestFoldTopCategories_UnderLimitUnchanged(t *testing.T) {
	result := domain.CohesionResult{
		Score:               0.9,
		CommonQuestionCount: 4,
		CategoryScores:      map[string]float64{"Values": 0.9, "Humor": 0.9},
		CategoryCounts:      map[string]int{"Values": 2, "Humor": 2},
	}

	folded := FoldTopCategories(result, 4)

	assert.Equal(t, result, folded)
}

func TestFoldTopCategories_FoldsTailExactly(t *testing.T) {
	// Three categories, top 2 kept. The tail category (1 question, score 0.5)
	// carries a penalty of 0.5 which the Other bucket must recover exactly.
	result := domain.CohesionResult{
		Score:               0.85,
		CommonQuestionCount: 6,
		CategoryScores:      map[string]float64{"Values": 1.0, "Humor": 0.75, "Food": 0.5},
		CategoryCounts:      map[string]int{"Values": 3, "Humor": 2, "Food": 1},
	}

	folded := FoldTopCategories(result, 2)

	require.Len(t, folded.CategoryScores, 3)
	assert.Equal(t, 1.0, folded.CategoryScores["Values"])
	assert.Equal(t, 0.75, folded.CategoryScores["Humor"])
	assert.InDelta(t, 0.5, folded.CategoryScores[OtherCategory], 1e-9)
	assert.Equal(t, 1, folded.CategoryCounts[OtherCategory])
	// Overall score and common count survive the fold untouched.
	assert.Equal(t, result.Score, folded.Score)
	assert.Equal(t, result.CommonQuestionCount, folded.CommonQuestionCount)
}

func TestFoldTopCategories_MergesIntoExistingOther(t *testing.T) {
	result := domain.CohesionResult{
		Score:               0.8,
		CommonQuestionCount: 4,
		CategoryScores:      map[string]float64{"Values": 1.0, "Humor": 0.5, OtherCategory: 0.75},
		CategoryCounts:      map[string]int{"Values": 2, "Humor": 1, OtherCategory: 1},
	}

	folded := FoldTopCategories(result, 1)

	require.Len(t, folded.CategoryCounts, 2)
	assert.Equal(t, 2, folded.CategoryCounts["Values"])
	assert.Equal(t, 2, folded.CategoryCounts[OtherCategory])
	// Penalty 0.5 from Humor plus 0.25 from the old Other over 2 questions.
	assert.InDelta(t, 0.625, folded.CategoryScores[OtherCategory], 1e-9)
}
