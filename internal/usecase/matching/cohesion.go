package matching

import (
	"math"
	"sort"

	"github.com/allkinds24/allkinds-backend/internal/domain"
)

// OtherCategory collects questions without a category label, and absorbs
// folded categories in bounded summaries.
const OtherCategory = "Other"

// Score computes the cohesion between two answer sets over their common
// questions. Pure: no I/O, symmetric in its arguments.
//
// Each common question contributes a disagreement penalty of
// |valueA - valueB| / 4 (4 is the widest span on the 5-point scale); the
// score is 1 minus the average penalty. A zero value marks a skipped
// question and is ignored on either side, so callers need not pre-filter.
// No common questions means score 0 with zero counts, which is a
// first-class outcome.
func Score(a, b domain.AnswerSet) domain.CohesionResult {
	result := domain.CohesionResult{
		CategoryScores: make(map[string]float64),
		CategoryCounts: make(map[string]int),
	}

	var totalPenalty float64
	categoryPenalty := make(map[string]float64)

	for questionID, answer := range a {
		other, ok := b[questionID]
		if !ok {
			continue
		}
		if answer.Value == 0 || other.Value == 0 {
			continue
		}

		penalty := math.Abs(float64(answer.Value-other.Value)) / float64(domain.MaxAnswerSpan)
		totalPenalty += penalty
		result.CommonQuestionCount++

		category := answer.Category
		if category == "" {
			category = OtherCategory
		}
		categoryPenalty[category] += penalty
		result.CategoryCounts[category]++
	}

	if result.CommonQuestionCount == 0 {
		return result
	}

	result.Score = 1.0 - totalPenalty/float64(result.CommonQuestionCount)
	for category, penalty := range categoryPenalty {
		result.CategoryScores[category] = 1.0 - penalty/float64(result.CategoryCounts[category])
	}
	return result
}

// FoldTopCategories bounds the category breakdown to the topN categories by
// question count. The remainder is never dropped: it is recomputed as a
// single Other bucket over the union of the folded categories. Ties on count
// break by category name so the summary is stable.
func FoldTopCategories(result domain.CohesionResult, topN int) domain.CohesionResult {
	if topN <= 0 || len(result.CategoryCounts) <= topN {
		return result
	}

	names := make([]string, 0, len(result.CategoryCounts))
	for name := range result.CategoryCounts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if result.CategoryCounts[names[i]] != result.CategoryCounts[names[j]] {
			return result.CategoryCounts[names[i]] > result.CategoryCounts[names[j]]
		}
		return names[i] < names[j]
	})

	folded := domain.CohesionResult{
		Score:               result.Score,
		CommonQuestionCount: result.CommonQuestionCount,
		CategoryScores:      make(map[string]float64, topN+1),
		CategoryCounts:      make(map[string]int, topN+1),
	}

	// A category's total penalty is recoverable from its score and count, so
	// the folded bucket's score is exact, not an average of averages.
	var otherPenalty float64
	var otherCount int
	for i, name := range names {
		if i < topN && name != OtherCategory {
			folded.CategoryScores[name] = result.CategoryScores[name]
			folded.CategoryCounts[name] = result.CategoryCounts[name]
			continue
		}
		otherPenalty += (1.0 - result.CategoryScores[name]) * float64(result.CategoryCounts[name])
		otherCount += result.CategoryCounts[name]
	}

	if otherCount > 0 {
		folded.CategoryScores[OtherCategory] = 1.0 - otherPenalty/float64(otherCount)
		folded.CategoryCounts[OtherCategory] = otherCount
	}
	return folded
}
