package usecase

import (
	"cmp"
	"slices"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/metrics"
)

// Bucket thresholds
const (
	exactMinRatio      = 0.8
	oneMissingMinRatio = 0.6
	otherMinRatio      = 0.4
	otherMaxMissing    = 3
)

// Bucket names, as used for metrics labels
const (
	BucketExact      = "exact"
	BucketOneMissing = "one_missing"
	BucketOther      = "other"
	BucketDropped    = "dropped"
)

// Classify returns the bucket a scored recipe belongs to. Rules are checked
// in order and the first match wins; BucketDropped means no rule matched.
func Classify(m domain.MatchMetrics) string {
	switch {
	case m.MissingCount == 0 && m.MatchRatio >= exactMinRatio:
		return BucketExact
	case m.MissingCount == 1 && m.MatchRatio >= oneMissingMinRatio:
		return BucketOneMissing
	case m.MissingCount <= otherMaxMissing && m.MatchRatio >= otherMinRatio:
		return BucketOther
	default:
		return BucketDropped
	}
}

// CategorizeRecipes splits a scored batch into three disjoint, sorted buckets.
// Summary.TotalRecipes is len(recipes), dropped recipes included.
func CategorizeRecipes(recipes []domain.ScoredRecipe) *domain.CategorizedResult {
	result := &domain.CategorizedResult{
		ExactMatches: make([]domain.ScoredRecipe, 0),
		OneMissing:   make([]domain.ScoredRecipe, 0),
		OtherMatches: make([]domain.ScoredRecipe, 0),
	}

	for _, recipe := range recipes {
		bucket := Classify(recipe.MatchMetrics)
		metrics.RecipesCategorized.WithLabelValues(bucket).Inc()

		switch bucket {
		case BucketExact:
			result.ExactMatches = append(result.ExactMatches, recipe)
		case BucketOneMissing:
			result.OneMissing = append(result.OneMissing, recipe)
		case BucketOther:
			result.OtherMatches = append(result.OtherMatches, recipe)
		}
	}

	// exact: ratio desc, then likes desc
	slices.SortStableFunc(result.ExactMatches, func(a, b domain.ScoredRecipe) int {
		if c := cmp.Compare(b.MatchMetrics.MatchRatio, a.MatchMetrics.MatchRatio); c != 0 {
			return c
		}
		return cmp.Compare(b.Likes, a.Likes)
	})

	// one missing: ratio desc, then missing count asc. Every entry here has
	// MissingCount == 1, so the second key never decides an order.
	slices.SortStableFunc(result.OneMissing, func(a, b domain.ScoredRecipe) int {
		if c := cmp.Compare(b.MatchMetrics.MatchRatio, a.MatchMetrics.MatchRatio); c != 0 {
			return c
		}
		return cmp.Compare(a.MatchMetrics.MissingCount, b.MatchMetrics.MissingCount)
	})

	// other: score desc
	slices.SortStableFunc(result.OtherMatches, func(a, b domain.ScoredRecipe) int {
		return cmp.Compare(b.MatchMetrics.Score, a.MatchMetrics.Score)
	})

	result.Summary = domain.CategorySummary{
		ExactMatches: len(result.ExactMatches),
		OneMissing:   len(result.OneMissing),
		OtherMatches: len(result.OtherMatches),
		TotalRecipes: len(recipes),
	}

	return result
}
