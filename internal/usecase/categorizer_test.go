package usecase

import (
	"testing"

	"github.com/chefmind/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scored(id int64, ratio float64, missing int, likes int) domain.ScoredRecipe {
	return domain.ScoredRecipe{
		RawRecipe: domain.RawRecipe{ID: id, Likes: likes},
		MatchMetrics: domain.MatchMetrics{
			MatchRatio:   ratio,
			MissingCount: missing,
			Score:        ratio*100 - float64(missing)*5,
		},
	}
}

func ids(recipes []domain.ScoredRecipe) []int64 {
	out := make([]int64, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		ratio   float64
		missing int
		want    string
	}{
		{"exact at threshold", 0.8, 0, BucketExact},
		{"exact full ratio", 1.0, 0, BucketExact},
		{"no missing but low ratio falls to other", 0.5, 0, BucketOther},
		{"one missing at threshold", 0.6, 1, BucketOneMissing},
		{"one missing low ratio falls to other", 0.5, 1, BucketOther},
		{"two missing", 0.9, 2, BucketOther},
		{"three missing at other threshold", 0.4, 3, BucketOther},
		{"four missing dropped", 1.0, 4, BucketDropped},
		{"ratio below other threshold dropped", 0.39, 0, BucketDropped},
		{"zero ratio dropped", 0, 0, BucketDropped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(domain.MatchMetrics{MatchRatio: tt.ratio, MissingCount: tt.missing})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategorizeRecipes(t *testing.T) {
	t.Run("exact sorted by ratio then likes", func(t *testing.T) {
		result := CategorizeRecipes([]domain.ScoredRecipe{
			scored(1, 0.8, 0, 50),
			scored(2, 1.0, 0, 5),
			scored(3, 1.0, 0, 10),
			scored(4, 0.9, 0, 0),
		})

		assert.Equal(t, []int64{3, 2, 4, 1}, ids(result.ExactMatches))
	})

	t.Run("one missing sorted by ratio", func(t *testing.T) {
		result := CategorizeRecipes([]domain.ScoredRecipe{
			scored(1, 0.6, 1, 0),
			scored(2, 1.0, 1, 0),
			scored(3, 0.75, 1, 0),
		})

		assert.Equal(t, []int64{2, 3, 1}, ids(result.OneMissing))
	})

	t.Run("one missing ties keep input order", func(t *testing.T) {
		// The missing-count tie-break never applies inside this bucket.
		result := CategorizeRecipes([]domain.ScoredRecipe{
			scored(1, 0.7, 1, 1),
			scored(2, 0.7, 1, 99),
		})

		assert.Equal(t, []int64{1, 2}, ids(result.OneMissing))
	})

	t.Run("other sorted by score", func(t *testing.T) {
		result := CategorizeRecipes([]domain.ScoredRecipe{
			scored(1, 0.5, 3, 0), // 35
			scored(2, 0.9, 2, 0), // 80
			scored(3, 0.5, 0, 0), // 50
		})

		assert.Equal(t, []int64{2, 3, 1}, ids(result.OtherMatches))
	})

	t.Run("buckets are disjoint and total counts dropped recipes", func(t *testing.T) {
		batch := []domain.ScoredRecipe{
			scored(1, 1.0, 0, 0),
			scored(2, 0.8, 1, 0),
			scored(3, 0.5, 2, 0),
			scored(4, 0.1, 0, 0),
			scored(5, 1.0, 7, 0),
			scored(6, 0.0, 0, 0),
		}

		result := CategorizeRecipes(batch)

		seen := map[int64]int{}
		for _, bucket := range [][]domain.ScoredRecipe{result.ExactMatches, result.OneMissing, result.OtherMatches} {
			for _, r := range bucket {
				seen[r.ID]++
			}
		}
		for id, n := range seen {
			assert.Equal(t, 1, n, "recipe %d appears in %d buckets", id, n)
		}

		require.Equal(t, len(batch), result.Summary.TotalRecipes)
		assert.Equal(t, 1, result.Summary.ExactMatches)
		assert.Equal(t, 1, result.Summary.OneMissing)
		assert.Equal(t, 1, result.Summary.OtherMatches)
		assert.Len(t, seen, 3)
	})
}
