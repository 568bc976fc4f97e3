package usecase

import (
	"context"
	"strings"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Scoring constants
const (
	MaxDisplayedMissing  = 3   // missing ingredients listed per recipe
	missingPenalty       = 5.0 // score points lost per missing ingredient
	exactLengthTolerance = 2   // max length difference for an exact match
	defaultParallelism   = 8
)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MaxParallelScoring int
	EnableDebugLogging bool
}

// MatchingService scores candidate recipes against a user's ingredients and
// sorts them into exact / one-missing / other buckets
type MatchingService struct {
	parallelism        int
	enableDebugLogging bool
}

// NewMatchingService creates a new matching service with the given configuration
func NewMatchingService(config MatchConfig) *MatchingService {
	parallelism := config.MaxParallelScoring
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	return &MatchingService{
		parallelism:        parallelism,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MatchAndCategorize normalizes the user's ingredients, scores every recipe
// and categorizes the batch. A list with no ingredient left after
// normalization is rejected with ErrInvalidIngredients. Recipes are scored concurrently; categorization
// runs once all scores are in.
func (s *MatchingService) MatchAndCategorize(
	ctx context.Context,
	userIngredients []string,
	recipes []domain.RawRecipe,
) (*domain.CategorizedResult, error) {
	normalizedUser := usableIngredientNames(userIngredients)
	if len(normalizedUser) == 0 {
		return nil, domain.ErrInvalidIngredients
	}

	scored := make([]domain.ScoredRecipe, len(recipes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range recipes {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			scored[i] = ScoreRecipe(normalizedUser, &recipes[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if s.enableDebugLogging {
		for _, r := range scored {
			logging.Debug().
				Int64("recipe_id", r.ID).
				Float64("match_ratio", r.MatchMetrics.MatchRatio).
				Int("missing", r.MatchMetrics.MissingCount).
				Float64("score", r.MatchMetrics.Score).
				Msg("[MATCH] scored recipe")
		}
	}

	return CategorizeRecipes(scored), nil
}

// ScoreRecipe annotates a candidate with normalized ingredient names and its
// match metrics. userIngredients must already be normalized.
func ScoreRecipe(userIngredients []string, recipe *domain.RawRecipe) domain.ScoredRecipe {
	annotated := *recipe
	annotated.UsedIngredients = withNormalizedNames(recipe.UsedIngredients)
	annotated.MissedIngredients = withNormalizedNames(recipe.MissedIngredients)
	if annotated.UnusedIngredients == nil {
		annotated.UnusedIngredients = []domain.Ingredient{}
	}

	return domain.ScoredRecipe{
		RawRecipe:    annotated,
		MatchMetrics: CalculateMatchMetrics(userIngredients, recipe),
	}
}

// CalculateMatchMetrics computes matched, exact and missing ingredient sets,
// the match ratio and the weighted score for one recipe.
// userIngredients must already be normalized.
func CalculateMatchMetrics(userIngredients []string, recipe *domain.RawRecipe) domain.MatchMetrics {
	used := normalizedNames(recipe.UsedIngredients)
	missed := normalizedNames(recipe.MissedIngredients)

	matched := make([]string, 0, len(used))
	exact := make([]string, 0, len(used))
	for _, ing := range used {
		if anyUserIngredient(userIngredients, ing, substringMatch) {
			matched = append(matched, ing)
		}
		if anyUserIngredient(userIngredients, ing, exactMatch) {
			exact = append(exact, ing)
		}
	}

	missing := make([]string, 0, len(missed))
	for _, ing := range missed {
		if !anyUserIngredient(userIngredients, ing, substringMatch) {
			missing = append(missing, ing)
		}
	}

	matchRatio := 0.0
	if len(used) > 0 {
		matchRatio = float64(len(matched)) / float64(len(used))
	}

	displayed := missing
	if len(displayed) > MaxDisplayedMissing {
		displayed = displayed[:MaxDisplayedMissing]
	}

	return domain.MatchMetrics{
		MatchedIngredients:   matched,
		ExactMatches:         exact,
		MissingIngredients:   displayed,
		MissingCount:         len(missing),
		MatchRatio:           matchRatio,
		TotalUsedIngredients: len(used),
		MatchedCount:         len(matched),
		Score:                matchRatio*100 - float64(len(missing))*missingPenalty,
	}
}

// substringMatch reports whether either name contains the other
func substringMatch(recipeIng, userIng string) bool {
	return strings.Contains(recipeIng, userIng) || strings.Contains(userIng, recipeIng)
}

// exactMatch requires equality, or a substring relation between names
// whose lengths differ by at most exactLengthTolerance
func exactMatch(recipeIng, userIng string) bool {
	if recipeIng == userIng {
		return true
	}

	lenDiff := len(recipeIng) - len(userIng)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	return lenDiff <= exactLengthTolerance && substringMatch(recipeIng, userIng)
}

func anyUserIngredient(userIngredients []string, recipeIng string, match func(string, string) bool) bool {
	for _, userIng := range userIngredients {
		if match(recipeIng, userIng) {
			return true
		}
	}
	return false
}

func normalizedNames(ingredients []domain.Ingredient) []string {
	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = NormalizeIngredientName(ing.Name)
	}
	return names
}

func withNormalizedNames(ingredients []domain.Ingredient) []domain.Ingredient {
	out := make([]domain.Ingredient, len(ingredients))
	for i, ing := range ingredients {
		ing.Normalized = NormalizeIngredientName(ing.Name)
		out[i] = ing
	}
	return out
}
