package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/logging"
)

// Detail lookup sources
const (
	SourceCache    = "cache"
	SourceUpstream = "upstream"
)

const (
	defaultSearchNumber = 15
	maxSearchNumber     = 25
	defaultRanking      = 1
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	DefaultNumber    int
	MaxNumber        int
	IncludeNutrition bool // request nutrition on detail lookups
	Match            MatchConfig
}

// SearchService runs ingredient searches against the recipe provider and
// serves recipe details through the recipe cache
type SearchService struct {
	provider         domain.RecipeProvider
	cache            *RecipeCache
	matchingService  *MatchingService
	defaultNumber    int
	maxNumber        int
	includeNutrition bool
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	provider domain.RecipeProvider,
	cache *RecipeCache,
	config SearchServiceConfig,
) *SearchService {
	defaultNumber := config.DefaultNumber
	if defaultNumber <= 0 {
		defaultNumber = defaultSearchNumber
	}
	maxNumber := config.MaxNumber
	if maxNumber <= 0 {
		maxNumber = maxSearchNumber
	}

	return &SearchService{
		provider:         provider,
		cache:            cache,
		matchingService:  NewMatchingService(config.Match),
		defaultNumber:    defaultNumber,
		maxNumber:        maxNumber,
		includeNutrition: config.IncludeNutrition,
	}
}

// SearchByIngredients cleans the ingredient list, asks the provider for
// candidates and returns them scored and categorized.
// Flow: parse -> provider search -> score -> categorize
func (s *SearchService) SearchByIngredients(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error) {
	if request == nil || len(request.Ingredients) == 0 {
		return nil, fmt.Errorf("%w: please provide at least one ingredient", domain.ErrInvalidIngredients)
	}

	ingredients := ParseIngredients(request.Ingredients)
	if len(usableIngredientNames(ingredients)) == 0 {
		return nil, fmt.Errorf("%w: no valid ingredients provided", domain.ErrInvalidIngredients)
	}

	upstream := &domain.SearchRequest{
		Ingredients:  ingredients,
		Number:       s.clampNumber(request.Number),
		Ranking:      request.Ranking,
		IgnorePantry: request.IgnorePantry,
	}
	if upstream.Ranking <= 0 {
		upstream.Ranking = defaultRanking
	}

	recipes, err := s.provider.FindByIngredients(ctx, upstream)
	if err != nil {
		return nil, err
	}

	categorized, err := s.matchingService.MatchAndCategorize(ctx, ingredients, recipes)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Strs("ingredients", ingredients).
		Int("candidates", len(recipes)).
		Int("exact", categorized.Summary.ExactMatches).
		Int("one_missing", categorized.Summary.OneMissing).
		Int("other", categorized.Summary.OtherMatches).
		Msg("[SEARCH] by ingredients")

	return &domain.SearchResult{
		Data: categorized,
		SearchMeta: domain.SearchMeta{
			UserIngredients: ingredients,
			SearchCount:     len(recipes),
		},
	}, nil
}

// GetRecipeDetail returns a recipe detail, preferring a fresh cached copy.
// A miss (or forceRefresh) fetches from the provider and saves; if the save
// fails the provider payload is returned as is.
func (s *SearchService) GetRecipeDetail(ctx context.Context, recipeID int64, forceRefresh bool) (*domain.RecipeDetailResult, error) {
	if recipeID <= 0 {
		return nil, domain.ErrInvalidRecipeID
	}

	if !forceRefresh {
		if cached, ok := s.cache.Get(ctx, recipeID); ok {
			return &domain.RecipeDetailResult{
				Recipe:     &cached.Recipe,
				Source:     SourceCache,
				FetchCount: cached.FetchCount,
			}, nil
		}
	}

	detail, err := s.provider.GetRecipeInformation(ctx, recipeID, s.includeNutrition)
	if err != nil {
		if !errors.Is(err, domain.ErrRecipeNotFound) {
			logging.Error().Err(err).Int64("recipe_id", recipeID).Msg("[SEARCH] recipe detail fetch failed")
		}
		return nil, err
	}

	saved, ok := s.cache.Save(ctx, detail)
	if !ok {
		return &domain.RecipeDetailResult{Recipe: detail, Source: SourceUpstream}, nil
	}

	return &domain.RecipeDetailResult{
		Recipe:     &saved.Recipe,
		Source:     SourceUpstream,
		FetchCount: saved.FetchCount,
	}, nil
}

// CacheStats returns store statistics, or nil when the store is unavailable
func (s *SearchService) CacheStats(ctx context.Context) *domain.CacheStats {
	return s.cache.Stats(ctx)
}

// clampNumber applies the default and the upper bound to a requested result count
func (s *SearchService) clampNumber(n int) int {
	if n <= 0 {
		return s.defaultNumber
	}
	return min(n, s.maxNumber)
}
