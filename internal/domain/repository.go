package domain

import (
	"context"
	"time"
)

// RecipeStore is the document store behind the recipe cache.
// Writes must be atomic per record; concurrent callers may target the same id.
type RecipeStore interface {
	// FindByRemoteID returns ErrCacheMiss when no record exists
	FindByRemoteID(ctx context.Context, remoteID int64) (*CachedRecipe, error)
	// IncrementFetchCount atomically adds one to fetchCount and returns the updated record
	IncrementFetchCount(ctx context.Context, remoteID int64) (*CachedRecipe, error)
	// Upsert sets every descriptive field and lastFetchedAt=now, and increments fetchCount.
	// An insert sets createdAt=now and fetchCount=1.
	Upsert(ctx context.Context, recipe *RecipeDetail, now time.Time) (*CachedRecipe, error)
	// Stats aggregates counts and the oldest/newest record by lastFetchedAt
	Stats(ctx context.Context) (*CacheStats, error)
}

// RecipeProvider defines the interface for the remote recipe API
type RecipeProvider interface {
	FindByIngredients(ctx context.Context, request *SearchRequest) ([]RawRecipe, error)
	GetRecipeInformation(ctx context.Context, id int64, includeNutrition bool) (*RecipeDetail, error)
}
