package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/logging"
	"github.com/chefmind/backend/internal/metrics"
)

const (
	// DefaultCacheTTL is how long a stored recipe stays fresh
	DefaultCacheTTL = 24 * time.Hour

	defaultOperationTimeout = 2 * time.Second
)

// RecipeCacheConfig holds configuration for the recipe cache
type RecipeCacheConfig struct {
	TTL              time.Duration
	OperationTimeout time.Duration    // bound on every store call
	Now              func() time.Time // clock for freshness and upserts, defaults to time.Now
}

// RecipeCache is a read-through cache over a RecipeStore keyed by the
// provider's recipe id. Store failures never reach the caller: Get degrades
// to a miss and Save reports ok=false.
type RecipeCache struct {
	store   domain.RecipeStore
	ttl     time.Duration
	timeout time.Duration
	now     func() time.Time
}

// NewRecipeCache creates a recipe cache over the given store
func NewRecipeCache(store domain.RecipeStore, config RecipeCacheConfig) *RecipeCache {
	ttl := config.TTL
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	timeout := config.OperationTimeout
	if timeout <= 0 {
		timeout = defaultOperationTimeout
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &RecipeCache{
		store:   store,
		ttl:     ttl,
		timeout: timeout,
		now:     now,
	}
}

// Get returns the stored recipe when it exists and was fetched within the TTL,
// bumping its fetch count. ok is false on absence, staleness or any store error.
func (c *RecipeCache) Get(ctx context.Context, recipeID int64) (*domain.CachedRecipe, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	record, err := c.store.FindByRemoteID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			metrics.CacheLookups.WithLabelValues(metrics.LookupMiss).Inc()
			return nil, false
		}
		metrics.CacheLookups.WithLabelValues(metrics.LookupError).Inc()
		logging.Warn().Err(err).Int64("recipe_id", recipeID).Msg("[CACHE] read failed, treating as miss")
		return nil, false
	}

	if !c.isFresh(record) {
		metrics.CacheLookups.WithLabelValues(metrics.LookupStale).Inc()
		logging.Debug().
			Int64("recipe_id", recipeID).
			Time("last_fetched_at", record.LastFetchedAt).
			Msg("[CACHE] entry expired")
		return nil, false
	}

	updated, err := c.store.IncrementFetchCount(ctx, recipeID)
	if err != nil {
		metrics.CacheLookups.WithLabelValues(metrics.LookupError).Inc()
		logging.Warn().Err(err).Int64("recipe_id", recipeID).Msg("[CACHE] fetch count update failed, treating as miss")
		return nil, false
	}

	metrics.CacheLookups.WithLabelValues(metrics.LookupHit).Inc()
	return updated, true
}

// Save upserts a freshly fetched recipe. ok is false when the write failed;
// the caller should then serve the payload it already holds.
func (c *RecipeCache) Save(ctx context.Context, recipe *domain.RecipeDetail) (*domain.CachedRecipe, bool) {
	if recipe == nil || recipe.ID <= 0 {
		metrics.CacheSaves.WithLabelValues("failure").Inc()
		return nil, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	record, err := c.store.Upsert(ctx, recipe, c.now())
	if err != nil {
		metrics.CacheSaves.WithLabelValues("failure").Inc()
		logging.Warn().Err(err).Int64("recipe_id", recipe.ID).Msg("[CACHE] save failed")
		return nil, false
	}

	metrics.CacheSaves.WithLabelValues("success").Inc()
	return record, true
}

// Stats summarizes the store for observability. It returns nil on failure.
func (c *RecipeCache) Stats(ctx context.Context) *domain.CacheStats {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stats, err := c.store.Stats(ctx)
	if err != nil {
		logging.Warn().Err(err).Msg("[CACHE] stats failed")
		return nil
	}
	return stats
}

// isFresh reports whether now - lastFetchedAt <= ttl
func (c *RecipeCache) isFresh(record *domain.CachedRecipe) bool {
	return c.now().Sub(record.LastFetchedAt) <= c.ttl
}
