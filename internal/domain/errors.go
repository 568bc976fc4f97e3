package domain

import "errors"

var (
	// ErrInvalidIngredients is returned when the ingredient list is missing or empty after parsing
	ErrInvalidIngredients = errors.New("invalid ingredient list")

	// ErrInvalidRecipeID is returned when a recipe id is not a positive integer
	ErrInvalidRecipeID = errors.New("invalid recipe id")

	// ErrQuotaExceeded is returned when the recipe provider rejects a call for quota reasons (HTTP 402)
	ErrQuotaExceeded = errors.New("recipe provider quota exceeded")

	// ErrUpstreamAuth is returned when the recipe provider rejects the API key (HTTP 401)
	ErrUpstreamAuth = errors.New("recipe provider authentication failed")

	// ErrRecipeNotFound is returned when the recipe provider has no recipe for the id
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrUpstreamFailure is returned for any other recipe provider failure
	ErrUpstreamFailure = errors.New("recipe provider request failed")

	// ErrCacheMiss is returned when the store holds no record for a key
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when the store cannot be reached or written
	ErrCacheUnavailable = errors.New("cache service unavailable")
)
