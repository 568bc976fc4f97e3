package spoonacular

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/logging"
	"github.com/chefmind/backend/internal/metrics"
	gobreaker "github.com/sony/gobreaker/v2"
)

const breakerName = "spoonacular-api"

// BreakerConfig tunes the circuit breaker around the provider
type BreakerConfig struct {
	MaxRequests  uint32        // allowed requests while half-open
	Interval     time.Duration // closed-state count reset period
	Timeout      time.Duration // open-state duration before probing
	MinRequests  uint32        // requests needed before the failure ratio counts
	FailureRatio float64
}

// DefaultBreakerConfig returns the production breaker settings
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// CircuitBreakerClient wraps a RecipeProvider with a circuit breaker.
// Caller errors (not found, bad id) and quota/auth rejections do not count as failures.
type CircuitBreakerClient struct {
	provider domain.RecipeProvider
	cb       *gobreaker.CircuitBreaker[any]
}

// NewCircuitBreakerClient wraps provider
func NewCircuitBreakerClient(provider domain.RecipeProvider, cfg BreakerConfig) *CircuitBreakerClient {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= cfg.FailureRatio {
				logging.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", ratio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrRecipeNotFound) ||
				errors.Is(err, domain.ErrInvalidRecipeID) ||
				errors.Is(err, domain.ErrQuotaExceeded) ||
				errors.Is(err, domain.ErrUpstreamAuth) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &CircuitBreakerClient{provider: provider, cb: cb}
}

// State reports the current breaker state
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.cb.State()
}

// FindByIngredients calls the provider through the breaker
func (c *CircuitBreakerClient) FindByIngredients(ctx context.Context, request *domain.SearchRequest) ([]domain.RawRecipe, error) {
	result, err := c.execute(func() (any, error) {
		return c.provider.FindByIngredients(ctx, request)
	})
	if err != nil {
		return nil, err
	}
	recipes, ok := result.([]domain.RawRecipe)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type %T", domain.ErrUpstreamFailure, result)
	}
	return recipes, nil
}

// GetRecipeInformation calls the provider through the breaker
func (c *CircuitBreakerClient) GetRecipeInformation(ctx context.Context, id int64, includeNutrition bool) (*domain.RecipeDetail, error) {
	result, err := c.execute(func() (any, error) {
		return c.provider.GetRecipeInformation(ctx, id, includeNutrition)
	})
	if err != nil {
		return nil, err
	}
	detail, ok := result.(*domain.RecipeDetail)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected result type %T", domain.ErrUpstreamFailure, result)
	}
	return detail, nil
}

// execute maps breaker rejections onto ErrUpstreamFailure
func (c *CircuitBreakerClient) execute(fn func() (any, error)) (any, error) {
	result, err := c.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			logging.Warn().Err(err).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamFailure, err)
		}
		return nil, err
	}
	return result, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
