package spoonacular

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chefmind/backend/internal/domain"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	calls  int
	err    error
	detail *domain.RecipeDetail
}

func (f *fakeProvider) FindByIngredients(context.Context, *domain.SearchRequest) ([]domain.RawRecipe, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return []domain.RawRecipe{{ID: 1, Title: "omelette"}}, nil
}

func (f *fakeProvider) GetRecipeInformation(_ context.Context, id int64, _ bool) (*domain.RecipeDetail, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

func testBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		MinRequests:  3,
		FailureRatio: 0.5,
	}
}

func TestCircuitBreakerClient_PassThrough(t *testing.T) {
	provider := &fakeProvider{detail: &domain.RecipeDetail{ID: 7, Title: "pie"}}
	client := NewCircuitBreakerClient(provider, testBreakerConfig())

	recipes, err := client.FindByIngredients(context.Background(), &domain.SearchRequest{})
	require.NoError(t, err)
	assert.Len(t, recipes, 1)

	detail, err := client.GetRecipeInformation(context.Background(), 7, false)
	require.NoError(t, err)
	assert.Equal(t, "pie", detail.Title)
	assert.Equal(t, gobreaker.StateClosed, client.State())
}

func TestCircuitBreakerClient_OpensOnFailures(t *testing.T) {
	provider := &fakeProvider{err: errors.Join(domain.ErrUpstreamFailure, errors.New("status 500"))}
	client := NewCircuitBreakerClient(provider, testBreakerConfig())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := client.FindByIngredients(ctx, &domain.SearchRequest{})
		assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	}
	assert.Equal(t, gobreaker.StateOpen, client.State())

	_, err := client.FindByIngredients(ctx, &domain.SearchRequest{})
	assert.ErrorIs(t, err, domain.ErrUpstreamFailure)
	assert.Equal(t, 3, provider.calls, "open breaker must not reach the provider")
}

func TestCircuitBreakerClient_CallerErrorsDoNotTrip(t *testing.T) {
	tests := []error{
		domain.ErrRecipeNotFound,
		domain.ErrQuotaExceeded,
		domain.ErrUpstreamAuth,
		domain.ErrInvalidRecipeID,
	}

	for _, want := range tests {
		t.Run(want.Error(), func(t *testing.T) {
			provider := &fakeProvider{err: want}
			client := NewCircuitBreakerClient(provider, testBreakerConfig())

			for i := 0; i < 5; i++ {
				_, err := client.GetRecipeInformation(context.Background(), 1, false)
				assert.ErrorIs(t, err, want)
			}
			assert.Equal(t, gobreaker.StateClosed, client.State())
			assert.Equal(t, 5, provider.calls)
		})
	}
}

func TestDefaultBreakerConfig(t *testing.T) {
	cfg := DefaultBreakerConfig()

	assert.Equal(t, uint32(3), cfg.MaxRequests)
	assert.Equal(t, uint32(10), cfg.MinRequests)
	assert.Equal(t, 0.6, cfg.FailureRatio)
}

func TestStateToFloat(t *testing.T) {
	assert.Equal(t, 0.0, stateToFloat(gobreaker.StateClosed))
	assert.Equal(t, 1.0, stateToFloat(gobreaker.StateHalfOpen))
	assert.Equal(t, 2.0, stateToFloat(gobreaker.StateOpen))
}

func TestCircuitBreakerClient_CancelledCallersDoNotTrip(t *testing.T) {
	cfg := testBreakerConfig()
	cfg.MinRequests = 1
	client := NewCircuitBreakerClient(newTestClient("http://127.0.0.1:1"), cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		_, err := client.GetRecipeInformation(ctx, 42, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, client.State())
}
