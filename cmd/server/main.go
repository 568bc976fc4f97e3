package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chefmind/backend/config"
	httpDelivery "github.com/chefmind/backend/internal/delivery/http"
	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/infrastructure/cache"
	"github.com/chefmind/backend/internal/infrastructure/spoonacular"
	"github.com/chefmind/backend/internal/logging"
	"github.com/chefmind/backend/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("[SERVER] failed to load configuration")
	}

	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("[SERVER] starting ChefMind backend v1.0.0")

	ctx := context.Background()

	// Initialize infrastructure dependencies
	store, closer, err := openStore(ctx, cfg.Cache)
	if err != nil {
		logging.Fatal().Err(err).Str("cache_type", cfg.Cache.Type).Msg("[SERVER] failed to open recipe store")
	}
	if closer != nil {
		defer closer.Close()
	}

	client := spoonacular.NewClient(spoonacular.ClientConfig{
		APIKey:            cfg.Spoonacular.APIKey,
		BaseURL:           cfg.Spoonacular.BaseURL,
		RequestsPerSecond: cfg.Spoonacular.RequestsPerSecond,
		Burst:             cfg.Spoonacular.Burst,
		Timeout:           cfg.Spoonacular.Timeout,
	})

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		client.SetDebug(true)
		logging.Info().Msg("[SERVER] Spoonacular client debug mode enabled")
	}

	logging.Info().
		Str("base_url", cfg.Spoonacular.BaseURL).
		Str("api_key", maskKey(cfg.Spoonacular.APIKey)).
		Float64("requests_per_second", cfg.Spoonacular.RequestsPerSecond).
		Msg("[SERVER] Spoonacular API configured")

	provider := spoonacular.NewCircuitBreakerClient(client, spoonacular.DefaultBreakerConfig())

	// Initialize usecase layer
	recipeCache := usecase.NewRecipeCache(store, usecase.RecipeCacheConfig{
		TTL:              cfg.Cache.TTL,
		OperationTimeout: cfg.Cache.OperationTimeout,
	})
	searchService := usecase.NewSearchService(provider, recipeCache, usecase.SearchServiceConfig{
		DefaultNumber:    cfg.Search.DefaultNumber,
		MaxNumber:        cfg.Search.MaxNumber,
		IncludeNutrition: cfg.Spoonacular.IncludeNutrition,
		Match: usecase.MatchConfig{
			MaxParallelScoring: cfg.Search.MaxParallelScoring,
			EnableDebugLogging: cfg.Search.DebugMatching || cfg.Server.Environment == "development",
		},
	})

	handler := httpDelivery.NewHandler(searchService)
	router := httpDelivery.SetupRouter(cfg, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("[SERVER] listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("[SERVER] failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info().Msg("[SERVER] shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("[SERVER] graceful shutdown failed")
	}
}

// openStore builds the recipe store for the configured backend. The closer is
// nil for the in-memory store.
func openStore(ctx context.Context, cfg config.CacheConfig) (domain.RecipeStore, io.Closer, error) {
	switch cfg.Type {
	case config.CacheMemory:
		return cache.NewMemoryStore(), nil, nil
	case config.CacheSQLite, config.CachePostgres:
		store, err := cache.OpenGormStore(cfg.Type, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisStore(client), client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported cache type %q", cfg.Type)
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
