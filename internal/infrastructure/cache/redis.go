package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/chefmind/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	recipeKeyPrefix = "recipe:"
	// byFetchedKey orders remote ids by last fetch time in unix nanoseconds
	byFetchedKey = "recipes:by_fetched"

	fieldPayload     = "payload"
	fieldLastFetched = "last_fetched_at"
	fieldFetchCount  = "fetch_count"
	fieldCreated     = "created_at"
)

// RedisStore is a RecipeStore keeping one hash per recipe
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps a connected client
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func recipeKey(remoteID int64) string {
	return recipeKeyPrefix + strconv.FormatInt(remoteID, 10)
}

// FindByRemoteID retrieves a record by provider recipe id
func (s *RedisStore) FindByRemoteID(ctx context.Context, remoteID int64) (*domain.CachedRecipe, error) {
	fields, err := s.client.HGetAll(ctx, recipeKey(remoteID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrCacheMiss
	}
	return decodeRecord(remoteID, fields)
}

// IncrementFetchCount bumps fetch_count with HINCRBY. A missing hash is a miss.
func (s *RedisStore) IncrementFetchCount(ctx context.Context, remoteID int64) (*domain.CachedRecipe, error) {
	key := recipeKey(remoteID)

	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if exists == 0 {
		return nil, domain.ErrCacheMiss
	}

	if err := s.client.HIncrBy(ctx, key, fieldFetchCount, 1).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return s.FindByRemoteID(ctx, remoteID)
}

// Upsert writes the payload and fetch time, increments fetch_count and sets
// created_at only on first insert, all in one MULTI/EXEC
func (s *RedisStore) Upsert(ctx context.Context, recipe *domain.RecipeDetail, now time.Time) (*domain.CachedRecipe, error) {
	payload, err := json.Marshal(recipe)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	key := recipeKey(recipe.ID)
	stamp := now.UTC().Format(time.RFC3339Nano)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldPayload, payload, fieldLastFetched, stamp)
		pipe.HSetNX(ctx, key, fieldCreated, stamp)
		pipe.HIncrBy(ctx, key, fieldFetchCount, 1)
		pipe.ZAdd(ctx, byFetchedKey, redis.Z{
			Score:  float64(now.UnixNano()),
			Member: strconv.FormatInt(recipe.ID, 10),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return s.FindByRemoteID(ctx, recipe.ID)
}

// Stats walks the fetch index for counts and reads the two edge records
func (s *RedisStore) Stats(ctx context.Context) (*domain.CacheStats, error) {
	members, err := s.client.ZRange(ctx, byFetchedKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	stats := &domain.CacheStats{}
	if len(members) == 0 {
		return stats, nil
	}

	pipe := s.client.Pipeline()
	counts := make([]*redis.StringCmd, len(members))
	for i, member := range members {
		counts[i] = pipe.HGet(ctx, recipeKeyPrefix+member, fieldFetchCount)
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	for _, cmd := range counts {
		n, err := cmd.Int64()
		if err != nil {
			continue
		}
		stats.TotalRecords++
		stats.TotalFetches += n
	}

	oldest, err := s.edgeRecord(ctx, members[0])
	if err != nil {
		return nil, err
	}
	newest, err := s.edgeRecord(ctx, members[len(members)-1])
	if err != nil {
		return nil, err
	}
	stats.Oldest = oldest
	stats.Newest = newest

	return stats, nil
}

func (s *RedisStore) edgeRecord(ctx context.Context, member string) (*domain.CacheEntryRef, error) {
	remoteID, err := strconv.ParseInt(member, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: bad index member %q", domain.ErrCacheUnavailable, member)
	}

	record, err := s.FindByRemoteID(ctx, remoteID)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return &domain.CacheEntryRef{Title: record.Recipe.Title, LastFetchedAt: record.LastFetchedAt}, nil
}

func decodeRecord(remoteID int64, fields map[string]string) (*domain.CachedRecipe, error) {
	record := &domain.CachedRecipe{RemoteID: remoteID}

	if err := json.Unmarshal([]byte(fields[fieldPayload]), &record.Recipe); err != nil {
		return nil, fmt.Errorf("%w: corrupt payload for %d: %v", domain.ErrCacheUnavailable, remoteID, err)
	}

	var err error
	if record.LastFetchedAt, err = time.Parse(time.RFC3339Nano, fields[fieldLastFetched]); err != nil {
		return nil, fmt.Errorf("%w: corrupt last_fetched_at for %d: %v", domain.ErrCacheUnavailable, remoteID, err)
	}
	if record.CreatedAt, err = time.Parse(time.RFC3339Nano, fields[fieldCreated]); err != nil {
		return nil, fmt.Errorf("%w: corrupt created_at for %d: %v", domain.ErrCacheUnavailable, remoteID, err)
	}
	if record.FetchCount, err = strconv.ParseInt(fields[fieldFetchCount], 10, 64); err != nil {
		return nil, fmt.Errorf("%w: corrupt fetch_count for %d: %v", domain.ErrCacheUnavailable, remoteID, err)
	}

	return record, nil
}
