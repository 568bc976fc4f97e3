package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/chefmind/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory RecipeStore. Records are never
// evicted; staleness is decided by the caller on read.
type MemoryStore struct {
	data  map[int64]*domain.CachedRecipe
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory recipe store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[int64]*domain.CachedRecipe),
	}
}

// FindByRemoteID retrieves a record by provider recipe id
func (s *MemoryStore) FindByRemoteID(ctx context.Context, remoteID int64) (*domain.CachedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	record, exists := s.data[remoteID]
	if !exists {
		return nil, domain.ErrCacheMiss
	}

	return cloneRecord(record)
}

// IncrementFetchCount adds one to a record's fetch count
func (s *MemoryStore) IncrementFetchCount(ctx context.Context, remoteID int64) (*domain.CachedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, exists := s.data[remoteID]
	if !exists {
		return nil, domain.ErrCacheMiss
	}
	record.FetchCount++

	return cloneRecord(record)
}

// Upsert inserts or refreshes the record for recipe.ID
func (s *MemoryStore) Upsert(ctx context.Context, recipe *domain.RecipeDetail, now time.Time) (*domain.CachedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Round-trip through JSON so the store never shares slices with the caller;
	// this mirrors what the persistent stores hand back
	snapshot, err := cloneDetail(recipe)
	if err != nil {
		return nil, err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	record, exists := s.data[recipe.ID]
	if !exists {
		record = &domain.CachedRecipe{
			RemoteID:  recipe.ID,
			CreatedAt: now,
		}
		s.data[recipe.ID] = record
	}
	record.Recipe = *snapshot
	record.LastFetchedAt = now
	record.FetchCount++

	return cloneRecord(record)
}

// Stats returns record count, total fetches and the oldest/newest records
func (s *MemoryStore) Stats(ctx context.Context) (*domain.CacheStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	stats := &domain.CacheStats{TotalRecords: int64(len(s.data))}
	var oldest, newest *domain.CachedRecipe
	for _, record := range s.data {
		stats.TotalFetches += record.FetchCount
		if oldest == nil || record.LastFetchedAt.Before(oldest.LastFetchedAt) {
			oldest = record
		}
		if newest == nil || record.LastFetchedAt.After(newest.LastFetchedAt) {
			newest = record
		}
	}

	if oldest != nil {
		stats.Oldest = &domain.CacheEntryRef{Title: oldest.Recipe.Title, LastFetchedAt: oldest.LastFetchedAt}
		stats.Newest = &domain.CacheEntryRef{Title: newest.Recipe.Title, LastFetchedAt: newest.LastFetchedAt}
	}

	return stats, nil
}

// Size returns the current number of records (for debugging/monitoring)
func (s *MemoryStore) Size() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

func cloneDetail(recipe *domain.RecipeDetail) (*domain.RecipeDetail, error) {
	data, err := json.Marshal(recipe)
	if err != nil {
		return nil, err
	}

	var out domain.RecipeDetail
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func cloneRecord(record *domain.CachedRecipe) (*domain.CachedRecipe, error) {
	detail, err := cloneDetail(&record.Recipe)
	if err != nil {
		return nil, err
	}

	out := *record
	out.Recipe = *detail
	return &out, nil
}
