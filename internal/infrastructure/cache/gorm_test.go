package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/chefmind/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupGormStore(t *testing.T) *GormStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// every pooled connection to :memory: is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := NewGormStore(db)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func TestOpenGormStore_UnsupportedDriver(t *testing.T) {
	_, err := OpenGormStore("mysql", "dsn")
	assert.Error(t, err)
}

func TestGormStore_UpsertInsertAndFind(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	record, err := store.Upsert(ctx, testRecipe(716429, "pasta"), now)
	require.NoError(t, err)

	assert.Equal(t, int64(716429), record.RemoteID)
	assert.Equal(t, int64(1), record.FetchCount)
	assert.True(t, record.LastFetchedAt.Equal(now))
	assert.True(t, record.CreatedAt.Equal(now))

	found, err := store.FindByRemoteID(ctx, 716429)
	require.NoError(t, err)
	assert.Equal(t, "pasta", found.Recipe.Title)
	assert.Equal(t, int64(716429), found.Recipe.ID)
	require.Len(t, found.Recipe.ExtendedIngredients, 2)
	assert.Equal(t, "chicken breast", found.Recipe.ExtendedIngredients[0].Name)
	assert.Equal(t, []string{"gluten free"}, found.Recipe.Diets)
	require.NotNil(t, found.Recipe.Nutrition)
	assert.Equal(t, 540.0, found.Recipe.Nutrition.Calories)
}

func TestGormStore_UpsertConflictIncrements(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()
	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(3 * time.Hour)

	_, err := store.Upsert(ctx, testRecipe(7, "old"), first)
	require.NoError(t, err)

	record, err := store.Upsert(ctx, testRecipe(7, "new"), second)
	require.NoError(t, err)

	assert.Equal(t, "new", record.Recipe.Title)
	assert.Equal(t, int64(2), record.FetchCount)
	assert.True(t, record.LastFetchedAt.Equal(second), "last fetched = %v", record.LastFetchedAt)
	assert.True(t, record.CreatedAt.Equal(first), "created at = %v", record.CreatedAt)

	var count int64
	require.NoError(t, store.db.Model(&cachedRecipeRow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGormStore_FindMiss(t *testing.T) {
	store := setupGormStore(t)

	_, err := store.FindByRemoteID(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestGormStore_IncrementFetchCount(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	_, err := store.IncrementFetchCount(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)

	_, err = store.Upsert(ctx, testRecipe(1, "soup"), time.Now())
	require.NoError(t, err)

	record, err := store.IncrementFetchCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), record.FetchCount)
}

func TestGormStore_ConcurrentUpserts(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()
	const writers = 20

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Upsert(ctx, testRecipe(3, "stew"), time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	record, err := store.FindByRemoteID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(writers), record.FetchCount)
}

func TestGormStore_Stats(t *testing.T) {
	store := setupGormStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.TotalRecords)
	assert.Nil(t, stats.Oldest)
	assert.Nil(t, stats.Newest)

	base := time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	_, err = store.Upsert(ctx, testRecipe(1, "first"), base)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, testRecipe(2, "second"), base.Add(time.Hour))
	require.NoError(t, err)
	_, err = store.IncrementFetchCount(ctx, 1)
	require.NoError(t, err)

	stats, err = store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalRecords)
	assert.Equal(t, int64(3), stats.TotalFetches)
	require.NotNil(t, stats.Oldest)
	require.NotNil(t, stats.Newest)
	assert.Equal(t, "first", stats.Oldest.Title)
	assert.Equal(t, "second", stats.Newest.Title)
	assert.True(t, stats.Newest.LastFetchedAt.Equal(base.Add(time.Hour)))
}
