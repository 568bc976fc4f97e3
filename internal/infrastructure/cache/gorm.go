package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chefmind/backend/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cachedRecipeRow is the cached_recipes table. Nested payload fields are
// stored as JSON text.
type cachedRecipeRow struct {
	ID                   uint                    `gorm:"primaryKey"`
	RemoteID             int64                   `gorm:"uniqueIndex;not null"`
	Title                string                  `gorm:"not null"`
	Image                string
	Summary              string
	Instructions         string
	ReadyInMinutes       int
	Servings             int
	SourceURL            string
	SpoonacularSourceURL string
	ExtendedIngredients  []domain.Ingredient     `gorm:"serializer:json"`
	AnalyzedInstructions []domain.InstructionSet `gorm:"serializer:json"`
	Nutrition            *domain.Nutrition       `gorm:"serializer:json"`
	Diets                []string                `gorm:"serializer:json"`
	Cuisines             []string                `gorm:"serializer:json"`
	DishTypes            []string                `gorm:"serializer:json"`
	LastFetchedAt        time.Time               `gorm:"index;not null"`
	FetchCount           int64                   `gorm:"not null;default:1"`
	CreatedAt            time.Time
}

func (cachedRecipeRow) TableName() string {
	return "cached_recipes"
}

// descriptiveColumns are overwritten on every upsert
var descriptiveColumns = []string{
	"title", "image", "summary", "instructions", "ready_in_minutes", "servings",
	"source_url", "spoonacular_source_url", "extended_ingredients",
	"analyzed_instructions", "nutrition", "diets", "cuisines", "dish_types",
	"last_fetched_at",
}

// GormStore is a RecipeStore backed by a SQL database through gorm
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore opens a sqlite or postgres database and migrates the schema
func OpenGormStore(driver, dsn string) (*GormStore, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return NewGormStore(db)
}

// NewGormStore wraps an open database and migrates the schema
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&cachedRecipeRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate cached_recipes: %w", err)
	}
	return &GormStore{db: db}, nil
}

// FindByRemoteID retrieves a record by provider recipe id
func (s *GormStore) FindByRemoteID(ctx context.Context, remoteID int64) (*domain.CachedRecipe, error) {
	var row cachedRecipeRow
	err := s.db.WithContext(ctx).Where("remote_id = ?", remoteID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return row.toDomain(), nil
}

// IncrementFetchCount adds one to fetch_count in a single UPDATE
func (s *GormStore) IncrementFetchCount(ctx context.Context, remoteID int64) (*domain.CachedRecipe, error) {
	result := s.db.WithContext(ctx).
		Model(&cachedRecipeRow{}).
		Where("remote_id = ?", remoteID).
		UpdateColumn("fetch_count", gorm.Expr("fetch_count + ?", 1))
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrCacheMiss
	}
	return s.FindByRemoteID(ctx, remoteID)
}

// Upsert inserts with fetch_count=1 or, on a remote_id conflict, overwrites
// the descriptive columns and increments fetch_count in the same statement
func (s *GormStore) Upsert(ctx context.Context, recipe *domain.RecipeDetail, now time.Time) (*domain.CachedRecipe, error) {
	row := rowFromDomain(recipe, now)

	updates := clause.AssignmentColumns(descriptiveColumns)
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "fetch_count"},
		Value:  gorm.Expr("cached_recipes.fetch_count + ?", 1),
	})

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "remote_id"}},
		DoUpdates: updates,
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	return s.FindByRemoteID(ctx, recipe.ID)
}

// Stats aggregates the table
func (s *GormStore) Stats(ctx context.Context) (*domain.CacheStats, error) {
	db := s.db.WithContext(ctx).Model(&cachedRecipeRow{})
	stats := &domain.CacheStats{}

	if err := db.Count(&stats.TotalRecords).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if stats.TotalRecords == 0 {
		return stats, nil
	}

	if err := s.db.WithContext(ctx).Model(&cachedRecipeRow{}).
		Select("COALESCE(SUM(fetch_count), 0)").
		Scan(&stats.TotalFetches).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	oldest, err := s.edgeRecord(ctx, "last_fetched_at ASC")
	if err != nil {
		return nil, err
	}
	newest, err := s.edgeRecord(ctx, "last_fetched_at DESC")
	if err != nil {
		return nil, err
	}
	stats.Oldest = oldest
	stats.Newest = newest

	return stats, nil
}

func (s *GormStore) edgeRecord(ctx context.Context, order string) (*domain.CacheEntryRef, error) {
	var row cachedRecipeRow
	err := s.db.WithContext(ctx).
		Select("title", "last_fetched_at").
		Order(order).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return &domain.CacheEntryRef{Title: row.Title, LastFetchedAt: row.LastFetchedAt}, nil
}

// Close releases the underlying connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func rowFromDomain(recipe *domain.RecipeDetail, now time.Time) cachedRecipeRow {
	return cachedRecipeRow{
		RemoteID:             recipe.ID,
		Title:                recipe.Title,
		Image:                recipe.Image,
		Summary:              recipe.Summary,
		Instructions:         recipe.Instructions,
		ReadyInMinutes:       recipe.ReadyInMinutes,
		Servings:             recipe.Servings,
		SourceURL:            recipe.SourceURL,
		SpoonacularSourceURL: recipe.SpoonacularSourceURL,
		ExtendedIngredients:  recipe.ExtendedIngredients,
		AnalyzedInstructions: recipe.AnalyzedInstructions,
		Nutrition:            recipe.Nutrition,
		Diets:                recipe.Diets,
		Cuisines:             recipe.Cuisines,
		DishTypes:            recipe.DishTypes,
		LastFetchedAt:        now,
		FetchCount:           1,
		CreatedAt:            now,
	}
}

func (r *cachedRecipeRow) toDomain() *domain.CachedRecipe {
	return &domain.CachedRecipe{
		RemoteID: r.RemoteID,
		Recipe: domain.RecipeDetail{
			ID:                   r.RemoteID,
			Title:                r.Title,
			Image:                r.Image,
			Summary:              r.Summary,
			Instructions:         r.Instructions,
			ReadyInMinutes:       r.ReadyInMinutes,
			Servings:             r.Servings,
			SourceURL:            r.SourceURL,
			SpoonacularSourceURL: r.SpoonacularSourceURL,
			ExtendedIngredients:  r.ExtendedIngredients,
			AnalyzedInstructions: r.AnalyzedInstructions,
			Nutrition:            r.Nutrition,
			Diets:                r.Diets,
			Cuisines:             r.Cuisines,
			DishTypes:            r.DishTypes,
		},
		LastFetchedAt: r.LastFetchedAt,
		FetchCount:    r.FetchCount,
		CreatedAt:     r.CreatedAt,
	}
}
