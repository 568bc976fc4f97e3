package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/usecase"
	"github.com/gin-gonic/gin"
)

const (
	msgNoIngredients      = "Please provide at least one ingredient"
	msgNoValidIngredients = "No valid ingredients provided"
)

// RecipeSearcher is the use case surface the handlers depend on
type RecipeSearcher interface {
	SearchByIngredients(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResult, error)
	GetRecipeDetail(ctx context.Context, recipeID int64, forceRefresh bool) (*domain.RecipeDetailResult, error)
	CacheStats(ctx context.Context) *domain.CacheStats
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	searchService RecipeSearcher
}

// NewHandler creates a new HTTP handler
func NewHandler(searchService RecipeSearcher) *Handler {
	return &Handler{searchService: searchService}
}

// searchByIngredientsBody is the POST body. Ingredients is either a JSON
// array of strings or one comma-separated string.
type searchByIngredientsBody struct {
	Ingredients  json.RawMessage `json:"ingredients"`
	Number       *int            `json:"number"`
	Ranking      *int            `json:"ranking"`
	IgnorePantry *bool           `json:"ignorePantry"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "chefmind-backend",
		"version": "1.0.0",
	})
}

// SearchByIngredients handles POST /api/v1/search/by-ingredients
func (h *Handler) SearchByIngredients(c *gin.Context) {
	var body searchByIngredientsBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request body"))
		return
	}

	ingredients, ok := decodeIngredients(body.Ingredients)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse(msgNoIngredients))
		return
	}
	if len(usecase.ParseIngredients(ingredients)) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse(msgNoValidIngredients))
		return
	}

	request := &domain.SearchRequest{
		Ingredients:  ingredients,
		IgnorePantry: true,
	}
	if body.Number != nil {
		request.Number = *body.Number
	}
	if body.Ranking != nil {
		request.Ranking = *body.Ranking
	}
	if body.IgnorePantry != nil {
		request.IgnorePantry = *body.IgnorePantry
	}

	result, err := h.searchService.SearchByIngredients(c.Request.Context(), request)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Data,
		"searchMeta": result.SearchMeta,
	})
}

// GetRecipe handles GET /api/v1/search/recipe/:id
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("Recipe id must be a positive integer"))
		return
	}
	forceRefresh, _ := strconv.ParseBool(c.Query("forceRefresh"))

	result, err := h.searchService.GetRecipeDetail(c.Request.Context(), id, forceRefresh)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       result.Recipe,
		"source":     result.Source,
		"fetchCount": result.FetchCount,
	})
}

// CacheStats handles GET /api/v1/cache/stats
func (h *Handler) CacheStats(c *gin.Context) {
	stats := h.searchService.CacheStats(c.Request.Context())
	if stats == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse("Cache statistics unavailable"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// decodeIngredients accepts an array of strings or a comma-separated string.
// ok is false for a missing, null, empty or mistyped field.
func decodeIngredients(raw json.RawMessage) ([]string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, false
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, len(list) > 0
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil && joined != "" {
		return usecase.ParseIngredientList(joined), true
	}

	return nil, false
}

// writeError maps domain errors onto HTTP status codes and messages
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidIngredients):
		c.JSON(http.StatusBadRequest, errorResponse(msgNoValidIngredients))
	case errors.Is(err, domain.ErrInvalidRecipeID):
		c.JSON(http.StatusBadRequest, errorResponse("Recipe id must be a positive integer"))
	case errors.Is(err, domain.ErrQuotaExceeded):
		c.JSON(http.StatusPaymentRequired, errorResponse("API quota exceeded. Please try again later."))
	case errors.Is(err, domain.ErrUpstreamAuth):
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid API key. Please check your Spoonacular API configuration."))
	case errors.Is(err, domain.ErrRecipeNotFound):
		c.JSON(http.StatusNotFound, errorResponse("Recipe not found"))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		c.JSON(http.StatusGatewayTimeout, errorResponse("Request timed out"))
	default:
		c.JSON(http.StatusBadGateway, errorResponse("Error fetching recipes from Spoonacular API"))
	}
}

func errorResponse(message string) gin.H {
	return gin.H{
		"success": false,
		"message": message,
	}
}
