package spoonacular

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/chefmind/backend/internal/domain"
	"github.com/chefmind/backend/internal/logging"
	"github.com/chefmind/backend/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	endpointFindByIngredients = "find_by_ingredients"
	endpointInformation       = "information"

	// maxErrorBody bounds how much of a failed response body is logged
	maxErrorBody = 512

	// apiKeyHeader carries the key so it never appears in request URLs
	apiKeyHeader = "x-api-key"
)

// ClientConfig holds configuration for the Spoonacular client
type ClientConfig struct {
	APIKey            string
	BaseURL           string
	RequestsPerSecond float64
	Burst             int
	Timeout           time.Duration
}

// Client handles communication with the Spoonacular recipe API.
// Calls are rate limited and never retried.
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Spoonacular API client
func NewClient(cfg ClientConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SetDebug enables or disables request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// FindByIngredients returns candidate recipes for a normalized ingredient list
func (c *Client) FindByIngredients(ctx context.Context, request *domain.SearchRequest) ([]domain.RawRecipe, error) {
	params := url.Values{}
	params.Set("ingredients", strings.Join(request.Ingredients, ","))
	params.Set("number", strconv.Itoa(request.Number))
	params.Set("ranking", strconv.Itoa(request.Ranking))
	params.Set("ignorePantry", strconv.FormatBool(request.IgnorePantry))

	body, err := c.get(ctx, endpointFindByIngredients, "/recipes/findByIngredients", params)
	if err != nil {
		return nil, err
	}

	var wire []findByIngredientsItem
	if err := json.Unmarshal(body, &wire); err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpointFindByIngredients, "decode_error").Inc()
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}

	if c.debug {
		logging.Debug().
			Strs("ingredients", request.Ingredients).
			Int("results", len(wire)).
			Msg("[SPOONACULAR] findByIngredients")
	}

	return mapToRawRecipes(wire), nil
}

// GetRecipeInformation retrieves the full detail payload for one recipe
func (c *Client) GetRecipeInformation(ctx context.Context, id int64, includeNutrition bool) (*domain.RecipeDetail, error) {
	if id <= 0 {
		return nil, domain.ErrInvalidRecipeID
	}

	params := url.Values{}
	params.Set("includeNutrition", strconv.FormatBool(includeNutrition))

	path := fmt.Sprintf("/recipes/%d/information", id)
	body, err := c.get(ctx, endpointInformation, path, params)
	if err != nil {
		return nil, err
	}

	var wire recipeInformation
	if err := json.Unmarshal(body, &wire); err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpointInformation, "decode_error").Inc()
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamFailure, err)
	}

	if c.debug {
		logging.Debug().Int64("recipe_id", id).Str("title", wire.Title).Msg("[SPOONACULAR] information")
	}

	return mapToRecipeDetail(&wire), nil
}

// get waits for the rate limiter, executes one GET and maps the status code
func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "rate_limited").Inc()
		return nil, fmt.Errorf("%w: rate limiter error: %w", domain.ErrUpstreamFailure, err)
	}

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrUpstreamFailure, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("User-Agent", "ChefMind/1.0")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "transport_error").Inc()
		logging.Error().Err(err).Str("endpoint", endpoint).Msg("[SPOONACULAR] request failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(endpoint, "transport_error").Inc()
		return nil, fmt.Errorf("%w: failed to read response: %w", domain.ErrUpstreamFailure, err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequests.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		logging.Error().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode).
			Str("body", truncate(body, maxErrorBody)).
			Msg("[SPOONACULAR] API error")
		return nil, statusError(resp.StatusCode)
	}

	metrics.UpstreamRequests.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

// statusError maps a non-200 provider status onto the upstream error taxonomy
func statusError(status int) error {
	switch status {
	case http.StatusPaymentRequired:
		return domain.ErrQuotaExceeded
	case http.StatusUnauthorized:
		return domain.ErrUpstreamAuth
	case http.StatusNotFound:
		return domain.ErrRecipeNotFound
	default:
		return fmt.Errorf("%w: status %d", domain.ErrUpstreamFailure, status)
	}
}

func truncate(body []byte, n int) string {
	if len(body) <= n {
		return string(body)
	}
	return string(body[:n]) + "..."
}
