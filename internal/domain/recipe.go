package domain

import "time"

// Ingredient is one ingredient line as returned by the recipe provider.
// Normalized is filled in by the matcher and never sent upstream.
type Ingredient struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount,omitempty"`
	Unit       string  `json:"unit,omitempty"`
	Image      string  `json:"image,omitempty"`
	Normalized string  `json:"normalized,omitempty"`
}

// RawRecipe is a candidate from the "find by ingredients" provider call.
// Likes defaults to 0 when the provider omits it or sends null.
type RawRecipe struct {
	ID                int64        `json:"id"`
	Title             string       `json:"title"`
	Image             string       `json:"image,omitempty"`
	Likes             int          `json:"likes"`
	UsedIngredients   []Ingredient `json:"usedIngredients"`
	MissedIngredients []Ingredient `json:"missedIngredients"`
	UnusedIngredients []Ingredient `json:"unusedIngredients"`
}

// MatchMetrics describes how well one candidate covers the user's ingredients
type MatchMetrics struct {
	MatchedIngredients   []string `json:"matchedIngredients"`
	ExactMatches         []string `json:"exactMatches"`
	MissingIngredients   []string `json:"missingIngredients"` // display list, capped
	MissingCount         int      `json:"missingCount"`
	MatchRatio           float64  `json:"matchRatio"`
	TotalUsedIngredients int      `json:"totalUsedIngredients"`
	MatchedCount         int      `json:"matchedCount"`
	Score                float64  `json:"score"`
}

// ScoredRecipe is a candidate annotated with its match metrics
type ScoredRecipe struct {
	RawRecipe
	MatchMetrics MatchMetrics `json:"matchMetrics"`
}

// CategorySummary holds the bucket sizes. TotalRecipes is the input batch size,
// which includes recipes dropped from every bucket.
type CategorySummary struct {
	ExactMatches int `json:"exactMatches"`
	OneMissing   int `json:"oneMissing"`
	OtherMatches int `json:"otherMatches"`
	TotalRecipes int `json:"totalRecipes"`
}

// CategorizedResult is the three-tier split of a scored batch
type CategorizedResult struct {
	ExactMatches []ScoredRecipe  `json:"exactMatches"`
	OneMissing   []ScoredRecipe  `json:"oneMissing"`
	OtherMatches []ScoredRecipe  `json:"otherMatches"`
	Summary      CategorySummary `json:"summary"`
}

// SearchRequest holds the options of a "find by ingredients" search
type SearchRequest struct {
	Ingredients  []string `json:"ingredients"`
	Number       int      `json:"number"`
	Ranking      int      `json:"ranking"`
	IgnorePantry bool     `json:"ignorePantry"`
}

// SearchMeta describes the search that produced a result
type SearchMeta struct {
	UserIngredients []string `json:"userIngredients"`
	SearchCount     int      `json:"searchCount"`
}

// SearchResult is the categorized response to a search
type SearchResult struct {
	Data       *CategorizedResult `json:"data"`
	SearchMeta SearchMeta         `json:"searchMeta"`
}

// Nutrition is the optional nutrition breakdown of a recipe detail
type Nutrition struct {
	Calories      float64 `json:"calories"`
	Protein       string  `json:"protein,omitempty"`
	Fat           string  `json:"fat,omitempty"`
	Carbohydrates string  `json:"carbohydrates,omitempty"`
}

// StepRef names an ingredient or piece of equipment used by an instruction step
type StepRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// InstructionStep is one numbered step of an instruction set
type InstructionStep struct {
	Number      int       `json:"number"`
	Step        string    `json:"step"`
	Ingredients []StepRef `json:"ingredients,omitempty"`
	Equipment   []StepRef `json:"equipment,omitempty"`
}

// InstructionSet is a named group of steps
type InstructionSet struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

// RecipeDetail is the full descriptive payload from the "recipe detail" provider call
type RecipeDetail struct {
	ID                   int64            `json:"id"`
	Title                string           `json:"title"`
	Image                string           `json:"image,omitempty"`
	Summary              string           `json:"summary,omitempty"`
	Instructions         string           `json:"instructions,omitempty"`
	ReadyInMinutes       int              `json:"readyInMinutes,omitempty"`
	Servings             int              `json:"servings,omitempty"`
	SourceURL            string           `json:"sourceUrl,omitempty"`
	SpoonacularSourceURL string           `json:"spoonacularSourceUrl,omitempty"`
	ExtendedIngredients  []Ingredient     `json:"extendedIngredients"`
	AnalyzedInstructions []InstructionSet `json:"analyzedInstructions,omitempty"`
	Nutrition            *Nutrition       `json:"nutrition,omitempty"`
	Diets                []string         `json:"diets,omitempty"`
	Cuisines             []string         `json:"cuisines,omitempty"`
	DishTypes            []string         `json:"dishTypes,omitempty"`
}

// CachedRecipe is a stored snapshot of a recipe detail, keyed by RemoteID
type CachedRecipe struct {
	RemoteID      int64        `json:"remoteId"`
	Recipe        RecipeDetail `json:"recipe"`
	LastFetchedAt time.Time    `json:"lastFetchedAt"`
	FetchCount    int64        `json:"fetchCount"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// CacheEntryRef identifies a record in cache stats
type CacheEntryRef struct {
	Title         string    `json:"title"`
	LastFetchedAt time.Time `json:"lastFetched"`
}

// CacheStats summarizes the store. Oldest and Newest are nil on an empty store.
type CacheStats struct {
	TotalRecords int64          `json:"totalRecipes"`
	TotalFetches int64          `json:"totalFetches"`
	Oldest       *CacheEntryRef `json:"oldestCache"`
	Newest       *CacheEntryRef `json:"newestCache"`
}

// RecipeDetailResult is the response to a detail lookup
type RecipeDetailResult struct {
	Recipe     *RecipeDetail `json:"recipe"`
	Source     string        `json:"source"` // "cache" or "upstream"
	FetchCount int64         `json:"fetchCount,omitempty"`
}
