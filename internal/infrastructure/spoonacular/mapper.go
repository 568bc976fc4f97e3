package spoonacular

import (
	"strconv"
	"strings"

	"github.com/chefmind/backend/internal/domain"
)

// Spoonacular nutrient names for the macronutrients we surface
const (
	NutrientCalories      = "Calories"
	NutrientProtein       = "Protein"
	NutrientFat           = "Fat"
	NutrientCarbohydrates = "Carbohydrates"
)

type wireIngredient struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
	Image  string  `json:"image"`
}

type findByIngredientsItem struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Image             string           `json:"image"`
	Likes             *int             `json:"likes"`
	UsedIngredients   []wireIngredient `json:"usedIngredients"`
	MissedIngredients []wireIngredient `json:"missedIngredients"`
	UnusedIngredients []wireIngredient `json:"unusedIngredients"`
}

type wireNutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type wireNutrition struct {
	Nutrients []wireNutrient `json:"nutrients"`
}

type recipeInformation struct {
	ID                   int64                   `json:"id"`
	Title                string                  `json:"title"`
	Image                string                  `json:"image"`
	Summary              string                  `json:"summary"`
	Instructions         string                  `json:"instructions"`
	ReadyInMinutes       int                     `json:"readyInMinutes"`
	Servings             int                     `json:"servings"`
	SourceURL            string                  `json:"sourceUrl"`
	SpoonacularSourceURL string                  `json:"spoonacularSourceUrl"`
	ExtendedIngredients  []wireIngredient        `json:"extendedIngredients"`
	AnalyzedInstructions []domain.InstructionSet `json:"analyzedInstructions"`
	Nutrition            *wireNutrition          `json:"nutrition"`
	Diets                []string                `json:"diets"`
	Cuisines             []string                `json:"cuisines"`
	DishTypes            []string                `json:"dishTypes"`
}

// mapToRawRecipes converts findByIngredients items to domain candidates.
// Missing ingredient lists become empty slices and a null likes count becomes 0.
func mapToRawRecipes(items []findByIngredientsItem) []domain.RawRecipe {
	recipes := make([]domain.RawRecipe, 0, len(items))
	for _, item := range items {
		likes := 0
		if item.Likes != nil {
			likes = *item.Likes
		}
		recipes = append(recipes, domain.RawRecipe{
			ID:                item.ID,
			Title:             item.Title,
			Image:             item.Image,
			Likes:             likes,
			UsedIngredients:   mapIngredients(item.UsedIngredients),
			MissedIngredients: mapIngredients(item.MissedIngredients),
			UnusedIngredients: mapIngredients(item.UnusedIngredients),
		})
	}
	return recipes
}

// mapToRecipeDetail converts an information payload to the domain detail
func mapToRecipeDetail(info *recipeInformation) *domain.RecipeDetail {
	return &domain.RecipeDetail{
		ID:                   info.ID,
		Title:                info.Title,
		Image:                info.Image,
		Summary:              info.Summary,
		Instructions:         info.Instructions,
		ReadyInMinutes:       info.ReadyInMinutes,
		Servings:             info.Servings,
		SourceURL:            info.SourceURL,
		SpoonacularSourceURL: info.SpoonacularSourceURL,
		ExtendedIngredients:  mapIngredients(info.ExtendedIngredients),
		AnalyzedInstructions: info.AnalyzedInstructions,
		Nutrition:            extractNutrition(info.Nutrition),
		Diets:                info.Diets,
		Cuisines:             info.Cuisines,
		DishTypes:            info.DishTypes,
	}
}

func mapIngredients(in []wireIngredient) []domain.Ingredient {
	out := make([]domain.Ingredient, 0, len(in))
	for _, ing := range in {
		out = append(out, domain.Ingredient{
			ID:     ing.ID,
			Name:   ing.Name,
			Amount: ing.Amount,
			Unit:   ing.Unit,
			Image:  ing.Image,
		})
	}
	return out
}

// extractNutrition pulls the macronutrients out of the nutrient list
func extractNutrition(n *wireNutrition) *domain.Nutrition {
	if n == nil || len(n.Nutrients) == 0 {
		return nil
	}

	nutrition := &domain.Nutrition{}
	for _, nutrient := range n.Nutrients {
		switch nutrient.Name {
		case NutrientCalories:
			nutrition.Calories = nutrient.Amount
		case NutrientProtein:
			nutrition.Protein = formatAmount(nutrient)
		case NutrientFat:
			nutrition.Fat = formatAmount(nutrient)
		case NutrientCarbohydrates:
			nutrition.Carbohydrates = formatAmount(nutrient)
		}
	}
	return nutrition
}

// formatAmount renders 42.5 g as "42.5g"
func formatAmount(n wireNutrient) string {
	amount := strconv.FormatFloat(n.Amount, 'f', -1, 64)
	return amount + strings.TrimSpace(n.Unit)
}
