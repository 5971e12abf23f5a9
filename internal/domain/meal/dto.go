package meal

import "recipebox/internal/domain/recipe"

type CreateMealRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// AssignRecipeRequest picks an existing meal by id or names a new one.
type AssignRecipeRequest struct {
	MealID          string `json:"mealId" validate:"omitempty,uuid"`
	MealTitle       string `json:"mealTitle" validate:"max=200"`
	MealDescription string `json:"mealDescription" validate:"max=2000"`
}

type MealSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description *string  `json:"description"`
	RecipeIDs   []string `json:"recipeIds"`
}

type MealDetail struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Slug        string                 `json:"slug"`
	Description *string                `json:"description"`
	Recipes     []recipe.RecipeSummary `json:"recipes"`
}
