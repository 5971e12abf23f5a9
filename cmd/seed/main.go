package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"recipebox/internal/config"
	"recipebox/internal/database"
	"recipebox/internal/domain/auth"
	"recipebox/internal/domain/meal"
	"recipebox/internal/domain/recipe"
	"recipebox/internal/domain/shoppinglist"
	"recipebox/internal/pkg/utils"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running migrations...")
	groups := [][]any{recipe.CoreModels(), meal.Models(), shoppinglist.Models(), auth.Models()}
	if cfg.Categories != config.CategoriesDisabled {
		groups = append(groups, recipe.CategoryModels())
	}
	if err := database.Migrate(db, groups...); err != nil {
		log.Fatal("Migration failed:", err)
	}
	caps := database.ProbeCapabilities(db)

	// children first
	log.Println("Cleaning old data...")
	tables := []string{
		"meal_recipes",
		"meals",
		"recipe_instruction_step_ingredients",
		"recipe_instruction_steps",
		"recipe_ingredients",
		"recipe_tags",
		"tags",
	}
	if caps.Categories {
		tables = append(tables, "recipe_categories", "categories")
	}
	tables = append(tables, "recipes")
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("clean %s: %v", table, err)
		}
	}

	ctx := context.Background()
	recipes := recipe.NewService(recipe.NewRepository(db, caps))
	meals := meal.NewService(meal.NewRepository(db, caps), recipes)

	log.Println("Creating recipes...")
	var slugs []string
	for _, req := range sampleRecipes() {
		res, err := recipes.Create(ctx, req)
		if err != nil {
			log.Fatalf("create %q: %v", req.Title, err)
		}
		slugs = append(slugs, res.Slug)
		log.Printf("  %s (%s)", req.Title, req.Status)
	}

	log.Println("Creating meals...")
	dinner, err := meals.Create(ctx, &meal.CreateMealRequest{
		Title:       "Sunday Dinner",
		Description: "Soup to start, chicken to follow.",
	})
	if err != nil {
		log.Fatalf("create meal: %v", err)
	}
	for _, slug := range slugs[:2] {
		if _, err := meals.AssignRecipe(ctx, slug, &meal.AssignRecipeRequest{MealID: dinner.ID}); err != nil {
			log.Fatalf("assign %s: %v", slug, err)
		}
	}

	log.Printf("Seed completed: recipes=%d meals=1 categories=%t", len(slugs), caps.Categories)
}

func sampleRecipes() []*recipe.SaveRecipeRequest {
	n := utils.NewOptionalNumber
	return []*recipe.SaveRecipeRequest{
		{
			Title:       "Roasted Tomato Soup",
			Description: "Slow-roasted tomatoes blended with garlic and basil.",
			PrepMinutes: n(15),
			CookMinutes: n(45),
			Servings:    n(4),
			Status:      recipe.StatusPublished,
			Ingredients: []recipe.IngredientInput{
				{Text: "ripe tomatoes", Quantity: n(1.5), Unit: "kg"},
				{Text: "garlic cloves", Quantity: n(4)},
				{Text: "olive oil", Quantity: n(3), Unit: "tbsp"},
				{Text: "fresh basil", Note: "to serve", IsOptional: true},
			},
			Steps: []recipe.StepInput{
				{Content: "Halve the tomatoes and toss with garlic and oil.", IngredientPositions: []int{1, 2, 3}},
				{Content: "Roast at 200C for 40 minutes."},
				{Content: "Blend until smooth and top with basil.", IngredientPositions: []int{4}},
			},
			Tags:       []string{"Soup", "Vegetarian"},
			Categories: []string{"Starters"},
		},
		{
			Title:       "Citrus & Herb Chicken!",
			Description: "Weeknight chicken thighs with lemon and thyme.",
			PrepMinutes: n(10),
			CookMinutes: n(35),
			Servings:    n(2),
			Status:      recipe.StatusPublished,
			Ingredients: []recipe.IngredientInput{
				{Text: "chicken thighs", Quantity: n(4)},
				{Text: "lemon", Quantity: n(1)},
				{Text: "thyme sprigs", Quantity: n(0.5), Unit: "bunch"},
			},
			Steps: []recipe.StepInput{
				{Content: "Season the chicken and zest the lemon over it.", IngredientPositions: []int{1, 2}},
				{Content: "Roast with thyme until golden.", IngredientPositions: []int{1, 3}},
			},
			Tags:       []string{"Dinner", "Gluten free"},
			Categories: []string{"Mains"},
		},
		{
			Title:    "Overnight Oats",
			Servings: n(1),
			Status:   recipe.StatusDraft,
			Ingredients: []recipe.IngredientInput{
				{Text: "rolled oats", Quantity: n(0.5), Unit: "cup"},
				{Text: "milk", Quantity: n(0.75), Unit: "cup"},
			},
			Steps: []recipe.StepInput{
				{Content: "Stir together and chill overnight.", IngredientPositions: []int{1, 2}},
			},
			Tags: []string{"Breakfast"},
		},
	}
}
