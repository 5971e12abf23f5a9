package meal

import (
	"context"
	"errors"
	"log"
	"strings"

	"recipebox/internal/domain/recipe"
	"recipebox/internal/pkg/utils"
)

type MealRepository interface {
	List(ctx context.Context) ([]Meal, error)
	FindBySlug(ctx context.Context, slug string) (*Meal, error)
	FindByID(ctx context.Context, id string) (*Meal, error)
	Create(ctx context.Context, m *Meal) error
	LinkRecipe(ctx context.Context, mealID, recipeID string) error
}

// RecipeFinder resolves the published recipe a meal assignment refers to.
type RecipeFinder interface {
	GetPublished(ctx context.Context, slug string) (*recipe.Recipe, error)
}

type Service struct {
	repo    MealRepository
	recipes RecipeFinder
}

func NewService(repo MealRepository, recipes RecipeFinder) *Service {
	return &Service{repo: repo, recipes: recipes}
}

func (s *Service) List(ctx context.Context) ([]MealSummary, error) {
	meals, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MealSummary, 0, len(meals))
	for i := range meals {
		out = append(out, summarize(&meals[i]))
	}
	return out, nil
}

// Get returns a meal with its published recipes, oldest link first.
func (s *Service) Get(ctx context.Context, slug string) (*MealDetail, error) {
	m, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}

	detail := &MealDetail{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		Recipes:     make([]recipe.RecipeSummary, 0, len(m.RecipeLinks)),
	}
	for _, link := range m.RecipeLinks {
		if link.Recipe == nil || link.Recipe.Status != recipe.StatusPublished {
			continue
		}
		detail.Recipes = append(detail.Recipes, recipe.Summarize(link.Recipe))
	}
	return detail, nil
}

func (s *Service) Create(ctx context.Context, req *CreateMealRequest) (*MealSummary, error) {
	m, err := s.newMeal(req.Title, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	log.Printf("meal_created meal_id=%s slug=%s", m.ID, m.Slug)
	sum := summarize(m)
	return &sum, nil
}

// AssignRecipe adds a published recipe to an existing meal or to a meal created
// on the spot. A new meal whose slug already exists reuses that meal.
func (s *Service) AssignRecipe(ctx context.Context, recipeSlug string, req *AssignRecipeRequest) (*MealSummary, error) {
	rec, err := s.recipes.GetPublished(ctx, recipeSlug)
	if err != nil {
		return nil, err
	}

	var m *Meal
	switch {
	case strings.TrimSpace(req.MealID) != "":
		m, err = s.repo.FindByID(ctx, strings.TrimSpace(req.MealID))
		if err != nil {
			return nil, err
		}
	case strings.TrimSpace(req.MealTitle) != "":
		m, err = s.findOrCreate(ctx, req.MealTitle, req.MealDescription)
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrMealRequired
	}

	if err := s.repo.LinkRecipe(ctx, m.ID, rec.ID); err != nil {
		log.Printf("meal_link_failed meal_id=%s recipe_id=%s err=%v", m.ID, rec.ID, err)
		return nil, err
	}
	log.Printf("meal_recipe_linked meal_id=%s recipe_id=%s", m.ID, rec.ID)

	fresh, err := s.repo.FindBySlug(ctx, m.Slug)
	if err != nil {
		return nil, err
	}
	sum := summarize(fresh)
	return &sum, nil
}

func (s *Service) findOrCreate(ctx context.Context, title, description string) (*Meal, error) {
	m, err := s.newMeal(title, description)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindBySlug(ctx, m.Slug)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrMealNotFound) {
		return nil, err
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	log.Printf("meal_created meal_id=%s slug=%s", m.ID, m.Slug)
	return m, nil
}

func (s *Service) newMeal(title, description string) (*Meal, error) {
	title = strings.TrimSpace(title)
	slug := utils.Slugify(title)
	if slug == "" {
		return nil, ErrMealNameRequired
	}
	return &Meal{
		Title:       title,
		Slug:        slug,
		Description: utils.StringPtr(description),
	}, nil
}

func summarize(m *Meal) MealSummary {
	ids := make([]string, 0, len(m.RecipeLinks))
	for _, l := range m.RecipeLinks {
		ids = append(ids, l.RecipeID)
	}
	return MealSummary{
		ID:          m.ID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		RecipeIDs:   ids,
	}
}
