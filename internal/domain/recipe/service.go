package recipe

import (
	"context"
	"log"
	"strings"

	"recipebox/internal/pkg/utils"
)

type Service struct {
	repo RecipeRepository
}

func NewService(repo RecipeRepository) *Service {
	return &Service{repo: repo}
}

// ListPublished backs the public recipe index and its title search.
func (s *Service) ListPublished(ctx context.Context, titleQuery string) ([]RecipeSummary, error) {
	recipes, err := s.repo.ListPublished(ctx, titleQuery)
	if err != nil {
		return nil, err
	}
	return summaries(recipes), nil
}

// ListAll backs the admin index, drafts included.
func (s *Service) ListAll(ctx context.Context) ([]RecipeSummary, error) {
	recipes, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return summaries(recipes), nil
}

// GetPublished returns the display graph of a published recipe.
func (s *Service) GetPublished(ctx context.Context, slug string) (*Recipe, error) {
	return s.repo.FindBySlug(ctx, strings.TrimSpace(slug), true)
}

// Detail renders a published recipe scaled to the requested servings.
func (s *Service) Detail(ctx context.Context, slug, servings string) (*DetailView, error) {
	rec, err := s.GetPublished(ctx, slug)
	if err != nil {
		return nil, err
	}
	return BuildDetailView(rec, servings), nil
}

// EditView loads a recipe of any status in the editor's shape.
func (s *Service) EditView(ctx context.Context, slug string) (*EditView, error) {
	rec, err := s.repo.FindBySlug(ctx, strings.TrimSpace(slug), false)
	if err != nil {
		return nil, err
	}
	return BuildEditView(rec), nil
}

func (s *Service) Tags(ctx context.Context) ([]NamedValue, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]NamedValue, 0, len(tags))
	for _, t := range tags {
		out = append(out, NamedValue{ID: t.ID, Name: t.Name})
	}
	return out, nil
}

func (s *Service) Categories(ctx context.Context) ([]NamedValue, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]NamedValue, 0, len(cats))
	for _, c := range cats {
		out = append(out, NamedValue{ID: c.ID, Name: c.Name})
	}
	return out, nil
}

// Create validates the payload and inserts the recipe graph. New recipes are
// drafts unless the payload says otherwise; an explicit slug wins over the title.
func (s *Service) Create(ctx context.Context, req *SaveRecipeRequest) (*SaveRecipeResponse, error) {
	g, err := buildGraph(req, StatusDraft)
	if err != nil {
		return nil, err
	}
	if slug := utils.Slugify(req.Slug); slug != "" {
		g.Recipe.Slug = slug
	}

	if err := s.repo.Insert(ctx, g); err != nil {
		log.Printf("recipe_create_failed slug=%s err=%v", g.Recipe.Slug, err)
		return nil, err
	}

	log.Printf("recipe_created recipe_id=%s slug=%s status=%s ingredients=%d steps=%d",
		g.Recipe.ID, g.Recipe.Slug, g.Recipe.Status, len(g.Ingredients), len(g.Steps))
	return &SaveRecipeResponse{ID: g.Recipe.ID, Slug: g.Recipe.Slug}, nil
}

// Update replaces the whole recipe graph. The slug is always regenerated from
// the title, so callers must follow the returned slug.
func (s *Service) Update(ctx context.Context, id string, req *SaveRecipeRequest) (*SaveRecipeResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrRecipeNotFound
	}

	g, err := buildGraph(req, StatusPublished)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Replace(ctx, id, g); err != nil {
		log.Printf("recipe_update_failed recipe_id=%s slug=%s err=%v", id, g.Recipe.Slug, err)
		return nil, err
	}

	log.Printf("recipe_updated recipe_id=%s slug=%s status=%s", id, g.Recipe.Slug, g.Recipe.Status)
	return &SaveRecipeResponse{ID: id, Slug: g.Recipe.Slug}, nil
}

// buildGraph validates a payload and converts it into rows. Blank ingredient
// rows and empty steps are dropped first; step ingredient positions are
// re-based onto the kept ingredients.
func buildGraph(req *SaveRecipeRequest, defaultStatus Status) (*Graph, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	remap := make([]int, len(req.Ingredients))
	ingredients := make([]Ingredient, 0, len(req.Ingredients))
	for i, in := range req.Ingredients {
		if !in.hasContent() {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Text:       strings.TrimSpace(in.Text),
			Quantity:   in.Quantity.Value,
			Unit:       utils.StringPtr(in.Unit),
			Note:       utils.StringPtr(in.Note),
			IsOptional: in.IsOptional,
		})
		remap[i] = len(ingredients)
	}
	if len(ingredients) == 0 {
		return nil, ErrIngredientRequired
	}

	steps := make([]StepInput, 0, len(req.Steps))
	for _, st := range req.Steps {
		content := strings.TrimSpace(st.Content)
		if content == "" {
			continue
		}
		positions := make([]int, 0, len(st.IngredientPositions))
		for _, p := range st.IngredientPositions {
			if p >= 1 && p <= len(remap) && remap[p-1] > 0 {
				positions = append(positions, remap[p-1])
			}
		}
		steps = append(steps, StepInput{Content: content, IngredientPositions: positions})
	}
	if len(steps) == 0 {
		return nil, ErrStepRequired
	}

	status := req.Status
	if status == "" {
		status = defaultStatus
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	slug := utils.Slugify(title)
	if slug == "" {
		return nil, ErrTitleUnsluggable
	}

	return &Graph{
		Recipe: Recipe{
			Title:       title,
			Slug:        slug,
			Description: utils.StringPtr(req.Description),
			PrepMinutes: req.PrepMinutes.Int(),
			CookMinutes: req.CookMinutes.Int(),
			Servings:    req.Servings.Value,
			Status:      status,
		},
		Ingredients: ingredients,
		Steps:       steps,
		Tags:        utils.UniqueNames(req.Tags),
		Categories:  utils.UniqueNames(req.Categories),
	}, nil
}

func summaries(recipes []Recipe) []RecipeSummary {
	out := make([]RecipeSummary, 0, len(recipes))
	for i := range recipes {
		out = append(out, Summarize(&recipes[i]))
	}
	return out
}

// Summarize flattens a recipe with its tag and category links into list form.
func Summarize(r *Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Servings:    r.Servings,
		Status:      r.Status,
		Tags:        tagValues(r),
		Categories:  categoryValues(r),
	}
}
