package recipe

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/database"
	"recipebox/internal/pkg/utils"
)

// Graph is a recipe with every owned collection, ready to be written in one go.
type Graph struct {
	Recipe      Recipe
	Ingredients []Ingredient
	Steps       []StepInput
	Tags        []string
	Categories  []string
}

type Repository struct {
	db   *gorm.DB
	caps database.Capabilities
}

func NewRepository(db *gorm.DB, caps database.Capabilities) *Repository {
	return &Repository{db: db, caps: caps}
}

// CategoriesEnabled reports whether the category relation is part of the schema.
func (r *Repository) CategoriesEnabled() bool {
	return r.caps.Categories
}

func (r *Repository) withRelations(q *gorm.DB, full bool) *gorm.DB {
	q = q.Preload("TagLinks.Tag")
	if r.caps.Categories {
		q = q.Preload("CategoryLinks.Category")
	}
	if full {
		q = q.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).Preload("Steps.IngredientLinks")
	}
	return q
}

// ListPublished returns published recipes newest first, optionally filtered by
// a case-insensitive title substring.
func (r *Repository) ListPublished(ctx context.Context, titleQuery string) ([]Recipe, error) {
	q := r.db.WithContext(ctx).Where("status = ?", StatusPublished)
	if term := strings.TrimSpace(titleQuery); term != "" {
		q = q.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(term))+"%")
	}

	var recipes []Recipe
	err := r.withRelations(q, false).Order("created_at DESC").Find(&recipes).Error
	return recipes, err
}

// ListAll returns every recipe regardless of status.
func (r *Repository) ListAll(ctx context.Context) ([]Recipe, error) {
	var recipes []Recipe
	err := r.withRelations(r.db.WithContext(ctx), false).Order("created_at DESC").Find(&recipes).Error
	return recipes, err
}

// FindBySlug loads the full graph. publishedOnly hides drafts.
func (r *Repository) FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*Recipe, error) {
	q := r.db.WithContext(ctx).Where("slug = ?", slug)
	if publishedOnly {
		q = q.Where("status = ?", StatusPublished)
	}
	return r.first(q)
}

func (r *Repository) first(q *gorm.DB) (*Recipe, error) {
	var rec Recipe
	if err := r.withRelations(q, true).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &rec, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

// ListCategories returns an empty list when the schema has no categories.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	if !r.caps.Categories {
		return []Category{}, nil
	}
	var cats []Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&cats).Error
	return cats, err
}

// Insert writes a new recipe and all of its children in one transaction.
func (r *Repository) Insert(ctx context.Context, g *Graph) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&g.Recipe).Error; err != nil {
			return translateWriteError(err)
		}
		return r.writeChildren(tx, g)
	})
	return err
}

// Replace overwrites the recipe row and replaces every owned collection and link
// set wholesale. The last writer wins.
func (r *Repository) Replace(ctx context.Context, id string, g *Graph) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Recipe
		if err := tx.Select("id", "created_at").Where("id = ?", id).First(&existing).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecipeNotFound
			}
			return err
		}

		g.Recipe.ID = id
		g.Recipe.CreatedAt = existing.CreatedAt
		err := tx.Model(&Recipe{}).Where("id = ?", id).Updates(map[string]any{
			"title":        g.Recipe.Title,
			"slug":         g.Recipe.Slug,
			"description":  g.Recipe.Description,
			"prep_minutes": g.Recipe.PrepMinutes,
			"cook_minutes": g.Recipe.CookMinutes,
			"servings":     g.Recipe.Servings,
			"status":       g.Recipe.Status,
		}).Error
		if err != nil {
			return translateWriteError(err)
		}

		if err := r.deleteChildren(tx, id); err != nil {
			return err
		}
		return r.writeChildren(tx, g)
	})
}

func (r *Repository) deleteChildren(tx *gorm.DB, recipeID string) error {
	stepIDs := tx.Model(&InstructionStep{}).Select("id").Where("recipe_id = ?", recipeID)
	if err := tx.Where("step_id IN (?)", stepIDs).Delete(&StepIngredient{}).Error; err != nil {
		return fmt.Errorf("delete step ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&InstructionStep{}).Error; err != nil {
		return fmt.Errorf("delete steps: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&Ingredient{}).Error; err != nil {
		return fmt.Errorf("delete ingredients: %w", err)
	}
	if err := tx.Where("recipe_id = ?", recipeID).Delete(&RecipeTag{}).Error; err != nil {
		return fmt.Errorf("delete tag links: %w", err)
	}
	if r.caps.Categories {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&RecipeCategory{}).Error; err != nil {
			return fmt.Errorf("delete category links: %w", err)
		}
	}
	return nil
}

func (r *Repository) writeChildren(tx *gorm.DB, g *Graph) error {
	recipeID := g.Recipe.ID

	ingredientIDs := make([]string, len(g.Ingredients))
	for i := range g.Ingredients {
		ing := &g.Ingredients[i]
		ing.ID = ""
		ing.RecipeID = recipeID
		ing.Position = i + 1
		if err := tx.Create(ing).Error; err != nil {
			return fmt.Errorf("insert ingredient %d: %w", i+1, err)
		}
		ingredientIDs[i] = ing.ID
	}

	for i, in := range g.Steps {
		step := InstructionStep{
			RecipeID: recipeID,
			Position: i + 1,
			Content:  strings.TrimSpace(in.Content),
		}
		if err := tx.Create(&step).Error; err != nil {
			return fmt.Errorf("insert step %d: %w", i+1, err)
		}

		links := stepLinks(step.ID, in.IngredientPositions, ingredientIDs)
		if len(links) == 0 {
			continue
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("link step %d ingredients: %w", i+1, err)
		}
	}

	if err := r.linkTags(tx, recipeID, g.Tags); err != nil {
		return err
	}
	return r.linkCategories(tx, recipeID, g.Categories)
}

// stepLinks maps 1-based ingredient positions to join rows. Out-of-range and
// repeated positions are skipped.
func stepLinks(stepID string, positions []int, ingredientIDs []string) []StepIngredient {
	seen := make(map[int]bool, len(positions))
	links := make([]StepIngredient, 0, len(positions))
	for _, p := range positions {
		if p < 1 || p > len(ingredientIDs) || seen[p] {
			continue
		}
		seen[p] = true
		links = append(links, StepIngredient{StepID: stepID, IngredientID: ingredientIDs[p-1]})
	}
	return links
}

func (r *Repository) linkTags(tx *gorm.DB, recipeID string, names []string) error {
	names = utils.UniqueNames(names)
	if len(names) == 0 {
		return nil
	}

	tags, err := resolveNamed(tx, names, func(name string) *Tag { return &Tag{Name: name} })
	if err != nil {
		return fmt.Errorf("resolve tags: %w", err)
	}

	links := make([]RecipeTag, 0, len(tags))
	for _, t := range tags {
		links = append(links, RecipeTag{RecipeID: recipeID, TagID: t.ID})
	}
	if len(links) == 0 {
		return nil
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("link tags: %w", err)
	}
	return nil
}

func (r *Repository) linkCategories(tx *gorm.DB, recipeID string, names []string) error {
	names = utils.UniqueNames(names)
	if len(names) == 0 {
		return nil
	}
	if !r.caps.Categories {
		log.Printf("recipe_categories_skipped recipe_id=%s count=%d reason=relation_unavailable", recipeID, len(names))
		return nil
	}

	cats, err := resolveNamed(tx, names, func(name string) *Category { return &Category{Name: name} })
	if err != nil {
		return fmt.Errorf("resolve categories: %w", err)
	}

	links := make([]RecipeCategory, 0, len(cats))
	for _, c := range cats {
		links = append(links, RecipeCategory{RecipeID: recipeID, CategoryID: c.ID})
	}
	if len(links) == 0 {
		return nil
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("link categories: %w", err)
	}
	return nil
}

type named interface {
	Tag | Category
}

// resolveNamed finds rows matching names case-insensitively, inserts the missing
// ones and returns them in the order of names. Names are folded in Go rather
// than with SQL LOWER, which only folds ASCII on SQLite.
func resolveNamed[T named](tx *gorm.DB, names []string, build func(string) *T) ([]T, error) {
	keys := make([]string, len(names))
	for i, n := range names {
		keys[i] = utils.NormalizeName(n)
	}

	lookup := func() (map[string]T, error) {
		var rows []T
		if err := tx.Find(&rows).Error; err != nil {
			return nil, err
		}
		byKey := make(map[string]T, len(rows))
		for _, row := range rows {
			key := utils.NormalizeName(nameOf(row))
			if _, dup := byKey[key]; !dup {
				byKey[key] = row
			}
		}
		return byKey, nil
	}

	byKey, err := lookup()
	if err != nil {
		return nil, err
	}

	missing := false
	for i, key := range keys {
		if _, ok := byKey[key]; ok {
			continue
		}
		missing = true
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(build(names[i])).Error; err != nil {
			return nil, err
		}
	}
	if missing {
		if byKey, err = lookup(); err != nil {
			return nil, err
		}
	}

	out := make([]T, 0, len(keys))
	for i, key := range keys {
		row, ok := byKey[key]
		if !ok {
			return nil, fmt.Errorf("name %q was not stored", names[i])
		}
		out = append(out, row)
	}
	return out, nil
}

func nameOf[T named](row T) string {
	switch v := any(row).(type) {
	case Tag:
		return v.Name
	case Category:
		return v.Name
	}
	return ""
}

func translateWriteError(err error) error {
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrSlugConflict, err)
	}
	return err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
