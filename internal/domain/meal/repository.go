package meal

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"recipebox/internal/database"
)

type Repository struct {
	db   *gorm.DB
	caps database.Capabilities
}

func NewRepository(db *gorm.DB, caps database.Capabilities) *Repository {
	return &Repository{db: db, caps: caps}
}

// List returns meals newest first with their recipe links.
func (r *Repository) List(ctx context.Context) ([]Meal, error) {
	var meals []Meal
	err := r.db.WithContext(ctx).
		Preload("RecipeLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC").
		Find(&meals).Error
	return meals, err
}

// FindBySlug loads a meal with its recipes in link order.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*Meal, error) {
	q := r.db.WithContext(ctx).
		Preload("RecipeLinks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("RecipeLinks.Recipe").
		Preload("RecipeLinks.Recipe.TagLinks.Tag")
	if r.caps.Categories {
		q = q.Preload("RecipeLinks.Recipe.CategoryLinks.Category")
	}

	var m Meal
	if err := q.Where("slug = ?", slug).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) FindByID(ctx context.Context, id string) (*Meal, error) {
	var m Meal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *Repository) Create(ctx context.Context, m *Meal) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrMealExists
		}
		return err
	}
	return nil
}

// LinkRecipe is idempotent: linking the same recipe twice keeps the first link.
func (r *Repository) LinkRecipe(ctx context.Context, mealID, recipeID string) error {
	link := MealRecipe{MealID: mealID, RecipeID: recipeID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&link).Error
}
