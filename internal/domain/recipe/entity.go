package recipe

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Recipe owns its ingredient and step lists. Tags and categories are
// linked through explicit join rows so the category tables stay optional.
type Recipe struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description *string   `json:"description"`
	PrepMinutes *int      `json:"prepMinutes"`
	CookMinutes *int      `json:"cookMinutes"`
	Servings    *float64  `json:"servings"`
	Status      Status    `json:"status" gorm:"type:varchar(16);not null;default:draft;index"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Ingredients   []Ingredient      `json:"-" gorm:"foreignKey:RecipeID"`
	Steps         []InstructionStep `json:"-" gorm:"foreignKey:RecipeID"`
	TagLinks      []RecipeTag       `json:"-" gorm:"foreignKey:RecipeID"`
	CategoryLinks []RecipeCategory  `json:"-" gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string { return "recipes" }

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// Tags returns the linked tags in link order.
func (r *Recipe) Tags() []Tag {
	out := make([]Tag, 0, len(r.TagLinks))
	for _, l := range r.TagLinks {
		if l.Tag != nil {
			out = append(out, *l.Tag)
		}
	}
	return out
}

// Categories returns the linked categories; empty when the relation was not loaded.
func (r *Recipe) Categories() []Category {
	out := make([]Category, 0, len(r.CategoryLinks))
	for _, l := range r.CategoryLinks {
		if l.Category != nil {
			out = append(out, *l.Category)
		}
	}
	return out
}

type Ingredient struct {
	ID         string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipeID   string   `json:"recipeId" gorm:"type:varchar(36);not null;index"`
	Position   int      `json:"position" gorm:"not null"`
	Text       string   `json:"text" gorm:"column:ingredient_text;not null"`
	Quantity   *float64 `json:"quantity"`
	Unit       *string  `json:"unit"`
	Note       *string  `json:"note"`
	IsOptional bool     `json:"isOptional" gorm:"not null;default:false"`
}

func (Ingredient) TableName() string { return "recipe_ingredients" }

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

type InstructionStep struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RecipeID string `json:"recipeId" gorm:"type:varchar(36);not null;index"`
	Position int    `json:"position" gorm:"not null"`
	Content  string `json:"content" gorm:"type:text;not null"`

	IngredientLinks []StepIngredient `json:"-" gorm:"foreignKey:StepID"`
}

func (InstructionStep) TableName() string { return "recipe_instruction_steps" }

func (s *InstructionStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// IngredientIDs lists the ingredient ids referenced by the step.
func (s *InstructionStep) IngredientIDs() []string {
	ids := make([]string, 0, len(s.IngredientLinks))
	for _, l := range s.IngredientLinks {
		ids = append(ids, l.IngredientID)
	}
	return ids
}

type StepIngredient struct {
	StepID       string `gorm:"primaryKey;type:varchar(36)"`
	IngredientID string `gorm:"primaryKey;type:varchar(36);index"`
}

func (StepIngredient) TableName() string { return "recipe_instruction_step_ingredients" }

type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(120);uniqueIndex;not null"`
	Category  *string   `json:"category,omitempty"`
	CreatedAt time.Time `json:"-"`
}

func (Tag) TableName() string { return "tags" }

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

type RecipeTag struct {
	RecipeID string `gorm:"primaryKey;type:varchar(36)"`
	TagID    string `gorm:"primaryKey;type:varchar(36);index"`

	Tag *Tag `gorm:"foreignKey:TagID"`
}

func (RecipeTag) TableName() string { return "recipe_tags" }

type Category struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(120);uniqueIndex;not null"`
	CreatedAt time.Time `json:"-"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type RecipeCategory struct {
	RecipeID   string `gorm:"primaryKey;type:varchar(36)"`
	CategoryID string `gorm:"primaryKey;type:varchar(36);index"`

	Category *Category `gorm:"foreignKey:CategoryID"`
}

func (RecipeCategory) TableName() string { return "recipe_categories" }

// CoreModels are always migrated.
func CoreModels() []any {
	return []any{&Recipe{}, &Ingredient{}, &InstructionStep{}, &StepIngredient{}, &Tag{}, &RecipeTag{}}
}

// CategoryModels are migrated unless categories are switched off.
func CategoryModels() []any {
	return []any{&Category{}, &RecipeCategory{}}
}
