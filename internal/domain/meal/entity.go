package meal

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"recipebox/internal/domain/recipe"
)

// Meal groups recipes that are served together.
type Meal struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time `json:"updatedAt"`

	RecipeLinks []MealRecipe `json:"-" gorm:"foreignKey:MealID"`
}

func (Meal) TableName() string { return "meals" }

func (m *Meal) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// MealRecipe carries no attributes beyond its creation time, which orders a meal's recipes.
type MealRecipe struct {
	MealID    string    `gorm:"primaryKey;type:varchar(36)"`
	RecipeID  string    `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time `gorm:"index"`

	Recipe *recipe.Recipe `gorm:"foreignKey:RecipeID"`
}

func (MealRecipe) TableName() string { return "meal_recipes" }

func Models() []any {
	return []any{&Meal{}, &MealRecipe{}}
}
