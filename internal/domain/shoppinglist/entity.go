package shoppinglist

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Item is one line on a user's shopping list. RecipeID is a loose reference:
// deleting the recipe leaves the item and its stored title in place.
type Item struct {
	ID             string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID         string    `json:"userId" gorm:"type:varchar(64);not null;index"`
	IngredientText string    `json:"ingredientText" gorm:"not null"`
	IsChecked      bool      `json:"isChecked" gorm:"not null;default:false"`
	RecipeID       *string   `json:"recipeId" gorm:"type:varchar(36)"`
	RecipeTitle    *string   `json:"recipeTitle"`
	CreatedAt      time.Time `json:"createdAt" gorm:"index"`
}

func (Item) TableName() string { return "shopping_list_items" }

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func Models() []any {
	return []any{&Item{}}
}
