package shoppinglist

import "errors"

var (
	ErrUnauthorized           = errors.New("Unauthorized.")
	ErrIngredientTextRequired = errors.New("Ingredient text is required.")
	ErrCheckedNotBoolean      = errors.New("isChecked must be a boolean.")
	ErrItemNotFound           = errors.New("shopping list item not found")
)
