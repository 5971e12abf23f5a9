package recipe

import "errors"

// Validation messages are shared with the editor so a draft and the server
// reject the same input with the same sentence.
var (
	ErrTitleRequired      = errors.New("Title is required.")
	ErrIngredientRequired = errors.New("At least one ingredient is required.")
	ErrStepRequired       = errors.New("At least one preparation step is required.")
	ErrInvalidStatus      = errors.New("Status must be draft or published.")
	ErrTitleUnsluggable   = errors.New("Title must contain at least one letter or number.")

	ErrRecipeNotFound = errors.New("recipe not found")
	ErrSlugConflict   = errors.New("a recipe with this title already exists")
)

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrTitleRequired) ||
		errors.Is(err, ErrIngredientRequired) ||
		errors.Is(err, ErrStepRequired) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrTitleUnsluggable)
}
