package meal

import "errors"

var (
	ErrMealNameRequired = errors.New("Enter a meal name to continue.")
	ErrMealRequired     = errors.New("Choose a meal or enter a new meal name.")
	ErrMealNotFound     = errors.New("meal not found")
	ErrMealExists       = errors.New("a meal with this name already exists")
)
