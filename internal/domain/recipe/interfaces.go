package recipe

import "context"

// RecipeRepository defines the persistence operations the service needs.
type RecipeRepository interface {
	ListPublished(ctx context.Context, titleQuery string) ([]Recipe, error)
	ListAll(ctx context.Context) ([]Recipe, error)
	FindBySlug(ctx context.Context, slug string, publishedOnly bool) (*Recipe, error)
	ListTags(ctx context.Context) ([]Tag, error)
	ListCategories(ctx context.Context) ([]Category, error)
	Insert(ctx context.Context, g *Graph) error
	Replace(ctx context.Context, id string, g *Graph) error
}
