package shoppinglist

import (
	"context"
	"log"
	"strings"

	"recipebox/internal/pkg/utils"
)

type ItemRepository interface {
	List(ctx context.Context, userID string) ([]Item, error)
	Create(ctx context.Context, item *Item) error
	SetChecked(ctx context.Context, userID, id string, checked bool) (*Item, error)
	Delete(ctx context.Context, userID, id string) error
	Clear(ctx context.Context, userID string) (int64, error)
}

type AddItemInput struct {
	IngredientText string  `json:"ingredientText"`
	RecipeID       *string `json:"recipeId"`
	RecipeTitle    *string `json:"recipeTitle"`
}

// Service scopes every operation to the session user. An empty user id is
// rejected before the repository is touched.
type Service struct {
	repo      ItemRepository
	publisher Publisher
}

func NewService(repo ItemRepository, publisher Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) List(ctx context.Context, userID string) ([]Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	items, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

func (s *Service) Add(ctx context.Context, userID string, in AddItemInput) (*Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	text := strings.TrimSpace(in.IngredientText)
	if text == "" {
		return nil, ErrIngredientTextRequired
	}

	item := &Item{
		UserID:         userID,
		IngredientText: text,
		RecipeID:       trimmed(in.RecipeID),
		RecipeTitle:    trimmed(in.RecipeTitle),
	}
	if err := s.repo.Create(ctx, item); err != nil {
		log.Printf("shopping_list_add_failed user_id=%s err=%v", userID, err)
		return nil, err
	}

	s.publish(userID, Event{Type: EventItemAdded, Item: item})
	return item, nil
}

func (s *Service) SetChecked(ctx context.Context, userID, id string, checked bool) (*Item, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}
	item, err := s.repo.SetChecked(ctx, userID, id, checked)
	if err != nil {
		return nil, err
	}
	s.publish(userID, Event{Type: EventItemUpdated, Item: item})
	return item, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.publish(userID, Event{Type: EventItemDeleted, ID: id})
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	if userID == "" {
		return ErrUnauthorized
	}
	n, err := s.repo.Clear(ctx, userID)
	if err != nil {
		return err
	}
	log.Printf("shopping_list_cleared user_id=%s items=%d", userID, n)
	s.publish(userID, Event{Type: EventListCleared})
	return nil
}

func (s *Service) publish(userID string, ev Event) {
	if s.publisher != nil {
		s.publisher.Publish(userID, ev)
	}
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	return utils.StringPtr(*s)
}
