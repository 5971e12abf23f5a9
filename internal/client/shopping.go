package client

import (
	"context"
	"sync"

	"recipebox/internal/domain/shoppinglist"
)

// ShoppingAPI is the subset of Client the cache needs.
type ShoppingAPI interface {
	ShoppingItems(ctx context.Context) ([]shoppinglist.Item, error)
	AddShoppingItem(ctx context.Context, in shoppinglist.AddItemInput) (*shoppinglist.Item, error)
	SetShoppingItemChecked(ctx context.Context, id string, checked bool) (*shoppinglist.Item, error)
	DeleteShoppingItem(ctx context.Context, id string) error
	ClearShoppingList(ctx context.Context) error
}

// ShoppingList is a local copy of the user's list. Toggle and Remove update
// the copy before the server answers and roll back when the call fails.
type ShoppingList struct {
	api   ShoppingAPI
	mu    sync.Mutex
	items []shoppinglist.Item
}

func NewShoppingList(api ShoppingAPI) *ShoppingList {
	return &ShoppingList{api: api}
}

func (s *ShoppingList) Items() []shoppinglist.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shoppinglist.Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *ShoppingList) CheckedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		if it.IsChecked {
			n++
		}
	}
	return n
}

func (s *ShoppingList) Load(ctx context.Context) error {
	items, err := s.api.ShoppingItems(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Add appends the stored item once the server accepts it.
func (s *ShoppingList) Add(ctx context.Context, in shoppinglist.AddItemInput) (*shoppinglist.Item, error) {
	item, err := s.api.AddShoppingItem(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.items = append(s.items, *item)
	s.mu.Unlock()
	return item, nil
}

// Toggle flips the checked flag locally, then asks the server. On failure
// only that item is restored, leaving other concurrent edits alone.
func (s *ShoppingList) Toggle(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return shoppinglist.ErrItemNotFound
	}
	previous := s.items[idx]
	s.items[idx].IsChecked = !previous.IsChecked
	next := s.items[idx].IsChecked
	s.mu.Unlock()

	updated, err := s.api.SetShoppingItemChecked(ctx, id, next)

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		if err != nil {
			s.items[i] = previous
		} else if updated != nil {
			s.items[i] = *updated
		}
	}
	return err
}

// Remove drops the item locally, then asks the server. On failure the list
// is restored to its state before the call.
func (s *ShoppingList) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return shoppinglist.ErrItemNotFound
	}
	snapshot := make([]shoppinglist.Item, len(s.items))
	copy(snapshot, s.items)
	s.items = append(s.items[:idx:idx], s.items[idx+1:]...)
	s.mu.Unlock()

	if err := s.api.DeleteShoppingItem(ctx, id); err != nil {
		s.mu.Lock()
		s.items = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// Clear empties the list. Nothing is sent unless confirm is set and there is
// something to clear; it reports whether a request was made.
func (s *ShoppingList) Clear(ctx context.Context, confirm bool) (bool, error) {
	s.mu.Lock()
	empty := len(s.items) == 0
	s.mu.Unlock()
	if !confirm || empty {
		return false, nil
	}

	if err := s.api.ClearShoppingList(ctx); err != nil {
		return true, err
	}
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	return true, nil
}

// indexOf must be called with mu held.
func (s *ShoppingList) indexOf(id string) int {
	for i, it := range s.items {
		if it.ID == id {
			return i
		}
	}
	return -1
}
