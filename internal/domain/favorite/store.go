package favorite

import (
	"encoding/json"
	"errors"
)

const StorageKey = "kaselFavorites"

var ErrRecipeIDRequired = errors.New("Recipe id is required.")

// Storage is the browser-scoped key/value backing of a Store.
type Storage interface {
	Get(key string) ([]byte, bool)
	Set(key string, data []byte) error
}

// Store holds one browser's favorites, most recently added first.
// It is not safe for concurrent use.
type Store struct {
	storage   Storage
	favorites []Recipe
	hydrated  bool
}

func NewStore(storage Storage) *Store {
	return &Store{storage: storage}
}

// Load reads the persisted list. Missing or malformed data yields an empty
// list; either way the store is marked hydrated.
func (s *Store) Load() {
	s.favorites = read(s.storage)
	s.hydrated = true
}

func read(storage Storage) []Recipe {
	raw, ok := storage.Get(StorageKey)
	if !ok || len(raw) == 0 {
		return []Recipe{}
	}
	var list []Recipe
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		return []Recipe{}
	}
	return list
}

// Hydrated distinguishes "not loaded yet" from "loaded and empty".
func (s *Store) Hydrated() bool { return s.hydrated }

func (s *Store) Favorites() []Recipe {
	out := make([]Recipe, len(s.favorites))
	copy(out, s.favorites)
	return out
}

func (s *Store) IsFavorite(id RecipeID) bool {
	return s.indexOf(id) >= 0
}

func (s *Store) indexOf(id RecipeID) int {
	for i, r := range s.favorites {
		if r.ID.String() == id.String() {
			return i
		}
	}
	return -1
}

// Toggle removes the recipe when present, otherwise puts it at the front.
// It reports whether the recipe is a favorite afterwards.
func (s *Store) Toggle(r Recipe) (bool, error) {
	if r.ID == "" {
		return false, ErrRecipeIDRequired
	}
	if !s.hydrated {
		s.Load()
	}

	var next []Recipe
	favorited := false
	if i := s.indexOf(r.ID); i >= 0 {
		next = make([]Recipe, 0, len(s.favorites)-1)
		next = append(next, s.favorites[:i]...)
		next = append(next, s.favorites[i+1:]...)
	} else {
		next = make([]Recipe, 0, len(s.favorites)+1)
		next = append(next, r)
		next = append(next, s.favorites...)
		favorited = true
	}

	data, err := json.Marshal(next)
	if err != nil {
		return false, err
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		return false, err
	}
	s.favorites = next
	return favorited, nil
}
