package favorite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RecipeID accepts either a JSON string or a JSON number so snapshots taken
// from older clients with numeric ids still compare equal.
type RecipeID string

func (id *RecipeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecipeID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("recipe id must be a string or number: %w", err)
	}
	canonical, err := canonicalNumber(n)
	if err != nil {
		return fmt.Errorf("recipe id must be a string or number: %w", err)
	}
	*id = RecipeID(canonical)
	return nil
}

// canonicalNumber renders 1, 1.0 and 1e0 the same way.
func canonicalNumber(n json.Number) (string, error) {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	f, err := n.Float64()
	if err != nil {
		return "", err
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

func (id RecipeID) String() string { return string(id) }

type TagSnapshot struct {
	ID       RecipeID `json:"id"`
	Name     string   `json:"name"`
	Category *string  `json:"category,omitempty"`
}

// Recipe is the denormalized copy kept in the favorites list. It is not
// refreshed when the canonical recipe changes.
type Recipe struct {
	ID          RecipeID      `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Description *string       `json:"description,omitempty"`
	Tags        []TagSnapshot `json:"tags,omitempty"`
}
