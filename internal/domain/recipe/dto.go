package recipe

import (
	"bytes"
	"encoding/json"
	"strings"

	"recipebox/internal/pkg/utils"
)

// SaveRecipeRequest is the single-shot payload for create and update.
// The whole recipe graph travels in one request.
type SaveRecipeRequest struct {
	Title       string               `json:"title"`
	Slug        string               `json:"slug,omitempty"`
	Description string               `json:"description"`
	PrepMinutes utils.OptionalNumber `json:"prepMinutes"`
	CookMinutes utils.OptionalNumber `json:"cookMinutes"`
	Servings    utils.OptionalNumber `json:"servings"`
	Status      Status               `json:"status,omitempty"`
	Ingredients []IngredientInput    `json:"ingredients"`
	Steps       []StepInput          `json:"steps"`
	Tags        []string             `json:"tags"`
	Categories  []string             `json:"categories"`
}

type IngredientInput struct {
	Text       string               `json:"text"`
	Quantity   utils.OptionalNumber `json:"quantity"`
	Unit       string               `json:"unit"`
	Note       string               `json:"note"`
	IsOptional bool                 `json:"isOptional"`
}

// StepInput accepts either a bare string or an object. IngredientPositions
// are 1-based indexes into the request's ingredient list.
type StepInput struct {
	Content             string `json:"content"`
	IngredientPositions []int  `json:"ingredientPositions,omitempty"`
}

func (s *StepInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var content string
		if err := json.Unmarshal(data, &content); err != nil {
			return err
		}
		*s = StepInput{Content: content}
		return nil
	}
	type plain StepInput
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = StepInput(p)
	return nil
}

// hasContent mirrors the editor rule: a row counts when any field is filled in.
func (i IngredientInput) hasContent() bool {
	return strings.TrimSpace(i.Text) != "" ||
		i.Quantity.Value != nil ||
		strings.TrimSpace(i.Unit) != "" ||
		strings.TrimSpace(i.Note) != ""
}

type SaveRecipeResponse struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

type RecipeSummary struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Slug        string       `json:"slug"`
	Description *string      `json:"description"`
	PrepMinutes *int         `json:"prepMinutes"`
	CookMinutes *int         `json:"cookMinutes"`
	Servings    *float64     `json:"servings"`
	Status      Status       `json:"status"`
	Tags        []NamedValue `json:"tags"`
	Categories  []NamedValue `json:"categories"`
}

type NamedValue struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
