// Package editor holds the client-side recipe form: a draft that mirrors the
// server's recipe graph, edited locally and saved in one request.
package editor

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"recipebox/internal/domain/recipe"
	"recipebox/internal/pkg/utils"
)

var ErrSaveInProgress = errors.New("a save is already in progress")

type Ingredient struct {
	ID              string
	Text            string
	Quantity        string
	Unit            string
	Note            string
	IsOptional      bool
	AssignedStepIDs []string
}

func (i Ingredient) hasContent() bool {
	return strings.TrimSpace(i.Text) != "" ||
		strings.TrimSpace(i.Quantity) != "" ||
		strings.TrimSpace(i.Unit) != "" ||
		strings.TrimSpace(i.Note) != ""
}

func (i Ingredient) assignedTo(stepID string) bool {
	for _, id := range i.AssignedStepIDs {
		if id == stepID {
			return true
		}
	}
	return false
}

type Step struct {
	ID      string
	Content string
}

// Option is a tag or category choice. Options created in the form carry a
// "new-" id until the server stores them by name.
type Option struct {
	ID   string
	Name string
}

// Saver persists a whole recipe graph. An empty recipeID creates a recipe.
type Saver interface {
	SaveRecipe(ctx context.Context, recipeID string, req *recipe.SaveRecipeRequest) (*recipe.SaveRecipeResponse, error)
}

// Draft is the form state. Rows carry temporary ids so steps can be linked to
// ingredients before anything is stored. A Draft is not safe for concurrent use.
type Draft struct {
	RecipeID    string
	Slug        string
	Title       string
	Description string
	PrepMinutes string
	CookMinutes string
	Servings    string

	Ingredients []Ingredient
	Steps       []Step

	TagOptions         []Option
	SelectedTags       []Option
	CategoryOptions    []Option
	SelectedCategories []Option

	// Error holds the last save failure; Notice the last success message.
	Error  string
	Notice string

	saving bool
	newID  func() string
}

// NewDraft returns a blank form with one empty ingredient row and one empty
// step row.
func NewDraft() *Draft {
	d := &Draft{newID: uuid.NewString}
	d.ensureRows()
	return d
}

// FromEditView seeds a draft from a stored recipe.
func FromEditView(v *recipe.EditView) *Draft {
	d := &Draft{
		newID:       uuid.NewString,
		RecipeID:    v.ID,
		Slug:        v.Slug,
		Title:       v.Title,
		Description: v.Description,
		PrepMinutes: intText(v.PrepMinutes),
		CookMinutes: intText(v.CookMinutes),
		Servings:    floatText(v.Servings),
	}
	for _, ing := range v.Ingredients {
		d.Ingredients = append(d.Ingredients, Ingredient{
			ID:              ing.ID,
			Text:            ing.Text,
			Quantity:        floatText(ing.Quantity),
			Unit:            ing.Unit,
			Note:            ing.Note,
			IsOptional:      ing.IsOptional,
			AssignedStepIDs: append([]string{}, ing.AssignedStepIDs...),
		})
	}
	for _, st := range v.Steps {
		d.Steps = append(d.Steps, Step{ID: st.ID, Content: st.Content})
	}
	d.SelectedTags = options(v.Tags)
	d.SelectedCategories = options(v.Categories)
	d.TagOptions = append([]Option{}, d.SelectedTags...)
	d.CategoryOptions = append([]Option{}, d.SelectedCategories...)
	d.ensureRows()
	return d
}

func options(values []recipe.NamedValue) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{ID: v.ID, Name: v.Name})
	}
	return out
}

func intText(v *int) string {
	if v == nil || *v == 0 {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatText(v *float64) string {
	if v == nil || *v == 0 {
		return ""
	}
	return utils.FormatQuantity(*v)
}

func (d *Draft) ensureRows() {
	if len(d.Ingredients) == 0 {
		d.Ingredients = []Ingredient{{ID: d.newID()}}
	}
	if len(d.Steps) == 0 {
		d.Steps = []Step{{ID: d.newID()}}
	}
}

func (d *Draft) AddIngredient() string {
	id := d.newID()
	d.Ingredients = append(d.Ingredients, Ingredient{ID: id})
	return id
}

// RemoveIngredient is a no-op when only one row is left.
func (d *Draft) RemoveIngredient(id string) {
	if len(d.Ingredients) <= 1 {
		return
	}
	kept := d.Ingredients[:0]
	for _, ing := range d.Ingredients {
		if ing.ID != id {
			kept = append(kept, ing)
		}
	}
	d.Ingredients = kept
}

// UpdateIngredient applies fn to the row with the given id.
func (d *Draft) UpdateIngredient(id string, fn func(*Ingredient)) {
	for i := range d.Ingredients {
		if d.Ingredients[i].ID == id {
			fn(&d.Ingredients[i])
			return
		}
	}
}

func (d *Draft) AddStep() string {
	id := d.newID()
	d.Steps = append(d.Steps, Step{ID: id})
	return id
}

// RemoveStep is a no-op when only one row is left. The step is also removed
// from every ingredient's assignments.
func (d *Draft) RemoveStep(id string) {
	if len(d.Steps) <= 1 {
		return
	}
	kept := d.Steps[:0]
	for _, st := range d.Steps {
		if st.ID != id {
			kept = append(kept, st)
		}
	}
	d.Steps = kept

	for i := range d.Ingredients {
		ids := d.Ingredients[i].AssignedStepIDs[:0]
		for _, sid := range d.Ingredients[i].AssignedStepIDs {
			if sid != id {
				ids = append(ids, sid)
			}
		}
		d.Ingredients[i].AssignedStepIDs = ids
	}
}

func (d *Draft) UpdateStep(id, content string) {
	for i := range d.Steps {
		if d.Steps[i].ID == id {
			d.Steps[i].Content = content
			return
		}
	}
}

// ToggleIngredientStep links or unlinks an ingredient and a step.
func (d *Draft) ToggleIngredientStep(ingredientID, stepID string) {
	d.UpdateIngredient(ingredientID, func(ing *Ingredient) {
		if ing.assignedTo(stepID) {
			ids := make([]string, 0, len(ing.AssignedStepIDs))
			for _, sid := range ing.AssignedStepIDs {
				if sid != stepID {
					ids = append(ids, sid)
				}
			}
			ing.AssignedStepIDs = ids
			return
		}
		ing.AssignedStepIDs = append(ing.AssignedStepIDs, stepID)
	})
}

// Payload validates the draft and builds the save request. Blank ingredient
// rows and empty steps are dropped; step links are sent as 1-based positions
// in the kept ingredient list.
func (d *Draft) Payload(status recipe.Status) (*recipe.SaveRecipeRequest, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return nil, recipe.ErrTitleRequired
	}

	var kept []Ingredient
	for _, ing := range d.Ingredients {
		if ing.hasContent() {
			kept = append(kept, ing)
		}
	}
	if len(kept) == 0 {
		return nil, recipe.ErrIngredientRequired
	}

	req := &recipe.SaveRecipeRequest{
		Title:       title,
		Description: strings.TrimSpace(d.Description),
		PrepMinutes: parseOptional(d.PrepMinutes),
		CookMinutes: parseOptional(d.CookMinutes),
		Servings:    parseOptional(d.Servings),
		Status:      status,
		Tags:        names(d.SelectedTags),
		Categories:  names(d.SelectedCategories),
	}
	for _, ing := range kept {
		req.Ingredients = append(req.Ingredients, recipe.IngredientInput{
			Text:       strings.TrimSpace(ing.Text),
			Quantity:   parseOptional(ing.Quantity),
			Unit:       strings.TrimSpace(ing.Unit),
			Note:       strings.TrimSpace(ing.Note),
			IsOptional: ing.IsOptional,
		})
	}

	for _, st := range d.Steps {
		content := strings.TrimSpace(st.Content)
		if content == "" {
			continue
		}
		step := recipe.StepInput{Content: content}
		for pos, ing := range kept {
			if ing.assignedTo(st.ID) {
				step.IngredientPositions = append(step.IngredientPositions, pos+1)
			}
		}
		req.Steps = append(req.Steps, step)
	}
	if len(req.Steps) == 0 {
		return nil, recipe.ErrStepRequired
	}

	return req, nil
}

func names(opts []Option) []string {
	out := make([]string, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Name)
	}
	return out
}

// parseOptional mirrors the form's number inputs: blank or unparsable text is
// sent as null.
func parseOptional(s string) utils.OptionalNumber {
	s = strings.TrimSpace(s)
	if s == "" {
		return utils.OptionalNumber{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return utils.OptionalNumber{}
	}
	return utils.NewOptionalNumber(v)
}

// Save validates, sends the whole draft in one request and records the
// outcome. It reports whether the slug changed, in which case the caller
// should move to the new edit location. On failure the draft is kept and the
// message is stored in Error.
func (d *Draft) Save(ctx context.Context, saver Saver, status recipe.Status) (bool, error) {
	if d.saving {
		return false, ErrSaveInProgress
	}
	d.Error = ""
	d.Notice = ""

	req, err := d.Payload(status)
	if err != nil {
		d.Error = err.Error()
		return false, err
	}

	d.saving = true
	defer func() { d.saving = false }()

	creating := d.RecipeID == ""
	res, err := saver.SaveRecipe(ctx, d.RecipeID, req)
	if err != nil {
		d.Error = err.Error()
		return false, err
	}

	d.Notice = notice(creating, status)
	if res.ID != "" {
		d.RecipeID = res.ID
	}
	if res.Slug == "" || res.Slug == d.Slug {
		return false, nil
	}
	d.Slug = res.Slug
	return true, nil
}

func notice(creating bool, status recipe.Status) string {
	switch {
	case creating && status == recipe.StatusPublished:
		return "Recipe created and published."
	case creating:
		return "Draft saved successfully."
	case status == recipe.StatusPublished:
		return "Recipe updated and published."
	default:
		return "Draft updated successfully."
	}
}
