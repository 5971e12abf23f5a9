package recipe

import (
	"sort"
	"strings"

	"recipebox/internal/pkg/utils"
)

type ServingsView struct {
	Base      *float64 `json:"base"`
	Requested string   `json:"requested"`
	Valid     bool     `json:"valid"`
	Ratio     float64  `json:"ratio"`
	Display   *string  `json:"display"`
}

type IngredientView struct {
	ID         string  `json:"id"`
	Position   int     `json:"position"`
	Text       string  `json:"text"`
	Quantity   *string `json:"quantity"`
	Unit       *string `json:"unit"`
	Note       *string `json:"note"`
	IsOptional bool    `json:"isOptional"`
	Label      string  `json:"label"`
}

type StepView struct {
	ID          string   `json:"id"`
	Position    int      `json:"position"`
	Content     string   `json:"content"`
	Ingredients []string `json:"ingredients"`
}

// DetailView is a published recipe prepared for display.
type DetailView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description"`
	PrepMinutes *int             `json:"prepMinutes"`
	CookMinutes *int             `json:"cookMinutes"`
	Status      Status           `json:"status"`
	Servings    ServingsView     `json:"servings"`
	Tags        []NamedValue     `json:"tags"`
	Categories  []NamedValue     `json:"categories"`
	Ingredients []IngredientView `json:"ingredients"`
	Steps       []StepView       `json:"steps"`
}

// BuildDetailView scales every ingredient by the requested servings and
// decorates each step with the labels of the ingredients it uses.
func BuildDetailView(r *Recipe, requestedServings string) *DetailView {
	requestedServings = strings.TrimSpace(requestedServings)
	ratio := utils.ScaleRatio(requestedServings, r.Servings)
	_, valid := utils.ParseServings(requestedServings)

	servings := ServingsView{
		Base:      r.Servings,
		Requested: requestedServings,
		Valid:     valid,
		Ratio:     ratio,
	}
	if valid {
		servings.Display = &requestedServings
	} else if r.Servings != nil && *r.Servings > 0 {
		base := utils.FormatQuantity(*r.Servings)
		servings.Display = &base
	}

	view := &DetailView{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: r.Description,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Status:      r.Status,
		Servings:    servings,
		Tags:        tagValues(r),
		Categories:  categoryValues(r),
		Ingredients: make([]IngredientView, 0, len(r.Ingredients)),
		Steps:       make([]StepView, 0, len(r.Steps)),
	}

	labels := make(map[string]string, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		qty := utils.ScaledQuantity(ing.Quantity, ratio)
		label := utils.IngredientLabel(qty, ing.Unit, ing.Text)
		labels[ing.ID] = label
		view.Ingredients = append(view.Ingredients, IngredientView{
			ID:         ing.ID,
			Position:   ing.Position,
			Text:       ing.Text,
			Quantity:   qty,
			Unit:       ing.Unit,
			Note:       ing.Note,
			IsOptional: ing.IsOptional,
			Label:      label,
		})
	}

	for i := range r.Steps {
		st := &r.Steps[i]
		view.Steps = append(view.Steps, StepView{
			ID:          st.ID,
			Position:    st.Position,
			Content:     st.Content,
			Ingredients: stepIngredientLabels(r.Ingredients, labels, st.IngredientIDs()),
		})
	}

	return view
}

// stepIngredientLabels returns labels in ingredient declaration order, not in
// the order the links were assigned. Ids from outside the recipe are ignored.
func stepIngredientLabels(ingredients []Ingredient, labels map[string]string, ids []string) []string {
	out := make([]string, 0, len(ids))
	if len(ids) == 0 {
		return out
	}
	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	for _, ing := range ingredients {
		if wanted[ing.ID] {
			out = append(out, labels[ing.ID])
		}
	}
	return out
}

type EditIngredient struct {
	ID              string   `json:"id"`
	Text            string   `json:"text"`
	Quantity        *float64 `json:"quantity"`
	Unit            string   `json:"unit"`
	Note            string   `json:"note"`
	IsOptional      bool     `json:"isOptional"`
	AssignedStepIDs []string `json:"assignedStepIds"`
}

type EditStep struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// EditView is the editor's starting state for an existing recipe.
type EditView struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Slug        string           `json:"slug"`
	Description string           `json:"description"`
	PrepMinutes *int             `json:"prepMinutes"`
	CookMinutes *int             `json:"cookMinutes"`
	Servings    *float64         `json:"servings"`
	Status      Status           `json:"status"`
	Ingredients []EditIngredient `json:"ingredients"`
	Steps       []EditStep       `json:"steps"`
	Tags        []NamedValue     `json:"tags"`
	Categories  []NamedValue     `json:"categories"`
}

func BuildEditView(r *Recipe) *EditView {
	view := &EditView{
		ID:          r.ID,
		Title:       r.Title,
		Slug:        r.Slug,
		Description: deref(r.Description),
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Servings:    r.Servings,
		Status:      r.Status,
		Ingredients: make([]EditIngredient, 0, len(r.Ingredients)),
		Steps:       make([]EditStep, 0, len(r.Steps)),
		Tags:        tagValues(r),
		Categories:  categoryValues(r),
	}

	assigned := make(map[string][]string)
	for i := range r.Steps {
		st := &r.Steps[i]
		view.Steps = append(view.Steps, EditStep{ID: st.ID, Content: st.Content})
		for _, ingID := range st.IngredientIDs() {
			assigned[ingID] = append(assigned[ingID], st.ID)
		}
	}

	for _, ing := range r.Ingredients {
		stepIDs := assigned[ing.ID]
		if stepIDs == nil {
			stepIDs = []string{}
		}
		view.Ingredients = append(view.Ingredients, EditIngredient{
			ID:              ing.ID,
			Text:            ing.Text,
			Quantity:        ing.Quantity,
			Unit:            deref(ing.Unit),
			Note:            deref(ing.Note),
			IsOptional:      ing.IsOptional,
			AssignedStepIDs: stepIDs,
		})
	}

	return view
}

func tagValues(r *Recipe) []NamedValue {
	tags := r.Tags()
	out := make([]NamedValue, 0, len(tags))
	for _, t := range tags {
		out = append(out, NamedValue{ID: t.ID, Name: t.Name})
	}
	sortByName(out)
	return out
}

func categoryValues(r *Recipe) []NamedValue {
	cats := r.Categories()
	out := make([]NamedValue, 0, len(cats))
	for _, c := range cats {
		out = append(out, NamedValue{ID: c.ID, Name: c.Name})
	}
	sortByName(out)
	return out
}

func sortByName(values []NamedValue) {
	sort.SliceStable(values, func(i, j int) bool {
		return strings.ToLower(values[i].Name) < strings.ToLower(values[j].Name)
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
