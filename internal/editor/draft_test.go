package editor

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"recipebox/internal/domain/recipe"
)

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) SaveRecipe(ctx context.Context, recipeID string, req *recipe.SaveRecipeRequest) (*recipe.SaveRecipeResponse, error) {
	args := m.Called(ctx, recipeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.SaveRecipeResponse), args.Error(1)
}

// newTestDraft uses sequential ids so tests can refer to rows by name.
func newTestDraft() *Draft {
	n := 0
	d := &Draft{newID: func() string {
		n++
		return fmt.Sprintf("tmp-%d", n)
	}}
	d.ensureRows()
	return d
}

func TestNewDraft_HasOneRowEach(t *testing.T) {
	d := NewDraft()
	require.Len(t, d.Ingredients, 1)
	require.Len(t, d.Steps, 1)
	assert.NotEmpty(t, d.Ingredients[0].ID)
	assert.NotEqual(t, d.Ingredients[0].ID, d.Steps[0].ID)
}

func TestRemoveRows_BlockedAtOne(t *testing.T) {
	d := newTestDraft()
	d.RemoveIngredient(d.Ingredients[0].ID)
	d.RemoveStep(d.Steps[0].ID)
	assert.Len(t, d.Ingredients, 1)
	assert.Len(t, d.Steps, 1)

	id := d.AddIngredient()
	d.RemoveIngredient(id)
	assert.Len(t, d.Ingredients, 1)
}

func TestRemoveStep_StripsAssignments(t *testing.T) {
	d := newTestDraft()
	ing := d.Ingredients[0].ID
	first := d.Steps[0].ID
	second := d.AddStep()

	d.ToggleIngredientStep(ing, first)
	d.ToggleIngredientStep(ing, second)
	assert.Equal(t, []string{first, second}, d.Ingredients[0].AssignedStepIDs)

	d.RemoveStep(first)
	assert.Equal(t, []string{second}, d.Ingredients[0].AssignedStepIDs)

	d.ToggleIngredientStep(ing, second)
	assert.Empty(t, d.Ingredients[0].AssignedStepIDs)
}

func TestPayload_Validation(t *testing.T) {
	d := newTestDraft()
	_, err := d.Payload(recipe.StatusDraft)
	assert.ErrorIs(t, err, recipe.ErrTitleRequired)

	d.Title = "Toast"
	_, err = d.Payload(recipe.StatusDraft)
	assert.ErrorIs(t, err, recipe.ErrIngredientRequired)

	// any non-empty field counts
	d.UpdateIngredient(d.Ingredients[0].ID, func(i *Ingredient) { i.Unit = "slice" })
	_, err = d.Payload(recipe.StatusDraft)
	assert.ErrorIs(t, err, recipe.ErrStepRequired)

	d.UpdateStep(d.Steps[0].ID, "Toast the bread")
	_, err = d.Payload(recipe.StatusDraft)
	assert.NoError(t, err)
}

func TestPayload_MapsAssignmentsToPositions(t *testing.T) {
	d := newTestDraft()
	d.Title = "  Pancakes "
	d.Servings = "4"
	d.PrepMinutes = "ten"

	flour := d.Ingredients[0].ID
	blank := d.AddIngredient()
	milk := d.AddIngredient()
	eggs := d.AddIngredient()
	d.UpdateIngredient(flour, func(i *Ingredient) { i.Text = "flour"; i.Quantity = "2"; i.Unit = "cups" })
	d.UpdateIngredient(milk, func(i *Ingredient) { i.Text = "milk"; i.Quantity = "1.5" })
	d.UpdateIngredient(eggs, func(i *Ingredient) { i.Text = "eggs"; i.IsOptional = true })

	mix := d.Steps[0].ID
	empty := d.AddStep()
	cook := d.AddStep()
	d.UpdateStep(mix, "Mix everything")
	d.UpdateStep(cook, "Cook on a hot pan")

	d.ToggleIngredientStep(eggs, mix)
	d.ToggleIngredientStep(flour, mix)
	d.ToggleIngredientStep(milk, cook)
	d.ToggleIngredientStep(blank, cook)
	d.ToggleIngredientStep(milk, empty)

	req, err := d.Payload(recipe.StatusPublished)
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", req.Title)
	assert.Equal(t, recipe.StatusPublished, req.Status)
	require.NotNil(t, req.Servings.Value)
	assert.Equal(t, 4.0, *req.Servings.Value)
	assert.Nil(t, req.PrepMinutes.Value)

	require.Len(t, req.Ingredients, 3)
	assert.Equal(t, "flour", req.Ingredients[0].Text)
	assert.Equal(t, "milk", req.Ingredients[1].Text)
	assert.True(t, req.Ingredients[2].IsOptional)
	require.NotNil(t, req.Ingredients[1].Quantity.Value)
	assert.Equal(t, 1.5, *req.Ingredients[1].Quantity.Value)

	require.Len(t, req.Steps, 2)
	assert.Equal(t, "Mix everything", req.Steps[0].Content)
	assert.Equal(t, []int{1, 3}, req.Steps[0].IngredientPositions)
	assert.Equal(t, []int{2}, req.Steps[1].IngredientPositions)
}

func TestSave_SuccessTracksSlugChange(t *testing.T) {
	view := &recipe.EditView{
		ID:    "recipe-1",
		Slug:  "old-title",
		Title: "New Title",
		Ingredients: []recipe.EditIngredient{
			{ID: "i1", Text: "salt", AssignedStepIDs: []string{"s1"}},
		},
		Steps: []recipe.EditStep{{ID: "s1", Content: "Season"}},
		Tags:  []recipe.NamedValue{{ID: "t1", Name: "Quick"}},
	}
	d := FromEditView(view)

	saver := new(MockSaver)
	saver.On("SaveRecipe", mock.Anything, "recipe-1", mock.MatchedBy(func(req *recipe.SaveRecipeRequest) bool {
		return req.Title == "New Title" &&
			len(req.Steps) == 1 && len(req.Steps[0].IngredientPositions) == 1 &&
			len(req.Tags) == 1 && req.Tags[0] == "Quick"
	})).Return(&recipe.SaveRecipeResponse{ID: "recipe-1", Slug: "new-title"}, nil).Once()

	moved, err := d.Save(context.Background(), saver, recipe.StatusPublished)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "new-title", d.Slug)
	assert.Equal(t, "Recipe updated and published.", d.Notice)
	assert.Empty(t, d.Error)

	saver.On("SaveRecipe", mock.Anything, "recipe-1", mock.Anything).
		Return(&recipe.SaveRecipeResponse{ID: "recipe-1", Slug: "new-title"}, nil).Once()
	moved, err = d.Save(context.Background(), saver, recipe.StatusDraft)
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, "Draft updated successfully.", d.Notice)
	saver.AssertExpectations(t)
}

func TestSave_FailureKeepsDraft(t *testing.T) {
	d := newTestDraft()
	d.Title = "Soup"
	d.UpdateIngredient(d.Ingredients[0].ID, func(i *Ingredient) { i.Text = "water" })
	d.UpdateStep(d.Steps[0].ID, "Boil")

	saver := new(MockSaver)
	saver.On("SaveRecipe", mock.Anything, "", mock.Anything).
		Return(nil, errors.New("A recipe with this slug already exists.")).Once()

	moved, err := d.Save(context.Background(), saver, recipe.StatusDraft)
	assert.Error(t, err)
	assert.False(t, moved)
	assert.Equal(t, "A recipe with this slug already exists.", d.Error)
	assert.Equal(t, "Soup", d.Title)
	assert.Empty(t, d.RecipeID)
}

func TestSave_InvalidDraftNeverCallsSaver(t *testing.T) {
	d := newTestDraft()
	saver := new(MockSaver)

	_, err := d.Save(context.Background(), saver, recipe.StatusDraft)
	assert.ErrorIs(t, err, recipe.ErrTitleRequired)
	assert.Equal(t, "Title is required.", d.Error)
	saver.AssertNotCalled(t, "SaveRecipe", mock.Anything, mock.Anything, mock.Anything)
}

func TestSave_CreateRecordsID(t *testing.T) {
	d := newTestDraft()
	d.Title = "Salad"
	d.UpdateIngredient(d.Ingredients[0].ID, func(i *Ingredient) { i.Text = "lettuce" })
	d.UpdateStep(d.Steps[0].ID, "Toss")

	saver := new(MockSaver)
	saver.On("SaveRecipe", mock.Anything, "", mock.Anything).
		Return(&recipe.SaveRecipeResponse{ID: "new-id", Slug: "salad"}, nil).Once()

	moved, err := d.Save(context.Background(), saver, recipe.StatusDraft)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.Equal(t, "new-id", d.RecipeID)
	assert.Equal(t, "Draft saved successfully.", d.Notice)
}
