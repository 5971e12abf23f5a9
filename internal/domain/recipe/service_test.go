package recipe

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipebox/internal/database"
	"recipebox/internal/pkg/utils"
)

func setupTestDB(t *testing.T, withCategories bool) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:recipe_%s?mode=memory&cache=shared", name), database.Options{Silent: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	groups := [][]any{CoreModels()}
	if withCategories {
		groups = append(groups, CategoryModels())
	}
	require.NoError(t, database.Migrate(db, groups...))
	return db
}

func setupTestService(t *testing.T, withCategories bool) (*Service, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t, withCategories)
	repo := NewRepository(db, database.ProbeCapabilities(db))
	return NewService(repo), db
}

func soupRequest() *SaveRecipeRequest {
	return &SaveRecipeRequest{
		Title:  "Test Soup",
		Status: StatusPublished,
		Ingredients: []IngredientInput{
			{Text: "Water", Quantity: utils.NewOptionalNumber(2), Unit: "cups"},
		},
		Steps: []StepInput{{Content: "Boil it"}},
	}
}

func TestCreate_PersistsRecipeGraph(t *testing.T) {
	svc, db := setupTestService(t, true)
	ctx := context.Background()

	res, err := svc.Create(ctx, soupRequest())
	require.NoError(t, err)
	assert.Equal(t, "test-soup", res.Slug)
	assert.NotEmpty(t, res.ID)

	var ingredients []Ingredient
	require.NoError(t, db.Where("recipe_id = ?", res.ID).Find(&ingredients).Error)
	require.Len(t, ingredients, 1)
	assert.Equal(t, 1, ingredients[0].Position)
	assert.Equal(t, "Water", ingredients[0].Text)
	require.NotNil(t, ingredients[0].Quantity)
	assert.Equal(t, 2.0, *ingredients[0].Quantity)

	var steps []InstructionStep
	require.NoError(t, db.Where("recipe_id = ?", res.ID).Find(&steps).Error)
	require.Len(t, steps, 1)
	assert.Equal(t, 1, steps[0].Position)
	assert.Equal(t, "Boil it", steps[0].Content)
}

func TestCreate_DefaultsToDraftAndHonoursExplicitSlug(t *testing.T) {
	svc, _ := setupTestService(t, true)
	ctx := context.Background()

	req := soupRequest()
	req.Status = ""
	req.Slug = "Winter Soup"
	res, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "winter-soup", res.Slug)

	_, err = svc.GetPublished(ctx, "winter-soup")
	assert.ErrorIs(t, err, ErrRecipeNotFound, "drafts are hidden from display")

	view, err := svc.EditView(ctx, "winter-soup")
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, view.Status)
}

func TestCreate_Validation(t *testing.T) {
	svc, _ := setupTestService(t, false)
	ctx := context.Background()

	noTitle := soupRequest()
	noTitle.Title = "   "
	_, err := svc.Create(ctx, noTitle)
	assert.ErrorIs(t, err, ErrTitleRequired)
	assert.Equal(t, "Title is required.", err.Error())

	blankIngredients := soupRequest()
	blankIngredients.Ingredients = []IngredientInput{{Text: "  "}}
	_, err = svc.Create(ctx, blankIngredients)
	assert.ErrorIs(t, err, ErrIngredientRequired)

	noSteps := soupRequest()
	noSteps.Steps = []StepInput{{Content: " "}}
	_, err = svc.Create(ctx, noSteps)
	assert.ErrorIs(t, err, ErrStepRequired)

	badStatus := soupRequest()
	badStatus.Status = "archived"
	_, err = svc.Create(ctx, badStatus)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	symbols := soupRequest()
	symbols.Title = "!!!"
	_, err = svc.Create(ctx, symbols)
	assert.ErrorIs(t, err, ErrTitleUnsluggable)
}

func TestCreate_DuplicateSlugConflicts(t *testing.T) {
	svc, _ := setupTestService(t, false)
	ctx := context.Background()

	_, err := svc.Create(ctx, soupRequest())
	require.NoError(t, err)

	dup := soupRequest()
	dup.Title = "test soup!"
	_, err = svc.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrSlugConflict)
}

func TestCreate_LinksStepsToIngredientPositions(t *testing.T) {
	svc, _ := setupTestService(t, true)
	ctx := context.Background()

	req := &SaveRecipeRequest{
		Title:  "Pancakes",
		Status: StatusPublished,
		Ingredients: []IngredientInput{
			{Text: "Flour", Quantity: utils.NewOptionalNumber(200), Unit: "g"},
			{},
			{Text: "Milk", Quantity: utils.NewOptionalNumber(300), Unit: "ml"},
			{Text: "Eggs", Quantity: utils.NewOptionalNumber(2)},
		},
		Steps: []StepInput{
			{Content: "Whisk", IngredientPositions: []int{4, 1, 3, 3, 9}},
			{Content: "Fry"},
		},
	}
	res, err := svc.Create(ctx, req)
	require.NoError(t, err)

	view, err := svc.Detail(ctx, res.Slug, "")
	require.NoError(t, err)
	require.Len(t, view.Ingredients, 3)
	assert.Equal(t, []string{"200 g Flour", "300 ml Milk", "2 Eggs"}, view.Steps[0].Ingredients)
	assert.Empty(t, view.Steps[1].Ingredients)
}

func TestUpdate_ReplacesGraphAndRegeneratesSlug(t *testing.T) {
	svc, db := setupTestService(t, true)
	ctx := context.Background()

	req := soupRequest()
	req.Tags = []string{"Dinner"}
	req.Categories = []string{"Soups"}
	created, err := svc.Create(ctx, req)
	require.NoError(t, err)

	update := &SaveRecipeRequest{
		Title:       "Hearty Tomato Soup",
		Slug:        "ignored-on-update",
		Description: "  Rich and warming  ",
		Servings:    utils.NewOptionalNumber(4),
		Ingredients: []IngredientInput{
			{Text: "Tomatoes", Quantity: utils.NewOptionalNumber(6)},
			{Text: "Salt", Note: "to taste", IsOptional: true},
		},
		Steps: []StepInput{
			{Content: "Chop", IngredientPositions: []int{1}},
			{Content: "Simmer", IngredientPositions: []int{1, 2}},
		},
		Tags:       []string{"dinner", "Vegan", "VEGAN"},
		Categories: []string{"Mains"},
	}
	res, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, created.ID, res.ID)
	assert.Equal(t, "hearty-tomato-soup", res.Slug)

	view, err := svc.EditView(ctx, "hearty-tomato-soup")
	require.NoError(t, err)
	assert.Equal(t, StatusPublished, view.Status, "updates default to published")
	assert.Equal(t, "Rich and warming", view.Description)
	require.Len(t, view.Ingredients, 2)
	require.Len(t, view.Steps, 2)
	assert.Equal(t, []string{view.Steps[0].ID, view.Steps[1].ID}, view.Ingredients[0].AssignedStepIDs)
	assert.Equal(t, []string{view.Steps[1].ID}, view.Ingredients[1].AssignedStepIDs)

	tagNames := make([]string, 0, len(view.Tags))
	for _, tg := range view.Tags {
		tagNames = append(tagNames, tg.Name)
	}
	assert.Equal(t, []string{"Dinner", "VEGAN"}, tagNames, "existing tag reused, new tag created once")
	require.Len(t, view.Categories, 1)
	assert.Equal(t, "Mains", view.Categories[0].Name)

	var ingredientCount, stepCount, linkCount int64
	db.Model(&Ingredient{}).Count(&ingredientCount)
	db.Model(&InstructionStep{}).Count(&stepCount)
	db.Model(&StepIngredient{}).Count(&linkCount)
	assert.EqualValues(t, 2, ingredientCount, "old ingredients removed")
	assert.EqualValues(t, 2, stepCount, "old steps removed")
	assert.EqualValues(t, 3, linkCount)

	var tagCount int64
	db.Model(&Tag{}).Count(&tagCount)
	assert.EqualValues(t, 2, tagCount)

	_, err = svc.EditView(ctx, "test-soup")
	assert.ErrorIs(t, err, ErrRecipeNotFound, "old slug no longer resolves")
}

func TestUpdate_UnknownRecipe(t *testing.T) {
	svc, _ := setupTestService(t, false)
	_, err := svc.Update(context.Background(), "missing-id", soupRequest())
	assert.ErrorIs(t, err, ErrRecipeNotFound)
}

func TestGetPublished_NotFoundVersusEmptyIngredients(t *testing.T) {
	svc, db := setupTestService(t, false)
	ctx := context.Background()

	_, err := svc.GetPublished(ctx, "does-not-exist")
	assert.ErrorIs(t, err, ErrRecipeNotFound)

	bare := Recipe{Title: "Bare", Slug: "bare", Status: StatusPublished}
	require.NoError(t, db.Create(&bare).Error)

	rec, err := svc.GetPublished(ctx, "bare")
	require.NoError(t, err)
	assert.Empty(t, rec.Ingredients)
}

func TestListPublished_FiltersAndOrders(t *testing.T) {
	svc, _ := setupTestService(t, false)
	ctx := context.Background()

	for _, title := range []string{"Lemon Tart", "Lemon_Curd", "Beef Stew"} {
		req := soupRequest()
		req.Title = title
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	draft := soupRequest()
	draft.Title = "Lemon Draft"
	draft.Status = StatusDraft
	_, err := svc.Create(ctx, draft)
	require.NoError(t, err)

	all, err := svc.ListPublished(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	lemons, err := svc.ListPublished(ctx, "LEMON")
	require.NoError(t, err)
	assert.Len(t, lemons, 2)

	underscore, err := svc.ListPublished(ctx, "n_c")
	require.NoError(t, err)
	require.Len(t, underscore, 1)
	assert.Equal(t, "Lemon_Curd", underscore[0].Title)

	admin, err := svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, admin, 4)
}

func TestCategoriesUnavailable_ReturnsEmptyLists(t *testing.T) {
	svc, _ := setupTestService(t, false)
	ctx := context.Background()

	req := soupRequest()
	req.Categories = []string{"Soups"}
	res, err := svc.Create(ctx, req)
	require.NoError(t, err)

	view, err := svc.Detail(ctx, res.Slug, "")
	require.NoError(t, err)
	assert.NotNil(t, view.Categories)
	assert.Empty(t, view.Categories)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)
}

func TestTagsAndCategoriesOrderedByName(t *testing.T) {
	svc, _ := setupTestService(t, true)
	ctx := context.Background()

	req := soupRequest()
	req.Tags = []string{"zesty", "Autumn", "mild"}
	req.Categories = []string{"Soups", "Budget"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	tags, err := svc.Tags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "Autumn", tags[0].Name)

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Budget", cats[0].Name)
}

func TestCreate_TagAndCategoryNamesFoldNonASCIICase(t *testing.T) {
	svc, db := setupTestService(t, true)
	ctx := context.Background()

	first := soupRequest()
	first.Tags = []string{"ÉTÉ"}
	first.Categories = []string{"Épicé"}
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := soupRequest()
	second.Title = "Summer Soup"
	second.Tags = []string{"été", "Dinner"}
	second.Categories = []string{"épicé"}
	res, err := svc.Create(ctx, second)
	require.NoError(t, err)

	var tagCount, categoryCount int64
	require.NoError(t, db.Model(&Tag{}).Count(&tagCount).Error)
	require.NoError(t, db.Model(&Category{}).Count(&categoryCount).Error)
	assert.Equal(t, int64(2), tagCount)
	assert.Equal(t, int64(1), categoryCount)

	view, err := svc.Detail(ctx, res.Slug, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ÉTÉ", "Dinner"}, valueNames(view.Tags))
	assert.Equal(t, []string{"Épicé"}, valueNames(view.Categories))
}

func TestCreate_MixedNewAndExistingTagsAllLinked(t *testing.T) {
	svc, _ := setupTestService(t, true)
	ctx := context.Background()

	first := soupRequest()
	first.Tags = []string{"Dinner"}
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)

	second := soupRequest()
	second.Title = "Spicy Soup"
	second.Tags = []string{"Dinner", "Épicé"}
	res, err := svc.Create(ctx, second)
	require.NoError(t, err)

	view, err := svc.Detail(ctx, res.Slug, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Dinner", "Épicé"}, valueNames(view.Tags))
}

func valueNames(values []NamedValue) []string {
	names := make([]string, 0, len(values))
	for _, v := range values {
		names = append(names, v.Name)
	}
	return names
}
