package shoppinglist

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/database"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:shoppingrepo_%s?mode=memory&cache=shared", name), database.Options{Silent: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db, Models()))
	return NewRepository(db)
}

func TestRepository_PurgeChecked(t *testing.T) {
	repo := newTestRepository(t)
	ctx := t.Context()
	old := time.Now().Add(-48 * time.Hour)

	seed := []Item{
		{UserID: "u1", IngredientText: "old checked", IsChecked: true, CreatedAt: old},
		{UserID: "u2", IngredientText: "old checked too", IsChecked: true, CreatedAt: old},
		{UserID: "u1", IngredientText: "old open", CreatedAt: old},
		{UserID: "u1", IngredientText: "fresh checked", IsChecked: true},
	}
	for i := range seed {
		require.NoError(t, repo.Create(ctx, &seed[i]))
	}

	n, err := repo.PurgeChecked(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	items, err := repo.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "old open", items[0].IngredientText)
	assert.Equal(t, "fresh checked", items[1].IngredientText)

	items, err = repo.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRepository_SetCheckedScopedToOwner(t *testing.T) {
	repo := newTestRepository(t)
	ctx := t.Context()

	item := &Item{UserID: "owner", IngredientText: "milk"}
	require.NoError(t, repo.Create(ctx, item))

	_, err := repo.SetChecked(ctx, "someone-else", item.ID, true)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "someone-else", item.ID), ErrItemNotFound)

	updated, err := repo.SetChecked(ctx, "owner", item.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsChecked)
}
