package shoppinglist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

/* ==================== MOCKS ==================== */

type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) List(ctx context.Context, userID string) ([]Item, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Item), args.Error(1)
}

func (m *MockItemRepository) Create(ctx context.Context, item *Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) SetChecked(ctx context.Context, userID, id string, checked bool) (*Item, error) {
	args := m.Called(ctx, userID, id, checked)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Item), args.Error(1)
}

func (m *MockItemRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockItemRepository) Clear(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

type recordingPublisher struct {
	events []Event
	users  []string
}

func (p *recordingPublisher) Publish(userID string, ev Event) {
	p.users = append(p.users, userID)
	p.events = append(p.events, ev)
}

/* ==================== TESTS ==================== */

func TestService_RejectsAnonymousWithoutTouchingRepository(t *testing.T) {
	repo := new(MockItemRepository)
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.List(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.Add(ctx, "", AddItemInput{IngredientText: "milk"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.SetChecked(ctx, "", "item-1", true)
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.ErrorIs(t, svc.Delete(ctx, "", "item-1"), ErrUnauthorized)
	assert.ErrorIs(t, svc.Clear(ctx, ""), ErrUnauthorized)

	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "SetChecked", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Clear", mock.Anything)
}

func TestService_AddTrimsAndPublishes(t *testing.T) {
	repo := new(MockItemRepository)
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(it *Item) bool {
		return it.UserID == "user-1" && it.IngredientText == "2 cups flour" && it.RecipeTitle == nil
	})).Return(nil).Once()

	blank := "   "
	item, err := svc.Add(context.Background(), "user-1", AddItemInput{
		IngredientText: "  2 cups flour ",
		RecipeTitle:    &blank,
	})
	require.NoError(t, err)
	assert.Equal(t, "2 cups flour", item.IngredientText)
	assert.False(t, item.IsChecked)

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventItemAdded, pub.events[0].Type)
	assert.Equal(t, "user-1", pub.users[0])
	repo.AssertExpectations(t)
}

func TestService_AddRejectsBlankText(t *testing.T) {
	repo := new(MockItemRepository)
	svc := NewService(repo, nil)

	_, err := svc.Add(context.Background(), "user-1", AddItemInput{IngredientText: " \t"})
	assert.ErrorIs(t, err, ErrIngredientTextRequired)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_ErrorsAreNotPublished(t *testing.T) {
	repo := new(MockItemRepository)
	pub := &recordingPublisher{}
	svc := NewService(repo, pub)

	repo.On("SetChecked", mock.Anything, "user-1", "missing", true).Return(nil, ErrItemNotFound).Once()
	repo.On("Delete", mock.Anything, "user-1", "missing").Return(ErrItemNotFound).Once()
	repo.On("Clear", mock.Anything, "user-1").Return(int64(0), errors.New("db down")).Once()

	_, err := svc.SetChecked(context.Background(), "user-1", "missing", true)
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.ErrorIs(t, svc.Delete(context.Background(), "user-1", "missing"), ErrItemNotFound)
	assert.Error(t, svc.Clear(context.Background(), "user-1"))

	assert.Empty(t, pub.events)
	repo.AssertExpectations(t)
}

func TestService_ListNeverReturnsNil(t *testing.T) {
	repo := new(MockItemRepository)
	svc := NewService(repo, nil)
	repo.On("List", mock.Anything, "user-1").Return(nil, nil).Once()

	items, err := svc.List(context.Background(), "user-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
