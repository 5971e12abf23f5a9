package shoppinglist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipebox/internal/database"
	"recipebox/internal/pkg/response"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *Hub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Connect(fmt.Sprintf("file:shopping_%s?mode=memory&cache=shared", name), database.Options{Silent: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db, Models()))

	hub := NewHub()
	h := NewHandler(NewService(NewRepository(db), hub), hub, nil)

	r := gin.New()
	// stands in for the session middleware
	r.Use(func(c *gin.Context) {
		if id := c.GetHeader("X-Test-User-ID"); id != "" {
			c.Set("user_id", id)
		}
		c.Next()
	})
	h.RegisterRoutes(r.Group("/api"))
	return r, hub
}

func doRequest(r http.Handler, method, path, userID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-Test-User-ID", userID)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) response.Envelope[T] {
	t.Helper()
	var env response.Envelope[T]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return env
}

type itemsPayload struct {
	Items []Item `json:"items"`
}

type itemPayload struct {
	Item Item `json:"item"`
}

func TestShoppingList_RequiresSession(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/shopping-list", ""},
		{http.MethodPost, "/api/shopping-list", `{"ingredientText":"eggs"}`},
		{http.MethodPatch, "/api/shopping-list/abc", `{"isChecked":true}`},
		{http.MethodDelete, "/api/shopping-list/abc", ""},
		{http.MethodDelete, "/api/shopping-list", ""},
		{http.MethodGet, "/api/shopping-list/events", ""},
	} {
		rr := doRequest(r, tc.method, tc.path, "", tc.body)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.method+" "+tc.path)

		env := decode[any](t, rr)
		require.NotNil(t, env.Error)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
		assert.Equal(t, "Unauthorized.", env.Error.Message)
	}
}

func TestShoppingList_Lifecycle(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doRequest(r, http.MethodPost, "/api/shopping-list", "alice",
		`{"ingredientText":"  1 cup rice ","recipeId":"r-1","recipeTitle":"Fried Rice"}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	first := decode[itemPayload](t, rr).Data.Item
	assert.Equal(t, "1 cup rice", first.IngredientText)
	assert.Equal(t, "alice", first.UserID)
	require.NotNil(t, first.RecipeTitle)
	assert.Equal(t, "Fried Rice", *first.RecipeTitle)

	time.Sleep(5 * time.Millisecond)
	rr = doRequest(r, http.MethodPost, "/api/shopping-list", "alice", `{"ingredientText":"soy sauce"}`)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = doRequest(r, http.MethodGet, "/api/shopping-list", "alice", "")
	require.Equal(t, http.StatusOK, rr.Code)
	items := decode[itemsPayload](t, rr).Data.Items
	require.Len(t, items, 2)
	assert.Equal(t, "1 cup rice", items[0].IngredientText)
	assert.Equal(t, "soy sauce", items[1].IngredientText)

	rr = doRequest(r, http.MethodPatch, "/api/shopping-list/"+first.ID, "alice", `{"isChecked":true}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, decode[itemPayload](t, rr).Data.Item.IsChecked)

	rr = doRequest(r, http.MethodDelete, "/api/shopping-list/"+first.ID, "alice", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"ok":true`)

	rr = doRequest(r, http.MethodDelete, "/api/shopping-list", "alice", "")
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(r, http.MethodGet, "/api/shopping-list", "alice", "")
	assert.Empty(t, decode[itemsPayload](t, rr).Data.Items)
}

func TestShoppingList_IsolatedPerUser(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doRequest(r, http.MethodPost, "/api/shopping-list", "alice", `{"ingredientText":"basil"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	item := decode[itemPayload](t, rr).Data.Item

	rr = doRequest(r, http.MethodGet, "/api/shopping-list", "bob", "")
	assert.Empty(t, decode[itemsPayload](t, rr).Data.Items)

	rr = doRequest(r, http.MethodPatch, "/api/shopping-list/"+item.ID, "bob", `{"isChecked":true}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(r, http.MethodDelete, "/api/shopping-list/"+item.ID, "bob", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(r, http.MethodDelete, "/api/shopping-list", "bob", "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = doRequest(r, http.MethodGet, "/api/shopping-list", "alice", "")
	items := decode[itemsPayload](t, rr).Data.Items
	require.Len(t, items, 1)
	assert.False(t, items[0].IsChecked)
}

func TestShoppingList_Validation(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doRequest(r, http.MethodPost, "/api/shopping-list", "alice", `{"ingredientText":"   "}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Ingredient text is required.", decode[any](t, rr).Error.Message)

	rr = doRequest(r, http.MethodPost, "/api/shopping-list", "alice", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "INVALID_JSON", decode[any](t, rr).Error.Code)

	for _, body := range []string{`{}`, `{"isChecked":"yes"}`, `{"isChecked":1}`, `{"isChecked":null}`} {
		rr = doRequest(r, http.MethodPatch, "/api/shopping-list/any", "alice", body)
		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.Equal(t, "isChecked must be a boolean.", decode[any](t, rr).Error.Message, body)
	}
}

func TestShoppingList_EventsStream(t *testing.T) {
	r, hub := setupTestRouter(t)
	srv := httptest.NewServer(r)
	defer srv.Close()

	header := http.Header{}
	header.Set("X-Test-User-ID", "alice")
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/shopping-list/events"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ConnectionCount("alice") == 1 }, time.Second, 10*time.Millisecond)

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/shopping-list", strings.NewReader(`{"ingredientText":"garlic"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User-ID", "alice")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, EventItemAdded, ev.Type)
	require.NotNil(t, ev.Item)
	assert.Equal(t, "garlic", ev.Item.IngredientText)
}
