// Package client talks to the recipebox HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"recipebox/internal/domain/meal"
	"recipebox/internal/domain/recipe"
	"recipebox/internal/domain/shoppinglist"
	"recipebox/internal/pkg/response"
)

const defaultHTTPTimeout = 15 * time.Second

// APIError carries the server's error envelope. Message is the text meant
// for the person using the form.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed: http %d", e.StatusCode)
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithToken sends the session token as a bearer header.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env response.Envelope[json.RawMessage]
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 || !env.Success {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *Client) ListRecipes(ctx context.Context, query string) ([]recipe.RecipeSummary, error) {
	path := "/api/recipes"
	if q := strings.TrimSpace(query); q != "" {
		path += "?q=" + url.QueryEscape(q)
	}
	var out struct {
		Recipes []recipe.RecipeSummary `json:"recipes"`
	}
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out.Recipes, err
}

func (c *Client) ListAllRecipes(ctx context.Context) ([]recipe.RecipeSummary, error) {
	var out struct {
		Recipes []recipe.RecipeSummary `json:"recipes"`
	}
	err := c.do(ctx, http.MethodGet, "/api/admin/recipes", nil, &out)
	return out.Recipes, err
}

// GetRecipe fetches the display view. servings may be empty.
func (c *Client) GetRecipe(ctx context.Context, slug, servings string) (*recipe.DetailView, error) {
	path := "/api/recipes/" + url.PathEscape(slug)
	if s := strings.TrimSpace(servings); s != "" {
		path += "?servings=" + url.QueryEscape(s)
	}
	var out recipe.DetailView
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecipeForEdit(ctx context.Context, slug string) (*recipe.EditView, error) {
	var out recipe.EditView
	if err := c.do(ctx, http.MethodGet, "/api/admin/recipes/"+url.PathEscape(slug)+"/edit", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateRecipe(ctx context.Context, req *recipe.SaveRecipeRequest) (*recipe.SaveRecipeResponse, error) {
	var out recipe.SaveRecipeResponse
	if err := c.do(ctx, http.MethodPost, "/api/admin/recipes", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateRecipe(ctx context.Context, id string, req *recipe.SaveRecipeRequest) (*recipe.SaveRecipeResponse, error) {
	var out recipe.SaveRecipeResponse
	if err := c.do(ctx, http.MethodPut, "/api/admin/recipes/"+url.PathEscape(id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveRecipe creates when recipeID is empty and replaces otherwise.
func (c *Client) SaveRecipe(ctx context.Context, recipeID string, req *recipe.SaveRecipeRequest) (*recipe.SaveRecipeResponse, error) {
	if recipeID == "" {
		return c.CreateRecipe(ctx, req)
	}
	return c.UpdateRecipe(ctx, recipeID, req)
}

func (c *Client) ListTags(ctx context.Context) ([]recipe.NamedValue, error) {
	var out struct {
		Tags []recipe.NamedValue `json:"tags"`
	}
	err := c.do(ctx, http.MethodGet, "/api/admin/tags", nil, &out)
	return out.Tags, err
}

func (c *Client) ListCategories(ctx context.Context) ([]recipe.NamedValue, error) {
	var out struct {
		Categories []recipe.NamedValue `json:"categories"`
	}
	err := c.do(ctx, http.MethodGet, "/api/admin/categories", nil, &out)
	return out.Categories, err
}

func (c *Client) ListMeals(ctx context.Context) ([]meal.MealSummary, error) {
	var out struct {
		Meals []meal.MealSummary `json:"meals"`
	}
	err := c.do(ctx, http.MethodGet, "/api/meals", nil, &out)
	return out.Meals, err
}

func (c *Client) GetMeal(ctx context.Context, slug string) (*meal.MealDetail, error) {
	var out meal.MealDetail
	if err := c.do(ctx, http.MethodGet, "/api/meals/"+url.PathEscape(slug), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMeal(ctx context.Context, req *meal.CreateMealRequest) (*meal.MealSummary, error) {
	var out meal.MealSummary
	if err := c.do(ctx, http.MethodPost, "/api/admin/meals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AssignRecipeToMeal(ctx context.Context, recipeSlug string, req *meal.AssignRecipeRequest) (*meal.MealSummary, error) {
	var out meal.MealSummary
	if err := c.do(ctx, http.MethodPost, "/api/admin/recipes/"+url.PathEscape(recipeSlug)+"/meals", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ShoppingItems(ctx context.Context) ([]shoppinglist.Item, error) {
	var out struct {
		Items []shoppinglist.Item `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/api/shopping-list", nil, &out)
	return out.Items, err
}

func (c *Client) AddShoppingItem(ctx context.Context, in shoppinglist.AddItemInput) (*shoppinglist.Item, error) {
	var out struct {
		Item shoppinglist.Item `json:"item"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/shopping-list", in, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

func (c *Client) SetShoppingItemChecked(ctx context.Context, id string, checked bool) (*shoppinglist.Item, error) {
	var out struct {
		Item shoppinglist.Item `json:"item"`
	}
	body := map[string]bool{"isChecked": checked}
	if err := c.do(ctx, http.MethodPatch, "/api/shopping-list/"+url.PathEscape(id), body, &out); err != nil {
		return nil, err
	}
	return &out.Item, nil
}

func (c *Client) DeleteShoppingItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/shopping-list/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ClearShoppingList(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/shopping-list", nil, nil)
}
