package recipe

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipebox/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListRecipes handles GET /api/recipes?q=
func (h *Handler) ListRecipes(c *gin.Context) {
	recipes, err := h.service.ListPublished(c.Request.Context(), c.Query("q"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe handles GET /api/recipes/:slug?servings=
func (h *Handler) GetRecipe(c *gin.Context) {
	view, err := h.service.Detail(c.Request.Context(), c.Param("slug"), c.Query("servings"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GetRecipeForEdit handles GET /api/admin/recipes/:slug/edit
func (h *Handler) GetRecipeForEdit(c *gin.Context) {
	view, err := h.service.EditView(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// ListAllRecipes handles GET /api/admin/recipes
func (h *Handler) ListAllRecipes(c *gin.Context) {
	recipes, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"recipes": recipes})
}

// CreateRecipe handles POST /api/admin/recipes
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	res, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

// UpdateRecipe handles PUT /api/admin/recipes/:id
func (h *Handler) UpdateRecipe(c *gin.Context) {
	var req SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	res, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

// ListTags handles GET /api/admin/tags
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.service.Tags(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tags": tags})
}

// ListCategories handles GET /api/admin/categories
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.service.Categories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"categories": cats})
}

func writeError(c *gin.Context, err error) {
	switch {
	case IsValidation(err):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrRecipeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrSlugConflict):
		response.Error(c, http.StatusConflict, "SLUG_CONFLICT", ErrSlugConflict.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
