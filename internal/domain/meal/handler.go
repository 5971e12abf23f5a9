package meal

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recipebox/internal/domain/recipe"
	"recipebox/internal/pkg/response"
	"recipebox/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	meals := rg.Group("/meals")
	{
		meals.GET("", h.ListMeals)
		meals.GET("/:slug", h.GetMeal)
	}
}

// RegisterAdminRoutes registers meal writes on the admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/meals", h.CreateMeal)
	admin.POST("/recipes/:slug/meals", h.AssignRecipe)
}

// ListMeals handles GET /api/meals
func (h *Handler) ListMeals(c *gin.Context) {
	meals, err := h.service.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"meals": meals})
}

// GetMeal handles GET /api/meals/:slug
func (h *Handler) GetMeal(c *gin.Context) {
	detail, err := h.service.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detail)
}

// CreateMeal handles POST /api/admin/meals
func (h *Handler) CreateMeal(c *gin.Context) {
	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid meal fields.", fields)
		return
	}
	meal, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, meal)
}

// AssignRecipe handles POST /api/admin/recipes/:slug/meals
func (h *Handler) AssignRecipe(c *gin.Context) {
	var req AssignRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}
	if fields := validator.Validate(&req); fields != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid meal fields.", fields)
		return
	}
	meal, err := h.service.AssignRecipe(c.Request.Context(), c.Param("slug"), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, meal)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrMealNameRequired), errors.Is(err, ErrMealRequired):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrMealNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Meal not found")
	case errors.Is(err, recipe.ErrRecipeNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Recipe not found")
	case errors.Is(err, ErrMealExists):
		response.Error(c, http.StatusConflict, "SLUG_CONFLICT", err.Error())
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
