package favorite

import (
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"

	"recipebox/internal/pkg/response"
)

// Handler serves the per-browser favorites. The router must be wrapped in
// sm.LoadAndSave so the session is available on the request context.
type Handler struct {
	sm *scs.SessionManager
}

func NewHandler(sm *scs.SessionManager) *Handler {
	return &Handler{sm: sm}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	{
		favorites.GET("", h.GetFavorites)
		favorites.POST("/toggle", h.ToggleFavorite)
		favorites.GET("/:id/check", h.CheckFavorite)
	}
}

func (h *Handler) store(c *gin.Context) *Store {
	s := NewStore(NewSessionStorage(h.sm, c.Request.Context()))
	s.Load()
	return s
}

// GetFavorites handles GET /api/favorites
func (h *Handler) GetFavorites(c *gin.Context) {
	s := h.store(c)
	response.Success(c, http.StatusOK, gin.H{
		"favorites": s.Favorites(),
		"hydrated":  s.Hydrated(),
	})
}

// ToggleFavorite handles POST /api/favorites/toggle. The body is the recipe
// snapshot to store.
func (h *Handler) ToggleFavorite(c *gin.Context) {
	var req Recipe
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	s := h.store(c)
	favorited, err := s.Toggle(req)
	if err != nil {
		if errors.Is(err, ErrRecipeIDRequired) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
			return
		}
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"favorited": favorited,
		"favorites": s.Favorites(),
	})
}

// CheckFavorite handles GET /api/favorites/:id/check
func (h *Handler) CheckFavorite(c *gin.Context) {
	s := h.store(c)
	response.Success(c, http.StatusOK, gin.H{
		"is_favorite": s.IsFavorite(RecipeID(c.Param("id"))),
	})
}
