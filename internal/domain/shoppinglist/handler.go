package shoppinglist

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"recipebox/internal/pkg/response"
)

type Handler struct {
	service  *Service
	hub      *Hub
	upgrader websocket.Upgrader
}

// NewHandler wires the list routes. checkOrigin guards the websocket handshake;
// nil accepts same-host requests only.
func NewHandler(service *Service, hub *Hub, checkOrigin func(r *http.Request) bool) *Handler {
	return &Handler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	list := rg.Group("/shopping-list")
	{
		list.GET("", h.List)
		list.POST("", h.Add)
		list.DELETE("", h.Clear)
		list.PATCH("/:id", h.SetChecked)
		list.DELETE("/:id", h.Delete)
		list.GET("/events", h.Events)
	}
}

type setCheckedRequest struct {
	IsChecked *bool `json:"isChecked"`
}

// List handles GET /api/shopping-list
func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"items": items})
}

// Add handles POST /api/shopping-list
func (h *Handler) Add(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		writeError(c, ErrUnauthorized)
		return
	}

	var req AddItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	item, err := h.service.Add(c.Request.Context(), userID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"item": item})
}

// SetChecked handles PATCH /api/shopping-list/:id
func (h *Handler) SetChecked(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		writeError(c, ErrUnauthorized)
		return
	}

	var req setCheckedRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsChecked == nil {
		writeError(c, ErrCheckedNotBoolean)
		return
	}

	item, err := h.service.SetChecked(c.Request.Context(), userID, c.Param("id"), *req.IsChecked)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"item": item})
}

// Delete handles DELETE /api/shopping-list/:id
func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.GetString("user_id"), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// Clear handles DELETE /api/shopping-list
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context(), c.GetString("user_id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"ok": true})
}

// Events handles GET /api/shopping-list/events and upgrades to a websocket
// that streams the session user's list changes.
func (h *Handler) Events(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		writeError(c, ErrUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("shopping_list_ws_upgrade_failed user_id=%s err=%v", userID, err)
		return
	}
	log.Printf("shopping_list_ws_connected user_id=%s", userID)
	h.hub.Serve(conn, userID)
	log.Printf("shopping_list_ws_disconnected user_id=%s", userID)
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrUnauthorized):
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", err.Error())
	case errors.Is(err, ErrIngredientTextRequired), errors.Is(err, ErrCheckedNotBoolean):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrItemNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Item not found")
	default:
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
