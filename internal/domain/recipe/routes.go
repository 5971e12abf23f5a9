package recipe

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes registers the read-only recipe routes.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	recipes := rg.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:slug", h.GetRecipe)
	}
}

// RegisterAdminRoutes registers recipe authoring routes on an admin group.
func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	recipes := admin.Group("/recipes")
	{
		recipes.GET("", h.ListAllRecipes)
		recipes.POST("", h.CreateRecipe)
		recipes.GET("/:slug/edit", h.GetRecipeForEdit)
		recipes.PUT("/:id", h.UpdateRecipe)
	}
	admin.GET("/tags", h.ListTags)
	admin.GET("/categories", h.ListCategories)
}
