package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Public Routes
	public := g.Group("/services")
	{
		public.GET("", h.ListActive)
		public.GET("/categories", h.Categories)
		public.GET("/category/:category", h.ByCategory)
		public.GET("/:id", h.Get)
	}

	// Admin Routes
	admin := g.Group("/admin/services")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("", h.ListAll)
		admin.POST("", h.Create)
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
		admin.PUT("/:id/toggle", h.ToggleActive)
		admin.POST("/:id/image", h.UploadImage)
	}
}
