package http

import "github.com/gin-gonic/gin"

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	g.GET("/settings", h.All)
	g.PUT("/admin/settings", authMiddleware, adminMiddleware, h.Update)
}
