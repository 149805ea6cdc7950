package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the chat widget routes. optionalAuth attaches the
// caller identity when a token is sent.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuth, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/chat")
	group.Use(optionalAuth)
	{
		group.GET("/messages", h.Messages)
		group.GET("/unread-count", h.UnreadCount)
		group.POST("/send", h.Send)
		group.PUT("/messages/:id/read", h.MarkRead)
	}

	g.GET("/admin/chat-statistics", authMiddleware, adminMiddleware, h.Statistics)
}
