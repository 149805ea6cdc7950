package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers account and customer-admin routes.
// authLimit throttles the unauthenticated credential endpoints.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, adminMiddleware, authLimit gin.HandlerFunc) {
	// Public Routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", authLimit, h.Register)
		authGroup.POST("/login", authLimit, h.Login)
		authGroup.POST("/logout", authMiddleware, h.Logout)
	}

	// Authenticated Routes
	me := g.Group("/me")
	me.Use(authMiddleware)
	{
		me.GET("", h.Me)
		me.PATCH("", h.UpdateMe)
		me.POST("/avatar", h.UploadAvatar)
	}

	// Admin Routes
	customers := g.Group("/admin/customers")
	customers.Use(authMiddleware, adminMiddleware)
	{
		customers.GET("", h.ListCustomers)
		customers.GET("/stats", h.CustomerStats)
		customers.POST("", h.CreateCustomer)
		customers.GET("/:id", h.GetCustomer)
		customers.PATCH("/:id", h.UpdateCustomer)
		customers.DELETE("/:id", h.DeleteCustomer)
	}
}
