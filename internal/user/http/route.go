package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers user routes. Managing users needs no identity;
// /me resolves the acting user.
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, identityMiddleware gin.HandlerFunc) {
	g.GET("/me", identityMiddleware, h.Me)

	usersGroup := g.Group("/users")
	{
		usersGroup.POST("", h.Create)
		usersGroup.GET("", h.List)
		usersGroup.GET("/:id", h.Get)
		usersGroup.PATCH("/:id", h.Update)
		usersGroup.DELETE("/:id", h.Delete)
	}
}
