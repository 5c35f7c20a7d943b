package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	group := g.Group("/items")
	group.Use(identityMiddleware)
	{
		group.POST("", h.Create)
		group.GET("", h.ListMine)
		group.GET("/search", h.Search) // ?text=
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update) // Owner only
	}
}
