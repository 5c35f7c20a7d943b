package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts comment routes under /items. The path parameter name
// must match the one used by the item routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	g.POST("/items/:id/comment", identityMiddleware, h.Create)
}
