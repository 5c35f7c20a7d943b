package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, identityMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	// Every booking route acts on behalf of a user.
	group.Use(identityMiddleware)
	{
		group.POST("", h.Create)         // Request a booking
		group.GET("", h.ListMine)        // Bookings made by the caller
		group.GET("/owner", h.ListOwned) // Bookings of the caller's items
		group.GET("/:id", h.Get)         // Visible to booker and owner
		group.PATCH("/:id", h.Approve)   // ?approved=true|false, owner only
	}
}
