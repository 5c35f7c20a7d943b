package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

// actingUser returns the caller's id or writes 401.
func actingUser(c *gin.Context) (int64, bool) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return 0, false
	}
	return userID, true
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		BookerID: userID,
		ItemID:   body.ItemID,
		Start:    body.Start,
		End:      body.End,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// Approve lets the item owner approve or reject a waiting booking.
func (h *Handler) Approve(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var query ApproveBookingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "approved must be true or false", err)
		return
	}

	b, err := h.service.Approve(c.Request.Context(), userID, uri.ID, *query.Approved)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), userID, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// ListMine lists the caller's bookings as a booker.
func (h *Handler) ListMine(c *gin.Context) {
	h.list(c, h.service.ListForUser)
}

// ListOwned lists bookings of the caller's items.
func (h *Handler) ListOwned(c *gin.Context) {
	h.list(c, h.service.ListForOwner)
}

func (h *Handler) list(c *gin.Context, fetch func(ctx context.Context, userID int64, state string) ([]*booking.Booking, error)) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var query ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	bookings, err := fetch(c.Request.Context(), userID, query.State)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingListResponse(bookings))
}
