package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/shareit-backend/internal/auth"
	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/request"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/response"
)

// BookingWindows reports the last and next approved bookings per item.
type BookingWindows interface {
	LastAndNext(ctx context.Context, itemIDs []int64) (map[int64]booking.Adjacent, error)
}

type CommentLister interface {
	ListByItems(ctx context.Context, itemIDs []int64) (map[int64][]*comment.Comment, error)
}

type Handler struct {
	service  item.Service
	bookings BookingWindows
	comments CommentLister
}

func NewHandler(service item.Service, bookings BookingWindows, comments CommentLister) *Handler {
	return &Handler{
		service:  service,
		bookings: bookings,
		comments: comments,
	}
}

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

	var body CreateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), item.CreateRequest{
		OwnerID:     userID,
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
		RequestID:   body.RequestID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewItemResponse(created))
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	var body UpdateItemRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	updated, err := h.service.Update(c.Request.Context(), userID, uri.ID, item.UpdateRequest{
		Name:        body.Name,
		Description: body.Description,
		Available:   body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemResponse(updated))
}

// Get shows an item with its comments. Only the owner sees booking windows.
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

	ctx := c.Request.Context()
	it, err := h.service.GetByID(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	views, err := h.detailed(ctx, []*item.Item{it}, it.OwnerID == userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, views[0])
}

// ListMine lists the caller's items with comments and booking windows.
func (h *Handler) ListMine(c *gin.Context) {
	userID, ok := actingUser(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	items, err := h.service.ListByOwner(ctx, userID)
	if err != nil {
		response.Error(c, err)
		return
	}

	views, err := h.detailed(ctx, items, true)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, views)
}

func (h *Handler) Search(c *gin.Context) {
	if _, ok := actingUser(c); !ok {
		return
	}

	var query SearchItemsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	items, err := h.service.Search(c.Request.Context(), query.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewItemListResponse(items))
}

// detailed loads comments, and booking windows when withBookings is set, for
// all items in two lookups.
func (h *Handler) detailed(ctx context.Context, items []*item.Item, withBookings bool) ([]ItemResponse, error) {
	ids := make([]int64, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}

	comments, err := h.comments.ListByItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	var windows map[int64]booking.Adjacent
	if withBookings {
		windows, err = h.bookings.LastAndNext(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	out := make([]ItemResponse, len(items))
	for i, it := range items {
		var adj *booking.Adjacent
		if withBookings {
			w := windows[it.ID]
			adj = &w
		}
		out[i] = NewDetailedItemResponse(it, comments[it.ID], adj)
	}
	return out, nil
}
