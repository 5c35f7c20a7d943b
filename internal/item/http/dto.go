package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	"github.com/nekogravitycat/shareit-backend/internal/comment"
	commentHttp "github.com/nekogravitycat/shareit-backend/internal/comment/http"
	"github.com/nekogravitycat/shareit-backend/internal/item"
)

type CreateItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Available   *bool  `json:"available" binding:"required"`
	RequestID   *int64 `json:"request_id" binding:"omitempty,min=1"`
}

// UpdateItemRequest uses pointers to tell "not sent" from "sent as empty".
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type SearchItemsQuery struct {
	Text string `form:"text"`
}

// BookingShort is a booking as shown next to an item.
type BookingShort struct {
	ID       int64     `json:"id"`
	BookerID int64     `json:"booker_id"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
}

type ItemResponse struct {
	ID          int64                         `json:"id"`
	Name        string                        `json:"name"`
	Description string                        `json:"description"`
	Available   bool                          `json:"available"`
	OwnerID     int64                         `json:"owner_id"`
	RequestID   *int64                        `json:"request_id"`
	LastBooking *BookingShort                 `json:"last_booking"`
	NextBooking *BookingShort                 `json:"next_booking"`
	Comments    []commentHttp.CommentResponse `json:"comments"`
}

func newBookingShort(b *booking.Booking) *BookingShort {
	if b == nil {
		return nil
	}
	return &BookingShort{ID: b.ID, BookerID: b.Booker.ID, Start: b.Start, End: b.End}
}

// NewItemResponse builds the plain item view. Comments is always an array.
func NewItemResponse(it *item.Item) ItemResponse {
	return ItemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		OwnerID:     it.OwnerID,
		RequestID:   it.RequestID,
		Comments:    []commentHttp.CommentResponse{},
	}
}

// NewDetailedItemResponse adds comments and, when adj is non-nil, the
// surrounding approved bookings.
func NewDetailedItemResponse(it *item.Item, comments []*comment.Comment, adj *booking.Adjacent) ItemResponse {
	resp := NewItemResponse(it)
	resp.Comments = commentHttp.NewCommentListResponse(comments)
	if adj != nil {
		resp.LastBooking = newBookingShort(adj.Last)
		resp.NextBooking = newBookingShort(adj.Next)
	}
	return resp
}

func NewItemListResponse(items []*item.Item) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i, it := range items {
		out[i] = NewItemResponse(it)
	}
	return out
}
