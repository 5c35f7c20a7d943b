package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/booking"
	userHttp "github.com/nekogravitycat/shareit-backend/internal/user/http"
)

// ItemTag is the item as embedded in a booking.
type ItemTag struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

type BookingResponse struct {
	ID     int64            `json:"id"`
	Start  time.Time        `json:"start"`
	End    time.Time        `json:"end"`
	Status string           `json:"status"`
	Item   ItemTag          `json:"item"`
	Booker userHttp.UserTag `json:"booker"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Status: string(b.Status),
		Item:   ItemTag{ID: b.Item.ID, Name: b.Item.Name, OwnerID: b.Item.OwnerID},
		Booker: userHttp.UserTag{ID: b.Booker.ID, Name: b.Booker.Name},
	}
}

func NewBookingListResponse(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}

type CreateBookingRequest struct {
	ItemID int64     `json:"item_id" binding:"required,min=1"`
	Start  time.Time `json:"start" binding:"required"`
	End    time.Time `json:"end" binding:"required"`
}

// ApproveBookingQuery is bound from ?approved=true|false.
type ApproveBookingQuery struct {
	Approved *bool `form:"approved" binding:"required"`
}

// ListBookingsQuery is bound from ?state=. Parsing of the token happens in
// the service so unknown values get the domain error.
type ListBookingsQuery struct {
	State string `form:"state"`
}
