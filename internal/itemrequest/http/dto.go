package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/itemrequest"
)

type CreateRequestRequest struct {
	Description string `json:"description" binding:"required"`
}

// ListOthersQuery pages through other users' requests. Range checks are left
// to the service so they share its error message.
type ListOthersQuery struct {
	From int `form:"from,default=0"`
	Size int `form:"size,default=10"`
}

// AnswerResponse is an item listed in answer to a request.
type AnswerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"owner_id"`
}

type RequestResponse struct {
	ID          int64            `json:"id"`
	Description string           `json:"description"`
	RequestorID int64            `json:"requestor_id"`
	Created     time.Time        `json:"created"`
	Items       []AnswerResponse `json:"items"`
}

func newAnswerResponses(items []*item.Item) []AnswerResponse {
	out := make([]AnswerResponse, len(items))
	for i, it := range items {
		out[i] = AnswerResponse{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID}
	}
	return out
}

func NewRequestResponse(r *itemrequest.Request) RequestResponse {
	return RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		RequestorID: r.RequestorID,
		Created:     r.CreatedAt,
		Items:       newAnswerResponses(r.Items),
	}
}

func NewRequestListResponse(requests []*itemrequest.Request) []RequestResponse {
	out := make([]RequestResponse, len(requests))
	for i, r := range requests {
		out[i] = NewRequestResponse(r)
	}
	return out
}
