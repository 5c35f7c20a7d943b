package http

import (
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/comment"
)

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required,max=1000"`
}

type CommentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"author_name"`
	Created    time.Time `json:"created"`
}

func NewCommentResponse(c *comment.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    c.CreatedAt,
	}
}

// NewCommentListResponse never returns nil so the JSON is [] rather than null.
func NewCommentListResponse(comments []*comment.Comment) []CommentResponse {
	out := make([]CommentResponse, len(comments))
	for i, c := range comments {
		out[i] = NewCommentResponse(c)
	}
	return out
}
