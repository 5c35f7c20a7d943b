package comment

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

const MaxTextLength = 1000

var (
	ErrTextRequired   = apperror.New(http.StatusBadRequest, "comment text cannot be empty")
	ErrTextTooLong    = apperror.New(http.StatusBadRequest, "comment text cannot exceed 1000 characters")
	ErrAuthorNotFound = apperror.New(http.StatusNotFound, "user not found")
	ErrItemNotFound   = apperror.New(http.StatusNotFound, "item not found")
	ErrNotBooked      = apperror.New(http.StatusBadRequest, "only users who completed a booking of the item can comment on it")
)

type Comment struct {
	ID         int64
	Text       string
	ItemID     int64
	AuthorID   int64
	AuthorName string
	CreatedAt  time.Time
}
