package itemrequest

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "request not found")
	ErrUserNotFound        = apperror.New(http.StatusNotFound, "user not found")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrInvalidPage         = apperror.New(http.StatusBadRequest, "from must be non-negative and size positive")
)

// Request is a user asking for an item nobody has listed yet. Other users
// answer it by creating items that reference the request.
type Request struct {
	ID          int64
	Description string
	RequestorID int64
	CreatedAt   time.Time
	Items       []*item.Item
}
