package item

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.New(http.StatusNotFound, "item not found")
	ErrOwnerNotFound       = apperror.New(http.StatusNotFound, "user not found")
	ErrRequestNotFound     = apperror.New(http.StatusNotFound, "request not found")
	ErrNameRequired        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrDescriptionRequired = apperror.New(http.StatusBadRequest, "description cannot be empty")
	ErrAvailableRequired   = apperror.New(http.StatusBadRequest, "available is required")
	ErrNotOwner            = apperror.New(http.StatusForbidden, "only the owner can edit the item")
)

// Item is a thing a user lends out. Available is controlled by the owner and
// is not derived from bookings.
type Item struct {
	ID          int64
	OwnerID     int64
	Name        string
	Description string
	Available   bool
	RequestID   *int64 // request this item was listed in answer to
	CreatedAt   time.Time
}
