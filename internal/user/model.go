package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed = apperror.New(http.StatusConflict, "email already used")
	ErrEmailRequired    = apperror.New(http.StatusBadRequest, "email is required")
	ErrInvalidEmail     = apperror.New(http.StatusBadRequest, "email is not valid")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "name is required")
)

// User represents a user in the system.
type User struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
}
