package booking

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/shareit-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrUserNotFound     = apperror.New(http.StatusNotFound, "user not found")
	ErrItemNotFound     = apperror.New(http.StatusNotFound, "item not found")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrItemNotAvailable = apperror.New(http.StatusBadRequest, "item is not available for booking")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
	ErrOwnItem          = apperror.Wrap(ErrPermissionDenied, http.StatusForbidden, "owner cannot book their own item")
	ErrTimeConflict     = apperror.New(http.StatusBadRequest, "time slot already booked")
	ErrAlreadyProcessed = apperror.New(http.StatusBadRequest, "booking already processed")
	ErrInvalidState     = apperror.New(http.StatusBadRequest, "unknown state")
)

type Status string

const (
	StatusWaiting  Status = "WAITING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Blocks reports whether a booking in this status occupies its interval.
// Pending bookings hold the slot so a waiting request cannot be double-committed.
func (s Status) Blocks() bool {
	return s != StatusRejected
}

// State is the temporal filter applied to booking lists.
type State int

const (
	StateAll State = iota
	StateCurrent
	StatePast
	StateFuture
	StateWaiting
	StateRejected
)

var stateNames = map[State]string{
	StateAll:      "ALL",
	StateCurrent:  "CURRENT",
	StatePast:     "PAST",
	StateFuture:   "FUTURE",
	StateWaiting:  "WAITING",
	StateRejected: "REJECTED",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// ParseState matches token case-insensitively. An empty token means ALL.
func ParseState(token string) (State, error) {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return StateAll, nil
	}
	for state, name := range stateNames {
		if name == t {
			return state, nil
		}
	}
	return 0, apperror.Wrap(ErrInvalidState, http.StatusBadRequest, "Unknown state: "+token)
}

// ItemSummary is the slice of the item embedded in a booking.
type ItemSummary struct {
	ID      int64
	Name    string
	OwnerID int64
}

// UserSummary is the slice of the booker embedded in a booking.
type UserSummary struct {
	ID   int64
	Name string
}

type Booking struct {
	ID        int64
	Start     time.Time
	End       time.Time
	Status    Status
	Item      ItemSummary
	Booker    UserSummary
	CreatedAt time.Time
}

// Overlaps reports whether the half-open intervals [s1,e1) and [s2,e2) share an instant.
// Touching endpoints do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
