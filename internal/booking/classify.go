package booking

import (
	"cmp"
	"slices"
	"time"
)

// Classify returns the bookings matching state relative to now, ordered by
// start descending with ties broken by ascending id. The input is not modified
// and structurally equal bookings are all kept.
func Classify(bookings []*Booking, now time.Time, state State) []*Booking {
	out := make([]*Booking, 0, len(bookings))
	for _, b := range bookings {
		if matches(b, now, state) {
			out = append(out, b)
		}
	}

	slices.SortStableFunc(out, func(a, b *Booking) int {
		if c := b.Start.Compare(a.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return out
}

func matches(b *Booking, now time.Time, state State) bool {
	switch state {
	case StateAll:
		return true
	case StateCurrent:
		// Both boundary instants count as current.
		return !b.Start.After(now) && !b.End.Before(now)
	case StatePast:
		return b.End.Before(now)
	case StateFuture:
		return b.Start.After(now)
	case StateWaiting:
		return b.Status == StatusWaiting
	case StateRejected:
		return b.Status == StatusRejected
	default:
		return false
	}
}
