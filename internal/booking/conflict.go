package booking

import (
	"context"
	"time"
)

// OverlapFinder returns the blocking bookings of an item whose interval
// intersects [start, end).
type OverlapFinder interface {
	FindOverlapping(ctx context.Context, itemID int64, start, end time.Time) ([]*Booking, error)
}

// HasOverlap reports whether any WAITING or APPROVED booking on the item
// intersects [start, end). It has no side effects.
func HasOverlap(ctx context.Context, finder OverlapFinder, itemID int64, start, end time.Time) (bool, error) {
	found, err := finder.FindOverlapping(ctx, itemID, start, end)
	if err != nil {
		return false, err
	}
	for _, b := range found {
		if b.Status.Blocks() && Overlaps(start, end, b.Start, b.End) {
			return true, nil
		}
	}
	return false, nil
}
