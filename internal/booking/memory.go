package booking

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository. IDs are assigned on insert,
// start at 1 and are never reused. Create enforces the same no-overlap rule as
// the database exclusion constraint.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*Booking

	locksMu sync.Mutex
	locks   map[int64]*sync.Mutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		bookings: make(map[int64]*Booking),
		locks:    make(map[int64]*sync.Mutex),
	}
}

func (r *MemoryRepository) Create(_ context.Context, b *Booking) error {
	if !b.Start.Before(b.End) {
		return ErrInvalidTimeRange
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if b.Status.Blocks() {
		for _, existing := range r.bookings {
			if existing.Item.ID == b.Item.ID && existing.Status.Blocks() &&
				Overlaps(b.Start, b.End, existing.Start, existing.End) {
				return ErrTimeConflict
			}
		}
	}

	r.nextID++
	b.ID = r.nextID
	b.CreatedAt = time.Now().UTC()

	stored := *b
	r.bookings[b.ID] = &stored
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id int64, from, to Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.bookings[id]
	if !ok {
		return false, ErrNotFound
	}
	if b.Status != from {
		return false, nil
	}
	b.Status = to
	return true, nil
}

func (r *MemoryRepository) ListByBooker(_ context.Context, bookerID int64) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return b.Booker.ID == bookerID }), nil
}

func (r *MemoryRepository) ListByItemOwner(_ context.Context, ownerID int64) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool { return b.Item.OwnerID == ownerID }), nil
}

func (r *MemoryRepository) ListByItems(_ context.Context, itemIDs []int64, status Status) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool {
		return b.Status == status && slices.Contains(itemIDs, b.Item.ID)
	}), nil
}

func (r *MemoryRepository) FindOverlapping(_ context.Context, itemID int64, start, end time.Time) ([]*Booking, error) {
	return r.filter(func(b *Booking) bool {
		return b.Item.ID == itemID && b.Status.Blocks() && Overlaps(start, end, b.Start, b.End)
	}), nil
}

func (r *MemoryRepository) HasFinished(_ context.Context, bookerID, itemID int64, before time.Time) (bool, error) {
	found := r.filter(func(b *Booking) bool {
		return b.Booker.ID == bookerID && b.Item.ID == itemID &&
			b.Status == StatusApproved && b.End.Before(before)
	})
	return len(found) > 0, nil
}

func (r *MemoryRepository) WithItemLock(ctx context.Context, itemID int64, fn func(ctx context.Context, repo Repository) error) error {
	r.locksMu.Lock()
	l, ok := r.locks[itemID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[itemID] = l
	}
	r.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()

	return fn(ctx, r)
}

// filter returns copies of the matching bookings ordered by id.
func (r *MemoryRepository) filter(keep func(b *Booking) bool) []*Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Booking
	for _, b := range r.bookings {
		if keep(b) {
			c := *b
			out = append(out, &c)
		}
	}
	slices.SortFunc(out, func(a, b *Booking) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}
