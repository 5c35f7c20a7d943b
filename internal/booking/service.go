package booking

import (
	"context"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/shareit-backend/internal/events"
	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/pkg/metrics"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	BookerID int64
	ItemID   int64
	Start    time.Time
	End      time.Time
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Approve(ctx context.Context, actingUserID, bookingID int64, approved bool) (*Booking, error)
	GetByID(ctx context.Context, actingUserID, bookingID int64) (*Booking, error)
	ListForUser(ctx context.Context, userID int64, state string) ([]*Booking, error)
	ListForOwner(ctx context.Context, userID int64, state string) ([]*Booking, error)

	// LastAndNext returns, per item, the latest APPROVED booking that has ended
	// and the earliest APPROVED booking that has not started yet.
	LastAndNext(ctx context.Context, itemIDs []int64) (map[int64]Adjacent, error)

	// HasFinished reports whether the user completed an APPROVED booking of the item.
	HasFinished(ctx context.Context, userID, itemID int64) (bool, error)
}

// Adjacent holds the bookings around "now" for one item. Either may be nil.
type Adjacent struct {
	Last *Booking
	Next *Booking
}

// UserLookup resolves users by id.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// ItemLookup resolves items by id.
type ItemLookup interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

type Option func(*service)

// WithClock replaces time.Now for classification and adjacency queries.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

type service struct {
	repo      Repository
	users     UserLookup
	items     ItemLookup
	publisher events.Publisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(repo Repository, users UserLookup, items ItemLookup, publisher events.Publisher, logger *zap.Logger, opts ...Option) Service {
	s := &service{
		repo:      repo,
		users:     users,
		items:     items,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// Checks run in a fixed order so the reported error is deterministic.
	booker, err := s.loadUser(ctx, req.BookerID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			s.refused("booker_not_found", err)
		}
		return nil, err
	}

	it, err := s.items.GetByID(ctx, req.ItemID)
	if err != nil {
		if errors.Is(err, item.ErrNotFound) {
			s.refused("item_not_found", ErrItemNotFound)
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	if !req.End.After(req.Start) {
		s.refused("invalid_range", ErrInvalidTimeRange)
		return nil, ErrInvalidTimeRange
	}

	if !it.Available {
		s.refused("unavailable", ErrItemNotAvailable)
		return nil, ErrItemNotAvailable
	}

	if it.OwnerID == booker.ID {
		s.refused("own_item", ErrOwnItem)
		return nil, ErrOwnItem
	}

	b := &Booking{
		Start:  req.Start,
		End:    req.End,
		Status: StatusWaiting,
		Item:   ItemSummary{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID},
		Booker: UserSummary{ID: booker.ID, Name: booker.Name},
	}

	// The read-check and the insert share one per-item critical section; the
	// storage exclusion rule still rejects anything that slips past it.
	err = s.repo.WithItemLock(ctx, it.ID, func(ctx context.Context, repo Repository) error {
		overlap, err := HasOverlap(ctx, repo, it.ID, b.Start, b.End)
		if err != nil {
			return err
		}
		if overlap {
			return ErrTimeConflict
		}
		return repo.Create(ctx, b)
	})
	if err != nil {
		if errors.Is(err, ErrTimeConflict) {
			s.refused("conflict", err)
		}
		return nil, err
	}

	metrics.BookingCreated()
	s.logger.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("item_id", b.Item.ID),
		zap.Int64("booker_id", b.Booker.ID),
		zap.Time("start", b.Start),
		zap.Time("end", b.End),
	)
	s.publish(ctx, events.BookingCreated, b)

	return b, nil
}

func (s *service) Approve(ctx context.Context, actingUserID, bookingID int64, approved bool) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Item.OwnerID != actingUserID {
		return nil, ErrPermissionDenied
	}

	if b.Status != StatusWaiting {
		return nil, ErrAlreadyProcessed
	}

	next := StatusRejected
	if approved {
		next = StatusApproved
	}

	// Conditional on WAITING so two concurrent decisions cannot both win.
	moved, err := s.repo.UpdateStatus(ctx, b.ID, StatusWaiting, next)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrAlreadyProcessed
	}
	b.Status = next

	metrics.BookingDecided(string(next))
	s.logger.Info("booking decided",
		zap.Int64("booking_id", b.ID),
		zap.String("status", string(next)),
		zap.Int64("owner_id", actingUserID),
	)

	eventType := events.BookingRejected
	if approved {
		eventType = events.BookingApproved
	}
	s.publish(ctx, eventType, b)

	return b, nil
}

func (s *service) GetByID(ctx context.Context, actingUserID, bookingID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Booker.ID != actingUserID && b.Item.OwnerID != actingUserID {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) ListForUser(ctx context.Context, userID int64, state string) ([]*Booking, error) {
	return s.list(ctx, userID, state, s.repo.ListByBooker)
}

func (s *service) ListForOwner(ctx context.Context, userID int64, state string) ([]*Booking, error) {
	return s.list(ctx, userID, state, s.repo.ListByItemOwner)
}

func (s *service) list(ctx context.Context, userID int64, token string, fetch func(context.Context, int64) ([]*Booking, error)) ([]*Booking, error) {
	if _, err := s.loadUser(ctx, userID); err != nil {
		return nil, err
	}

	state, err := ParseState(token)
	if err != nil {
		return nil, err
	}

	bookings, err := fetch(ctx, userID)
	if err != nil {
		return nil, err
	}

	return Classify(bookings, s.now(), state), nil
}

func (s *service) LastAndNext(ctx context.Context, itemIDs []int64) (map[int64]Adjacent, error) {
	out := make(map[int64]Adjacent, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}

	approved, err := s.repo.ListByItems(ctx, itemIDs, StatusApproved)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for _, b := range approved {
		adj := out[b.Item.ID]
		switch {
		case b.End.Before(now):
			if adj.Last == nil || b.End.After(adj.Last.End) {
				adj.Last = b
			}
		case b.Start.After(now):
			if adj.Next == nil || b.Start.Before(adj.Next.Start) {
				adj.Next = b
			}
		}
		out[b.Item.ID] = adj
	}
	return out, nil
}

func (s *service) HasFinished(ctx context.Context, userID, itemID int64) (bool, error) {
	return s.repo.HasFinished(ctx, userID, itemID, s.now())
}

func (s *service) loadUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (s *service) refused(reason string, err error) {
	metrics.BookingRefused(reason)
	s.logger.Debug("booking refused", zap.String("reason", reason), zap.Error(err))
}

// publish is best-effort: the write has already committed.
func (s *service) publish(ctx context.Context, eventType string, b *Booking) {
	evt, err := events.NewEnvelope(eventType, events.BookingEvent{
		BookingID:  b.ID,
		ItemID:     b.Item.ID,
		BookerID:   b.Booker.ID,
		OwnerID:    b.Item.OwnerID,
		Status:     string(b.Status),
		Start:      b.Start,
		End:        b.End,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("failed to create booking event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.Publish(ctx, strconv.FormatInt(b.Item.ID, 10), evt); err != nil {
		metrics.EventPublishFailed(eventType)
		s.logger.Error("failed to publish booking event",
			zap.String("event_type", eventType),
			zap.Int64("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
