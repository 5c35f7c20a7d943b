package comment

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type Service interface {
	Add(ctx context.Context, authorID, itemID int64, text string) (*Comment, error)
	ListByItem(ctx context.Context, itemID int64) ([]*Comment, error)
	// ListByItems groups comments by item id, newest first within each item.
	ListByItems(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type ItemLookup interface {
	GetByID(ctx context.Context, id int64) (*item.Item, error)
}

// BookingHistory tells whether a user has finished an approved booking of an item.
type BookingHistory interface {
	HasFinished(ctx context.Context, userID, itemID int64) (bool, error)
}

type service struct {
	repo     Repository
	users    UserLookup
	items    ItemLookup
	bookings BookingHistory
}

func NewService(repo Repository, users UserLookup, items ItemLookup, bookings BookingHistory) Service {
	return &service{
		repo:     repo,
		users:    users,
		items:    items,
		bookings: bookings,
	}
}

func (s *service) Add(ctx context.Context, authorID, itemID int64, text string) (*Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrTextRequired
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return nil, ErrTextTooLong
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAuthorNotFound
		}
		return nil, err
	}

	if _, err := s.items.GetByID(ctx, itemID); err != nil {
		if errors.Is(err, item.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	finished, err := s.bookings.HasFinished(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if !finished {
		return nil, ErrNotBooked
	}

	c := &Comment{
		Text:       text,
		ItemID:     itemID,
		AuthorID:   author.ID,
		AuthorName: author.Name,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) ListByItem(ctx context.Context, itemID int64) ([]*Comment, error) {
	comments, err := s.repo.ListByItems(ctx, []int64{itemID})
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []*Comment{}
	}
	return comments, nil
}

func (s *service) ListByItems(ctx context.Context, itemIDs []int64) (map[int64][]*Comment, error) {
	comments, err := s.repo.ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}

	grouped := make(map[int64][]*Comment, len(itemIDs))
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped, nil
}
