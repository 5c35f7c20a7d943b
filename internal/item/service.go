package item

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type CreateRequest struct {
	OwnerID     int64
	Name        string
	Description string
	Available   *bool
	RequestID   *int64
}

type UpdateRequest struct {
	Name        *string
	Description *string
	Available   *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Item, error)
	Update(ctx context.Context, actingUserID, itemID int64, req UpdateRequest) (*Item, error)
	GetByID(ctx context.Context, id int64) (*Item, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error)
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error)
	Search(ctx context.Context, text string) ([]*Item, error)
}

// UserLookup resolves users by id.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

type service struct {
	repo  Repository
	users UserLookup
}

func NewService(repo Repository, users UserLookup) Service {
	return &service{
		repo:  repo,
		users: users,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Item, error) {
	if err := s.ensureUser(ctx, req.OwnerID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}
	if req.Available == nil {
		return nil, ErrAvailableRequired
	}

	if req.RequestID != nil {
		exists, err := s.repo.RequestExists(ctx, *req.RequestID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrRequestNotFound
		}
	}

	it := &Item{
		OwnerID:     req.OwnerID,
		Name:        name,
		Description: description,
		Available:   *req.Available,
		RequestID:   req.RequestID,
	}

	if err := s.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) Update(ctx context.Context, actingUserID, itemID int64, req UpdateRequest) (*Item, error) {
	it, err := s.repo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if it.OwnerID != actingUserID {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		it.Name = name
	}
	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if description == "" {
			return nil, ErrDescriptionRequired
		}
		it.Description = description
	}
	if req.Available != nil {
		it.Available = *req.Available
	}

	if err := s.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByOwner(ctx context.Context, ownerID int64) ([]*Item, error) {
	if err := s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *service) ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*Item, error) {
	return s.repo.ListByRequestIDs(ctx, requestIDs)
}

func (s *service) Search(ctx context.Context, text string) ([]*Item, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return []*Item{}, nil
	}
	return s.repo.Search(ctx, text)
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrOwnerNotFound
		}
		return err
	}
	return nil
}
