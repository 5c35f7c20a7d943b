package itemrequest

import (
	"context"
	"errors"
	"strings"

	"github.com/nekogravitycat/shareit-backend/internal/item"
	"github.com/nekogravitycat/shareit-backend/internal/user"
)

type Service interface {
	Create(ctx context.Context, requestorID int64, description string) (*Request, error)
	ListOwn(ctx context.Context, userID int64) ([]*Request, error)
	ListOthers(ctx context.Context, userID int64, from, size int) ([]*Request, error)
	GetByID(ctx context.Context, userID, requestID int64) (*Request, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
}

// AnswerLister finds the items listed in answer to requests.
type AnswerLister interface {
	ListByRequestIDs(ctx context.Context, requestIDs []int64) ([]*item.Item, error)
}

type service struct {
	repo    Repository
	users   UserLookup
	answers AnswerLister
}

func NewService(repo Repository, users UserLookup, answers AnswerLister) Service {
	return &service{
		repo:    repo,
		users:   users,
		answers: answers,
	}
}

func (s *service) Create(ctx context.Context, requestorID int64, description string) (*Request, error) {
	if err := s.ensureUser(ctx, requestorID); err != nil {
		return nil, err
	}

	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrDescriptionRequired
	}

	req := &Request{
		Description: description,
		RequestorID: requestorID,
		Items:       []*item.Item{},
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *service) ListOwn(ctx context.Context, userID int64) ([]*Request, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListByRequestor(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachAnswers(ctx, requests)
}

func (s *service) ListOthers(ctx context.Context, userID int64, from, size int) ([]*Request, error) {
	if from < 0 || size <= 0 {
		return nil, ErrInvalidPage
	}
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	requests, err := s.repo.ListOthers(ctx, userID, from, size)
	if err != nil {
		return nil, err
	}
	return s.attachAnswers(ctx, requests)
}

func (s *service) GetByID(ctx context.Context, userID, requestID int64) (*Request, error) {
	if err := s.ensureUser(ctx, userID); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if _, err := s.attachAnswers(ctx, []*Request{req}); err != nil {
		return nil, err
	}
	return req, nil
}

// attachAnswers fills Items on every request with a single lookup.
func (s *service) attachAnswers(ctx context.Context, requests []*Request) ([]*Request, error) {
	if len(requests) == 0 {
		return []*Request{}, nil
	}

	ids := make([]int64, len(requests))
	for i, r := range requests {
		ids[i] = r.ID
	}

	items, err := s.answers.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byRequest := make(map[int64][]*item.Item, len(requests))
	for _, it := range items {
		if it.RequestID != nil {
			byRequest[*it.RequestID] = append(byRequest[*it.RequestID], it)
		}
	}

	for _, r := range requests {
		r.Items = byRequest[r.ID]
		if r.Items == nil {
			r.Items = []*item.Item{}
		}
	}
	return requests, nil
}

func (s *service) ensureUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
