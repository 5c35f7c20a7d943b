package user

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
)

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type CreateRequest struct {
	Name  string
	Email string
}

// UpdateRequest carries the fields to change; nil means "leave as is".
type UpdateRequest struct {
	Name  *string
	Email *string
}

type service struct {
	repo Repository
}

// NewService creates a new user Service.
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, err
	}

	// Check if email is already used.
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	u := &User{Name: name, Email: email}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		u.Name = name
	}

	if req.Email != nil {
		email, err := normalizeEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != u.Email {
			if err := s.ensureEmailFree(ctx, email, u.ID); err != nil {
				return nil, err
			}
			u.Email = email
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ensureEmailFree fails with ErrEmailAlreadyUsed when another user holds email.
// The unique index remains the source of truth under concurrent writes.
func (s *service) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		if existing.ID != selfID {
			return ErrEmailAlreadyUsed
		}
		return nil
	}
	// If the error is something other than "not found", propagate it.
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	return nil
}

// normalizeEmail trims spaces, lowercases and checks the address format.
func normalizeEmail(email string) (string, error) {
	clean := strings.ToLower(strings.TrimSpace(email))
	if clean == "" {
		return "", ErrEmailRequired
	}
	addr, err := mail.ParseAddress(clean)
	if err != nil || addr.Address != clean {
		return "", ErrInvalidEmail
	}
	return clean, nil
}
