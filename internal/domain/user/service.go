package user

import (
	"context"
	"errors"

	"hrpayroll/internal/auth"
)

var (
	ErrBadCredentials   = errors.New("invalid username or password")
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
)

const minPasswordLength = 8

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	if len(input.Password) < minPasswordLength {
		return User{}, ErrPasswordTooShort
	}
	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return User{}, err
	}
	role := input.Role
	if role == "" {
		role = auth.RoleEmployee
	}
	return s.store.Insert(ctx, User{
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter) (int, []User, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *Service) Update(ctx context.Context, id int64, input UpdateInput) (User, error) {
	current, err := s.store.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	if input.Email != nil {
		current.Email = *input.Email
	}
	if input.Username != nil {
		current.Username = *input.Username
	}
	if input.Role != nil {
		current.Role = *input.Role
	}
	if input.IsActive != nil {
		current.IsActive = *input.IsActive
	}
	return s.store.Update(ctx, current)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

// Authenticate verifies username/password against the stored hash. Disabled
// accounts fail the same way as unknown ones.
func (s *Service) Authenticate(ctx context.Context, username, password string) (User, error) {
	u, err := s.store.GetByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, err
	}
	if !u.IsActive {
		return User{}, ErrBadCredentials
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		return User{}, ErrBadCredentials
	}
	return u, nil
}
