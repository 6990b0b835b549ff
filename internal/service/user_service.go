package service

import (
	"context"
	"errors"
	"strings"

	"conduit/internal/auth"
	"conduit/internal/domain"
	"conduit/internal/repository"
)

// UserChanges carries the optional fields of a profile update; nil leaves the field as is.
type UserChanges struct {
	Email    *string
	Username *string
	Password *string
	Bio      *string
	Image    *string
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, changes UserChanges) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return nil, domain.InvalidParameter("invalid parameter error: username, email and password are required")
	}

	if _, err := s.users.FindByUsernameAndEmail(ctx, username, email); err == nil {
		return nil, domain.AlreadyExists("user already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, classify(err, "user not found")
	}
	return user, nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, domain.InvalidParameter("invalid parameter error: email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, classify(err, "user not found")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Unauthorized(domain.ReasonInvalidCredentials, "invalid credentials")
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "user not found")
	}
	return user, nil
}

// Update applies changes and persists them. The password is re-hashed only
// when a new one is supplied, so an existing hash is never hashed twice.
func (s *userService) Update(ctx context.Context, id int64, changes UserChanges) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, classify(err, "user not found")
	}

	if changes.Username != nil {
		username := strings.TrimSpace(*changes.Username)
		if username == "" {
			return nil, domain.InvalidParameter("invalid parameter error: username cannot be empty")
		}
		user.Username = username
	}
	if changes.Email != nil {
		email := strings.TrimSpace(*changes.Email)
		if email == "" {
			return nil, domain.InvalidParameter("invalid parameter error: email cannot be empty")
		}
		user.Email = email
	}
	if changes.Password != nil {
		if *changes.Password == "" {
			return nil, domain.InvalidParameter("invalid parameter error: password cannot be empty")
		}
		hash, err := auth.HashPassword(*changes.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if changes.Bio != nil {
		user.Bio = *changes.Bio
	}
	if changes.Image != nil {
		user.Image = *changes.Image
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, classify(err, "user not found")
	}
	return user, nil
}
