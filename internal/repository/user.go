package repository

import (
	"context"

	"conduit/internal/domain"
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error)
	// Update writes the profile fields (username, email, password hash, bio, image).
	Update(ctx context.Context, user *domain.User) error
	// ReplaceFollowing overwrites the user's following set with the given ids, in order.
	ReplaceFollowing(ctx context.Context, userID int64, following []int64) error
}
