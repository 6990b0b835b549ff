package domain

import (
	"slices"
	"time"
)

// User represents a registered author or reader.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Bio          string
	Image        string
	Following    []int64
	// Favorites is read by projections but no write path populates it yet.
	Favorites []int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Follows reports whether targetID is in the user's following set.
func (u User) Follows(targetID int64) bool {
	return slices.Contains(u.Following, targetID)
}

// HasFavorited reports whether articleID is in the user's favorites set.
func (u User) HasFavorited(articleID int64) bool {
	return slices.Contains(u.Favorites, articleID)
}
