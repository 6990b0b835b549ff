package service

import (
	"context"
	"errors"
	"slices"

	"conduit/internal/domain"
	"conduit/internal/repository"
	"conduit/internal/view"
)

const profileNotFound = "user profile not found"

// ProfileService maintains the follow graph and renders profiles for a viewer.
// A viewerID of 0 is the anonymous viewer.
type ProfileService interface {
	GetProfile(ctx context.Context, username string, viewerID int64) (view.Profile, error)
	Follow(ctx context.Context, viewerID int64, username string) (view.Profile, error)
	Unfollow(ctx context.Context, viewerID int64, username string) (view.Profile, error)
}

type profileService struct {
	users repository.UserRepository
}

func NewProfileService(users repository.UserRepository) ProfileService {
	return &profileService{users: users}
}

// IsFollowing reports whether user follows targetID; a nil user follows nobody.
func IsFollowing(user *domain.User, targetID int64) bool {
	return user != nil && user.Follows(targetID)
}

func (s *profileService) GetProfile(ctx context.Context, username string, viewerID int64) (view.Profile, error) {
	viewer, err := loadViewer(ctx, s.users, viewerID)
	if err != nil {
		return view.Profile{}, err
	}

	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return view.Profile{}, classify(err, profileNotFound)
	}
	return view.NewProfile(*target, IsFollowing(viewer, target.ID)), nil
}

func (s *profileService) Follow(ctx context.Context, viewerID int64, username string) (view.Profile, error) {
	current, target, err := s.pair(ctx, viewerID, username)
	if err != nil {
		return view.Profile{}, err
	}
	// a user always follows themself
	if current.ID == target.ID {
		return view.NewProfile(*target, true), nil
	}

	if !current.Follows(target.ID) {
		following := append(slices.Clone(current.Following), target.ID)
		if err := s.users.ReplaceFollowing(ctx, current.ID, following); err != nil {
			return view.Profile{}, classify(err, profileNotFound)
		}
		current.Following = following
	}
	return view.NewProfile(*target, current.Follows(target.ID)), nil
}

func (s *profileService) Unfollow(ctx context.Context, viewerID int64, username string) (view.Profile, error) {
	current, target, err := s.pair(ctx, viewerID, username)
	if err != nil {
		return view.Profile{}, err
	}
	if current.ID == target.ID {
		return view.NewProfile(*target, true), nil
	}

	if !current.Follows(target.ID) {
		return view.Profile{}, domain.NotFound("user not found in following list")
	}
	following := slices.DeleteFunc(slices.Clone(current.Following), func(id int64) bool {
		return id == target.ID
	})
	if err := s.users.ReplaceFollowing(ctx, current.ID, following); err != nil {
		return view.Profile{}, classify(err, profileNotFound)
	}
	current.Following = following
	return view.NewProfile(*target, current.Follows(target.ID)), nil
}

func (s *profileService) pair(ctx context.Context, viewerID int64, username string) (*domain.User, *domain.User, error) {
	current, err := s.users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, nil, classify(err, "user not found")
	}
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, classify(err, profileNotFound)
	}
	return current, target, nil
}

// loadViewer resolves the viewer for read paths. Anonymous and vanished
// viewers both yield nil.
func loadViewer(ctx context.Context, users repository.UserRepository, viewerID int64) (*domain.User, error) {
	if viewerID <= 0 {
		return nil, nil
	}
	viewer, err := users.GetByID(ctx, viewerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return viewer, nil
}
