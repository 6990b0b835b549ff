package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"conduit/internal/domain"
	"conduit/internal/storage"
)

// MediaService stores profile images and records their URL on the user.
type MediaService interface {
	UploadProfileImage(ctx context.Context, userID int64, filename, contentType string, body io.Reader) (*domain.User, error)
}

type mediaService struct {
	store storage.Service
	users UserService
	opts  storage.UploadOptions
}

// NewMediaService returns nil when no storage is configured; callers treat a
// nil MediaService as "uploads disabled".
func NewMediaService(store storage.Service, users UserService, opts storage.UploadOptions) MediaService {
	if store == nil || opts.Bucket == "" {
		return nil
	}
	return &mediaService{store: store, users: users, opts: opts}
}

func (s *mediaService) UploadProfileImage(ctx context.Context, userID int64, filename, contentType string, body io.Reader) (*domain.User, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return nil, domain.InvalidParameter(fmt.Sprintf("invalid parameter error: unsupported image type %q", contentType))
	}

	key := fmt.Sprintf("users/%d/%s%s", userID, uuid.NewString(), strings.ToLower(path.Ext(filename)))
	opts := s.opts
	opts.ContentType = contentType

	url, err := s.store.PutObject(ctx, key, body, opts)
	if err != nil {
		return nil, err
	}
	return s.users.Update(ctx, userID, UserChanges{Image: &url})
}
