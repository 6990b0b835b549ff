package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

// TagService resolves submitted tag names to canonical tags.
type TagService interface {
	// Resolve maps names to tags in submission order, creating unseen names.
	// Duplicates in names are kept; storage never holds two tags with one name.
	Resolve(ctx context.Context, names []string) ([]domain.Tag, error)
	ListTags(ctx context.Context) ([]string, error)
}

type tagService struct {
	tags   repository.TagRepository
	logger *logrus.Logger
}

func NewTagService(tags repository.TagRepository, logger *logrus.Logger) TagService {
	if logger == nil {
		logger = logrus.New()
	}
	return &tagService{tags: tags, logger: logger}
}

func (s *tagService) Resolve(ctx context.Context, names []string) ([]domain.Tag, error) {
	resolved := make([]domain.Tag, len(names))
	if len(names) == 0 {
		return resolved, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			tag, err := s.findOrCreate(gctx, name)
			if err != nil {
				return err
			}
			resolved[i] = *tag
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (s *tagService) findOrCreate(ctx context.Context, name string) (*domain.Tag, error) {
	if name == "" {
		return nil, domain.Conflict("tagList: tag name is required")
	}

	tag, err := s.tags.GetByName(ctx, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	tag = &domain.Tag{Name: name}
	if _, err := s.tags.Create(ctx, tag); err != nil {
		if !errors.Is(err, repository.ErrAlreadyExists) {
			return nil, err
		}
		// another writer created the name between our lookup and insert
		s.logger.WithField("tag", name).Debug("tag created concurrently, re-reading")
		winner, err := s.tags.GetByName(ctx, name)
		if err != nil {
			return nil, classify(err, "tag not found")
		}
		return winner, nil
	}

	s.logger.WithFields(logrus.Fields{"tag": name, "tag_id": tag.ID}).Debug("tag created")
	return tag, nil
}

func (s *tagService) ListTags(ctx context.Context) ([]string, error) {
	tags, err := s.tags.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, domain.NotFound("no tags found")
	}

	names := make([]string, len(tags))
	for i := range tags {
		names[i] = tags[i].Name
	}
	return names, nil
}
