package repository

import (
	"context"

	"conduit/internal/domain"
)

// TagRepository persists uniquely named tags.
type TagRepository interface {
	Init(ctx context.Context) error
	// Create fails with ErrAlreadyExists when the name is taken.
	Create(ctx context.Context, tag *domain.Tag) (int64, error)
	GetByName(ctx context.Context, name string) (*domain.Tag, error)
	List(ctx context.Context) ([]domain.Tag, error)
}

// ArticleRepository persists articles and their ordered tag references.
type ArticleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, article *domain.Article) (int64, error)
	// List returns every article, newest first, with Tags populated.
	List(ctx context.Context) ([]domain.Article, error)
}
