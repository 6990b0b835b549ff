package service

import (
	"context"
	"errors"

	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"conduit/internal/domain"
	"conduit/internal/repository"
	"conduit/internal/view"
)

const (
	DefaultLimit  = 20
	DefaultOffset = 0
)

// ArticleInput is the author-submitted content of a new article.
type ArticleInput struct {
	Title       string
	Description string
	Body        string
	TagList     []string
}

// ListQuery selects a page of articles. Zero Limit means DefaultLimit.
type ListQuery struct {
	Limit     int
	Offset    int
	Tag       string
	Author    string
	Favorited string
}

// ArticlePage is a projected page plus the size of the set it was cut from.
type ArticlePage struct {
	Articles []view.Article
	Count    int
}

// ArticleService authors articles and serves listings and feeds.
type ArticleService interface {
	CreateArticle(ctx context.Context, authorID int64, in ArticleInput) (*domain.Article, error)
	ListArticles(ctx context.Context, viewerID int64, q ListQuery) (ArticlePage, error)
	Feed(ctx context.Context, viewerID int64, limit, offset int) (ArticlePage, error)
}

type articleService struct {
	articles repository.ArticleRepository
	users    repository.UserRepository
	tags     TagService
	logger   *logrus.Logger
}

func NewArticleService(articles repository.ArticleRepository, users repository.UserRepository, tags TagService, logger *logrus.Logger) ArticleService {
	if logger == nil {
		logger = logrus.New()
	}
	return &articleService{
		articles: articles,
		users:    users,
		tags:     tags,
		logger:   logger,
	}
}

func (s *articleService) CreateArticle(ctx context.Context, authorID int64, in ArticleInput) (*domain.Article, error) {
	tags, err := s.tags.Resolve(ctx, in.TagList)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, classify(err, "author not found")
	}

	article := &domain.Article{
		Slug:        slug.Make(in.Title),
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		TagIDs:      make([]int64, len(tags)),
		AuthorID:    author.ID,
	}
	for i := range tags {
		article.TagIDs[i] = tags[i].ID
	}
	if err := article.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.articles.Create(ctx, article); err != nil {
		return nil, classify(err, "article references not found")
	}
	article.Tags = tags
	article.Author = author

	s.logger.WithFields(logrus.Fields{
		"slug":      article.Slug,
		"author_id": author.ID,
		"tags":      len(tags),
	}).Info("article created")
	return article, nil
}

func (s *articleService) ListArticles(ctx context.Context, viewerID int64, q ListQuery) (ArticlePage, error) {
	return s.page(ctx, viewerID, q)
}

// Feed shares the listing pipeline without filters. It is not narrowed to
// followed authors.
func (s *articleService) Feed(ctx context.Context, viewerID int64, limit, offset int) (ArticlePage, error) {
	return s.page(ctx, viewerID, ListQuery{Limit: limit, Offset: offset})
}

func (s *articleService) page(ctx context.Context, viewerID int64, q ListQuery) (ArticlePage, error) {
	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = DefaultOffset
	}

	viewer, err := loadViewer(ctx, s.users, viewerID)
	if err != nil {
		return ArticlePage{}, err
	}

	all, err := s.articles.List(ctx)
	if err != nil {
		return ArticlePage{}, err
	}

	authors, err := s.loadAuthors(ctx, all)
	if err != nil {
		return ArticlePage{}, err
	}

	selected, err := s.filter(ctx, all, authors, q)
	if err != nil {
		return ArticlePage{}, err
	}

	page := ArticlePage{Articles: []view.Article{}, Count: len(selected)}
	if offset >= len(selected) {
		return page, nil
	}
	// offset+limit can overflow for huge limits
	end := len(selected)
	if limit < end-offset {
		end = offset + limit
	}
	for _, article := range selected[offset:end] {
		page.Articles = append(page.Articles, view.NewArticle(article, authors[article.AuthorID], viewer))
	}
	return page, nil
}

// filter keeps the union of articles hit by the tag and author filters. A
// filter that hits nothing contributes nothing, and when no filter hits the
// whole set is returned unfiltered.
func (s *articleService) filter(ctx context.Context, all []domain.Article, authors map[int64]domain.User, q ListQuery) ([]domain.Article, error) {
	if q.Favorited != "" {
		// favorites are never recorded, so the lookup cannot narrow the set yet
		if _, err := s.users.GetByUsername(ctx, q.Favorited); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}
	if q.Tag == "" && q.Author == "" {
		return all, nil
	}

	keep := make([]bool, len(all))
	hits := 0
	if q.Tag != "" {
		for i := range all {
			if all[i].HasTag(q.Tag) {
				keep[i] = true
				hits++
			}
		}
	}
	if q.Author != "" {
		for i := range all {
			if authors[all[i].AuthorID].Username == q.Author && !keep[i] {
				keep[i] = true
				hits++
			}
		}
	}
	if hits == 0 {
		return all, nil
	}

	filtered := make([]domain.Article, 0, hits)
	for i := range all {
		if keep[i] {
			filtered = append(filtered, all[i])
		}
	}
	return filtered, nil
}

func (s *articleService) loadAuthors(ctx context.Context, articles []domain.Article) (map[int64]domain.User, error) {
	authors := make(map[int64]domain.User)
	for _, article := range articles {
		if _, ok := authors[article.AuthorID]; ok {
			continue
		}
		author, err := s.users.GetByID(ctx, article.AuthorID)
		if err != nil {
			return nil, classify(err, "author not found")
		}
		authors[article.AuthorID] = *author
	}
	return authors, nil
}
