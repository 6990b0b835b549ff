package service

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
	"conduit/internal/repository/memory"
)

type fixture struct {
	store    *memory.Store
	users    UserService
	profiles ProfileService
	tags     TagService
	articles ArticleService
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newFixture() *fixture {
	store := memory.New()
	tags := NewTagService(store.Tags(), quietLogger())
	return &fixture{
		store:    store,
		users:    NewUserService(store.Users()),
		profiles: NewProfileService(store.Users()),
		tags:     tags,
		articles: NewArticleService(store.Articles(), store.Users(), tags, quietLogger()),
	}
}

func (f *fixture) register(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := f.users.Register(context.Background(), username, username+"@example.com", "password")
	require.NoError(t, err)
	return user
}

func (f *fixture) publish(t *testing.T, authorID int64, title string, tags ...string) *domain.Article {
	t.Helper()
	article, err := f.articles.CreateArticle(context.Background(), authorID, ArticleInput{
		Title:       title,
		Description: "about " + title,
		Body:        "body of " + title,
		TagList:     tags,
	})
	require.NoError(t, err)
	return article
}
