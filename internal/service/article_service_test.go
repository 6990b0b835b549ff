package service

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

func TestCreateArticle(t *testing.T) {
	f := newFixture()
	zoro := f.register(t, "zoro")

	article := f.publish(t, zoro.ID, "Testing rest api", "testing", "api")
	assert.Equal(t, "testing-rest-api", article.Slug)
	assert.Equal(t, []string{"testing", "api"}, article.TagNames())
	require.NotNil(t, article.Author)
	assert.Equal(t, "zoro", article.Author.Username)
	assert.False(t, article.CreatedAt.IsZero())
}

func TestCreateArticleSlugConflict(t *testing.T) {
	f := newFixture()
	zoro := f.register(t, "zoro")
	f.publish(t, zoro.ID, "Testing rest api")

	_, err := f.articles.CreateArticle(context.Background(), zoro.ID, ArticleInput{
		Title: "Testing REST api!",
		Body:  "other",
	})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Contains(t, err.Error(), "slug: already exists")
}

func TestCreateArticleMissingBody(t *testing.T) {
	f := newFixture()
	zoro := f.register(t, "zoro")

	_, err := f.articles.CreateArticle(context.Background(), zoro.ID, ArticleInput{Title: "No body"})
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	assert.Contains(t, err.Error(), "body: is required")
}

func TestCreateArticleUnknownAuthor(t *testing.T) {
	f := newFixture()

	_, err := f.articles.CreateArticle(context.Background(), 99, ArticleInput{Title: "t", Body: "b"})
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestListArticlesNewestFirstWithPagination(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	f.publish(t, zoro.ID, "First")
	f.publish(t, zoro.ID, "Second")
	f.publish(t, zoro.ID, "Third")

	page, err := f.articles.ListArticles(ctx, 0, ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Articles, 3)
	assert.Equal(t, "third", page.Articles[0].Slug)
	assert.Equal(t, "first", page.Articles[2].Slug)

	page, err = f.articles.ListArticles(ctx, 0, ListQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, "second", page.Articles[0].Slug)

	page, err = f.articles.ListArticles(ctx, 0, ListQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Articles)
	assert.NotNil(t, page.Articles)
}

func TestListArticlesFilterUnion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	luffy := f.register(t, "luffy")
	f.publish(t, zoro.ID, "Swords", "blades")
	f.publish(t, luffy.ID, "Meat", "food")
	f.publish(t, luffy.ID, "Hats", "blades")
	f.register(t, "nami")

	page, err := f.articles.ListArticles(ctx, 0, ListQuery{Tag: "food", Author: "zoro"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	slugs := []string{page.Articles[0].Slug, page.Articles[1].Slug}
	assert.Equal(t, []string{"meat", "swords"}, slugs)

	page, err = f.articles.ListArticles(ctx, 0, ListQuery{Tag: "blades"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)

	page, err = f.articles.ListArticles(ctx, 0, ListQuery{Author: "luffy", Tag: "blades"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count)

	page, err = f.articles.ListArticles(ctx, 0, ListQuery{Author: "nami"})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Count, "a filter that hits nothing falls back to everything")
}

func TestListArticlesFavoritedIsIgnored(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	f.publish(t, zoro.ID, "Swords")

	for _, name := range []string{"zoro", "nobody"} {
		page, err := f.articles.ListArticles(ctx, 0, ListQuery{Favorited: name})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Count)
		assert.False(t, page.Articles[0].Favorited)
	}
}

func TestListArticlesProjectsForViewer(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	luffy := f.register(t, "luffy")
	f.publish(t, luffy.ID, "Meat")
	_, err := f.profiles.Follow(ctx, zoro.ID, "luffy")
	require.NoError(t, err)

	page, err := f.articles.ListArticles(ctx, zoro.ID, ListQuery{})
	require.NoError(t, err)
	assert.True(t, page.Articles[0].Author.Following)

	page, err = f.articles.ListArticles(ctx, 0, ListQuery{})
	require.NoError(t, err)
	assert.False(t, page.Articles[0].Author.Following)
}

func TestFeedIncludesUnfollowedAuthors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	luffy := f.register(t, "luffy")
	f.publish(t, luffy.ID, "Meat")
	f.publish(t, zoro.ID, "Swords")

	page, err := f.articles.Feed(ctx, zoro.ID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)

	page, err = f.articles.Feed(ctx, zoro.ID, 1, 1)
	require.NoError(t, err)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, "meat", page.Articles[0].Slug)
}

func TestListArticlesHugeLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	f.publish(t, zoro.ID, "First")
	f.publish(t, zoro.ID, "Second")

	page, err := f.articles.ListArticles(ctx, 0, ListQuery{Limit: math.MaxInt, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Count)
	require.Len(t, page.Articles, 1)
	assert.Equal(t, "first", page.Articles[0].Slug)

	page, err = f.articles.Feed(ctx, 0, math.MaxInt, 0)
	require.NoError(t, err)
	assert.Len(t, page.Articles, 2)
}

func TestListArticlesZeroLimitUsesDefault(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	zoro := f.register(t, "zoro")
	for i := 0; i < DefaultLimit+1; i++ {
		f.publish(t, zoro.ID, fmt.Sprintf("Post %d", i))
	}

	page, err := f.articles.ListArticles(ctx, 0, ListQuery{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, DefaultLimit+1, page.Count)
	assert.Len(t, page.Articles, DefaultLimit)
}

// danglingArticles rejects every insert as referencing a missing row.
type danglingArticles struct {
	repository.ArticleRepository
}

func (danglingArticles) Create(context.Context, *domain.Article) (int64, error) {
	return 0, fmt.Errorf("tag 9 %w", repository.ErrNotFound)
}

func TestCreateArticleMissingReference(t *testing.T) {
	f := newFixture()
	zoro := f.register(t, "zoro")
	svc := NewArticleService(danglingArticles{}, f.store.Users(), f.tags, quietLogger())

	_, err := svc.CreateArticle(context.Background(), zoro.ID, ArticleInput{Title: "t", Body: "b", TagList: []string{"go"}})
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, "article references not found", err.Error())
}
