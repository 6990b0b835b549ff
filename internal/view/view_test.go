package view

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
)

func sampleArticle() (domain.Article, domain.User) {
	author := domain.User{ID: 1, Username: "zoro", Email: "roronoa.zo@op.gl", Bio: "swordsman"}
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	article := domain.Article{
		ID:          10,
		Slug:        "testing-rest-api",
		Title:       "Testing rest api",
		Description: "desc",
		Body:        "body",
		Tags:        []domain.Tag{{ID: 2, Name: "testing"}, {ID: 1, Name: "api"}},
		AuthorID:    author.ID,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
	return article, author
}

func TestNewArticleAnonymousViewer(t *testing.T) {
	article, author := sampleArticle()

	got := NewArticle(article, author, nil)
	assert.False(t, got.Favorited)
	assert.False(t, got.Author.Following)
	assert.Equal(t, []string{"testing", "api"}, got.TagList)
	assert.Equal(t, "zoro", got.Author.Username)
	assert.Equal(t, "swordsman", got.Author.Bio)
}

func TestNewArticleFollowingViewer(t *testing.T) {
	article, author := sampleArticle()
	viewer := &domain.User{ID: 2, Following: []int64{author.ID}, Favorites: []int64{article.ID}}

	got := NewArticle(article, author, viewer)
	assert.True(t, got.Author.Following)
	assert.True(t, got.Favorited)
}

func TestNewArticleWithoutTagsRendersEmptyList(t *testing.T) {
	article, author := sampleArticle()
	article.Tags = nil

	raw, err := json.Marshal(NewArticle(article, author, nil))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tagList":[]`)
}

func TestNewUserDoesNotLeakPassword(t *testing.T) {
	user := domain.User{Username: "zoro", Email: "roronoa.zo@op.gl", PasswordHash: "$2a$10$xyz"}

	raw, err := json.Marshal(NewUser(user, ""))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "$2a$10$xyz")
	assert.Contains(t, string(raw), `"token":""`)
}

func TestNewProfile(t *testing.T) {
	got := NewProfile(domain.User{Username: "luffy", Image: "hat.png"}, true)
	assert.Equal(t, Profile{Username: "luffy", Image: "hat.png", Following: true}, got)
}
