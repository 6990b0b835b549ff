package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

type repos struct {
	users    repository.UserRepository
	tags     repository.TagRepository
	articles repository.ArticleRepository
}

func openTestDB(t *testing.T) repos {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "conduit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := repos{
		users:    NewUserRepository(db),
		tags:     NewTagRepository(db),
		articles: NewArticleRepository(db),
	}
	ctx := context.Background()
	require.NoError(t, r.users.Init(ctx))
	require.NoError(t, r.tags.Init(ctx))
	require.NoError(t, r.articles.Init(ctx))
	// Init is idempotent
	require.NoError(t, r.users.Init(ctx))
	return r
}

func TestUserRepositoryRoundTrip(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	user := &domain.User{Username: "zoro", Email: "roronoa.zo@op.gl", PasswordHash: "hash"}
	id, err := r.users.Create(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	got, err := r.users.GetByUsername(ctx, "zoro")
	require.NoError(t, err)
	assert.Equal(t, "roronoa.zo@op.gl", got.Email)
	assert.Equal(t, "", got.Bio)
	assert.Empty(t, got.Following)

	got.Bio = "swordsman"
	require.NoError(t, r.users.Update(ctx, got))

	got, err = r.users.GetByEmail(ctx, "roronoa.zo@op.gl")
	require.NoError(t, err)
	assert.Equal(t, "swordsman", got.Bio)

	_, err = r.users.FindByUsernameAndEmail(ctx, "zoro", "other@op.gl")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.users.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	err = r.users.Update(ctx, &domain.User{ID: 999, Username: "x", Email: "x"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryUniqueViolations(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	_, err := r.users.Create(ctx, &domain.User{Username: "zoro", Email: "a@op.gl", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = r.users.Create(ctx, &domain.User{Username: "zoro", Email: "b@op.gl", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "username: already exists", err.Error())

	_, err = r.users.Create(ctx, &domain.User{Username: "sanji", Email: "a@op.gl", PasswordHash: "h"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "email: already exists", err.Error())
}

func TestUserRepositoryReplaceFollowing(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	ids := make([]int64, 3)
	for i, name := range []string{"zoro", "luffy", "nami"} {
		id, err := r.users.Create(ctx, &domain.User{Username: name, Email: name + "@op.gl", PasswordHash: "h"})
		require.NoError(t, err)
		ids[i] = id
	}

	require.NoError(t, r.users.ReplaceFollowing(ctx, ids[0], []int64{ids[2], ids[1]}))
	got, err := r.users.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[2], ids[1]}, got.Following)

	require.NoError(t, r.users.ReplaceFollowing(ctx, ids[0], []int64{ids[1]}))
	got, err = r.users.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1]}, got.Following)

	// unknown followed ids violate the foreign key and leave the set untouched
	require.Error(t, r.users.ReplaceFollowing(ctx, ids[0], []int64{404}))
	got, err = r.users.GetByID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, []int64{ids[1]}, got.Following)
}

func TestTagRepository(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	tag := &domain.Tag{Name: "go"}
	_, err := r.tags.Create(ctx, tag)
	require.NoError(t, err)
	assert.NotZero(t, tag.ID)

	_, err = r.tags.Create(ctx, &domain.Tag{Name: "go"})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)

	got, err := r.tags.GetByName(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, *tag, *got)

	_, err = r.tags.GetByName(ctx, "rust")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.tags.Create(ctx, &domain.Tag{Name: "api"})
	require.NoError(t, err)
	list, err := r.tags.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "api"}, []string{list[0].Name, list[1].Name})
}

func TestArticleRepository(t *testing.T) {
	r := openTestDB(t)
	ctx := context.Background()

	authorID, err := r.users.Create(ctx, &domain.User{Username: "zoro", Email: "z@op.gl", PasswordHash: "h"})
	require.NoError(t, err)
	testingTag := &domain.Tag{Name: "testing"}
	api := &domain.Tag{Name: "api"}
	_, err = r.tags.Create(ctx, api)
	require.NoError(t, err)
	_, err = r.tags.Create(ctx, testingTag)
	require.NoError(t, err)

	first := &domain.Article{Slug: "first", Title: "First", Body: "b", AuthorID: authorID, TagIDs: []int64{testingTag.ID, api.ID}}
	_, err = r.articles.Create(ctx, first)
	require.NoError(t, err)
	second := &domain.Article{Slug: "second", Title: "Second", Body: "b", AuthorID: authorID}
	_, err = r.articles.Create(ctx, second)
	require.NoError(t, err)

	_, err = r.articles.Create(ctx, &domain.Article{Slug: "first", Title: "First", Body: "b", AuthorID: authorID})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "slug: already exists", err.Error())

	list, err := r.articles.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Slug)
	assert.Empty(t, list[0].Tags)
	assert.Equal(t, "first", list[1].Slug)
	assert.Equal(t, []string{"testing", "api"}, list[1].TagNames())
	assert.Equal(t, []int64{testingTag.ID, api.ID}, list[1].TagIDs)
}

func TestCreateUserMapsUniqueViolation(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("INSERT INTO users").
		WillReturnError(errors.New("constraint failed: UNIQUE constraint failed: users.email (2067)"))

	_, err = NewUserRepository(db).Create(context.Background(), &domain.User{Username: "zoro", Email: "z@op.gl"})
	require.ErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Equal(t, "email: already exists", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, username").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err = NewUserRepository(db).GetByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateArticleRollsBackOnTagFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO articles").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO article_tags").WillReturnError(errors.New("FOREIGN KEY constraint failed"))
	mock.ExpectRollback()

	article := &domain.Article{Slug: "s", Title: "t", Body: "b", AuthorID: 1, TagIDs: []int64{9}}
	_, err = NewArticleRepository(db).Create(context.Background(), article)
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrAlreadyExists)
	assert.Zero(t, article.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUniqueField(t *testing.T) {
	cases := []struct {
		err   error
		field string
		ok    bool
	}{
		{errors.New("UNIQUE constraint failed: users.username"), "username", true},
		{errors.New("constraint failed: UNIQUE constraint failed: tags.name (2067)"), "name", true},
		{errors.New("FOREIGN KEY constraint failed"), "", false},
		{nil, "", false},
	}
	for _, tc := range cases {
		field, ok := uniqueField(tc.err)
		assert.Equal(t, tc.ok, ok)
		assert.Equal(t, tc.field, field)
	}
}
