// Package memory provides an in-memory implementation of the repository
// interfaces. It is safe for concurrent use and enforces the same uniqueness
// constraints as the sqlite schema, so it is used by tests and local runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

// Store holds every collection behind a single lock.
type Store struct {
	mu            sync.RWMutex
	nextUserID    int64
	nextTagID     int64
	nextArticleID int64
	users         map[int64]domain.User
	tags          map[int64]domain.Tag
	articles      map[int64]domain.Article
	lastStamp     time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		nextUserID:    1,
		nextTagID:     1,
		nextArticleID: 1,
		users:         make(map[int64]domain.User),
		tags:          make(map[int64]domain.Tag),
		articles:      make(map[int64]domain.Article),
	}
}

func (s *Store) Users() repository.UserRepository       { return &userRepo{s} }
func (s *Store) Tags() repository.TagRepository         { return &tagRepo{s} }
func (s *Store) Articles() repository.ArticleRepository { return &articleRepo{s} }

// stampLocked returns a strictly increasing timestamp so creation order is total.
func (s *Store) stampLocked() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Microsecond)
	}
	s.lastStamp = now
	return now
}

// Users ----------------------------------------------------------------------

type userRepo struct{ s *Store }

func (r *userRepo) Init(context.Context) error { return nil }

func (r *userRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkUniqueLocked(0, user.Username, user.Email); err != nil {
		return 0, err
	}
	user.ID = r.s.nextUserID
	r.s.nextUserID++
	user.CreatedAt = r.s.stampLocked()
	user.UpdatedAt = user.CreatedAt
	r.s.users[user.ID] = cloneUser(*user)
	return user.ID, nil
}

func (r *userRepo) checkUniqueLocked(selfID int64, username, email string) error {
	for id, existing := range r.s.users {
		if id == selfID {
			continue
		}
		if existing.Username == username {
			return repository.Duplicate("username")
		}
		if existing.Email == email {
			return repository.Duplicate("email")
		}
	}
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *userRepo) FindByUsernameAndEmail(_ context.Context, username, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username && u.Email == email })
}

func (r *userRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if match(u) {
			found := cloneUser(u)
			return &found, nil
		}
	}
	return nil, fmt.Errorf("user %w", repository.ErrNotFound)
}

func (r *userRepo) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	if err := r.checkUniqueLocked(user.ID, user.Username, user.Email); err != nil {
		return err
	}
	user.UpdatedAt = r.s.stampLocked()
	stored.Username = user.Username
	stored.Email = user.Email
	stored.PasswordHash = user.PasswordHash
	stored.Bio = user.Bio
	stored.Image = user.Image
	stored.UpdatedAt = user.UpdatedAt
	r.s.users[user.ID] = stored
	return nil
}

func (r *userRepo) ReplaceFollowing(_ context.Context, userID int64, following []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[userID]
	if !ok {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	for _, id := range following {
		if _, ok := r.s.users[id]; !ok {
			return fmt.Errorf("followed user %d %w", id, repository.ErrNotFound)
		}
	}
	stored.Following = slices.Clone(following)
	r.s.users[userID] = stored
	return nil
}

func cloneUser(u domain.User) domain.User {
	u.Following = slices.Clone(u.Following)
	u.Favorites = slices.Clone(u.Favorites)
	return u
}

// Tags -----------------------------------------------------------------------

type tagRepo struct{ s *Store }

func (r *tagRepo) Init(context.Context) error { return nil }

func (r *tagRepo) Create(_ context.Context, tag *domain.Tag) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.tags {
		if existing.Name == tag.Name {
			return 0, repository.Duplicate("name")
		}
	}
	tag.ID = r.s.nextTagID
	r.s.nextTagID++
	r.s.tags[tag.ID] = *tag
	return tag.ID, nil
}

func (r *tagRepo) GetByName(_ context.Context, name string) (*domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, tag := range r.s.tags {
		if tag.Name == name {
			found := tag
			return &found, nil
		}
	}
	return nil, fmt.Errorf("tag %w", repository.ErrNotFound)
}

func (r *tagRepo) List(context.Context) ([]domain.Tag, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	tags := make([]domain.Tag, 0, len(r.s.tags))
	for _, tag := range r.s.tags {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

// Articles -------------------------------------------------------------------

type articleRepo struct{ s *Store }

func (r *articleRepo) Init(context.Context) error { return nil }

func (r *articleRepo) Create(_ context.Context, article *domain.Article) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.articles {
		if existing.Slug == article.Slug {
			return 0, repository.Duplicate("slug")
		}
	}
	if _, ok := r.s.users[article.AuthorID]; !ok {
		return 0, fmt.Errorf("author %w", repository.ErrNotFound)
	}
	for _, tagID := range article.TagIDs {
		if _, ok := r.s.tags[tagID]; !ok {
			return 0, fmt.Errorf("tag %d %w", tagID, repository.ErrNotFound)
		}
	}

	article.ID = r.s.nextArticleID
	r.s.nextArticleID++
	article.CreatedAt = r.s.stampLocked()
	article.UpdatedAt = article.CreatedAt

	stored := *article
	stored.TagIDs = slices.Clone(article.TagIDs)
	stored.Tags = nil
	stored.Author = nil
	r.s.articles[stored.ID] = stored
	return stored.ID, nil
}

func (r *articleRepo) List(context.Context) ([]domain.Article, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	articles := make([]domain.Article, 0, len(r.s.articles))
	for _, stored := range r.s.articles {
		a := stored
		a.TagIDs = slices.Clone(stored.TagIDs)
		a.Tags = make([]domain.Tag, len(stored.TagIDs))
		for i, tagID := range stored.TagIDs {
			a.Tags[i] = r.s.tags[tagID]
		}
		articles = append(articles, a)
	}
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
	return articles, nil
}
