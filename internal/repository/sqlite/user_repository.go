package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	bio TEXT NOT NULL DEFAULT '',
	image TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS user_follows (
	user_id INTEGER NOT NULL,
	followed_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (user_id, followed_id),
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE,
	FOREIGN KEY(followed_id) REFERENCES users(id) ON DELETE CASCADE
);
CREATE TABLE IF NOT EXISTS user_favorites (
	user_id INTEGER NOT NULL,
	article_id INTEGER NOT NULL,
	PRIMARY KEY (user_id, article_id),
	FOREIGN KEY(user_id) REFERENCES users(id) ON DELETE CASCADE
);
`

const selectUser = `
SELECT id, username, email, password_hash, bio, image, created_at, updated_at
FROM users
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, bio, image, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.Image,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return 0, repository.Duplicate(field)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.getOne(ctx, selectUser+`WHERE id = ?`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getOne(ctx, selectUser+`WHERE username = ?`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, selectUser+`WHERE email = ?`, email)
}

func (r *UserRepository) FindByUsernameAndEmail(ctx context.Context, username, email string) (*domain.User, error) {
	return r.getOne(ctx, selectUser+`WHERE username = ? AND email = ?`, username, email)
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
UPDATE users
SET username=?, email=?, password_hash=?, bio=?, image=?, updated_at=?
WHERE id=?`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Bio,
		user.Image,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return repository.Duplicate(field)
		}
		return fmt.Errorf("update user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("user %w", repository.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) ReplaceFollowing(ctx context.Context, userID int64, following []int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	if _, err := tx.ExecContext(ctx, `DELETE FROM user_follows WHERE user_id=?`, userID); err != nil {
		return fmt.Errorf("delete follows: %w", err)
	}

	for i, followedID := range following {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO user_follows (user_id, followed_id, position)
VALUES (?, ?, ?)`,
			userID,
			followedID,
			i,
		); err != nil {
			return fmt.Errorf("insert follow: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, query string, args ...any) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if user.Following, err = r.listIDs(ctx, `
SELECT followed_id FROM user_follows WHERE user_id=? ORDER BY position ASC`, user.ID); err != nil {
		return nil, fmt.Errorf("load following: %w", err)
	}
	if user.Favorites, err = r.listIDs(ctx, `
SELECT article_id FROM user_favorites WHERE user_id=? ORDER BY article_id ASC`, user.ID); err != nil {
		return nil, fmt.Errorf("load favorites: %w", err)
	}
	return user, nil
}

func (r *UserRepository) listIDs(ctx context.Context, query string, userID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Bio,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &user, nil
}
