package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

const createTagsTable = `
CREATE TABLE IF NOT EXISTS tags (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);
`

type TagRepository struct {
	db *sql.DB
}

func NewTagRepository(db *sql.DB) repository.TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTagsTable); err != nil {
		return fmt.Errorf("create tags table: %w", err)
	}
	return nil
}

func (r *TagRepository) Create(ctx context.Context, tag *domain.Tag) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, tag.Name)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return 0, repository.Duplicate(field)
		}
		return 0, fmt.Errorf("insert tag: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("tag last insert id: %w", err)
	}
	tag.ID = id
	return id, nil
}

func (r *TagRepository) GetByName(ctx context.Context, name string) (*domain.Tag, error) {
	var tag domain.Tag
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM tags WHERE name = ?`, name).Scan(&tag.ID, &tag.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tag %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan tag: %w", err)
	}
	return &tag, nil
}

func (r *TagRepository) List(ctx context.Context) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	var tags []domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
