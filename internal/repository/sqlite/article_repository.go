package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"conduit/internal/domain"
	"conduit/internal/repository"
)

const createArticlesTable = `
CREATE TABLE IF NOT EXISTS articles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL,
	favorites_count INTEGER NOT NULL DEFAULT 0,
	author_id INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	FOREIGN KEY(author_id) REFERENCES users(id)
);
CREATE INDEX IF NOT EXISTS idx_articles_created_at ON articles(created_at);
CREATE TABLE IF NOT EXISTS article_tags (
	article_id INTEGER NOT NULL,
	tag_id INTEGER NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (article_id, position),
	FOREIGN KEY(article_id) REFERENCES articles(id) ON DELETE CASCADE,
	FOREIGN KEY(tag_id) REFERENCES tags(id)
);
`

type ArticleRepository struct {
	db *sql.DB
}

func NewArticleRepository(db *sql.DB) repository.ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createArticlesTable); err != nil {
		return fmt.Errorf("create articles table: %w", err)
	}
	return nil
}

func (r *ArticleRepository) Create(ctx context.Context, article *domain.Article) (int64, error) {
	now := time.Now().UTC()
	article.CreatedAt = now
	article.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // safe no-op on commit

	res, err := tx.ExecContext(ctx, `
INSERT INTO articles (slug, title, description, body, favorites_count, author_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		article.Slug,
		article.Title,
		article.Description,
		article.Body,
		article.FavoritesCount,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		if field, ok := uniqueField(err); ok {
			return 0, repository.Duplicate(field)
		}
		return 0, fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("article last insert id: %w", err)
	}

	for i, tagID := range article.TagIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO article_tags (article_id, tag_id, position)
VALUES (?, ?, ?)`,
			id,
			tagID,
			i,
		); err != nil {
			return 0, fmt.Errorf("insert article tag: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	article.ID = id
	return id, nil
}

func (r *ArticleRepository) List(ctx context.Context) ([]domain.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, slug, title, description, body, favorites_count, author_id, created_at, updated_at
FROM articles
ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}

	var articles []domain.Article
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(
			&a.ID,
			&a.Slug,
			&a.Title,
			&a.Description,
			&a.Body,
			&a.FavoritesCount,
			&a.AuthorID,
			&a.CreatedAt,
			&a.UpdatedAt,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate articles: %w", err)
	}
	// release the connection before loading tags; the pool holds a single one
	rows.Close()

	for i := range articles {
		tags, err := r.listTags(ctx, articles[i].ID)
		if err != nil {
			return nil, err
		}
		articles[i].Tags = tags
		articles[i].TagIDs = make([]int64, len(tags))
		for j := range tags {
			articles[i].TagIDs[j] = tags[j].ID
		}
	}
	return articles, nil
}

func (r *ArticleRepository) listTags(ctx context.Context, articleID int64) ([]domain.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT t.id, t.name
FROM article_tags atg
JOIN tags t ON t.id = atg.tag_id
WHERE atg.article_id=?
ORDER BY atg.position ASC`, articleID)
	if err != nil {
		return nil, fmt.Errorf("query article tags: %w", err)
	}
	defer rows.Close()

	tags := []domain.Tag{}
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan article tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}
