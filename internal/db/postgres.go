package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news_gateway/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var articleColumns = []string{
	"id", "title", "lead", "body", "publication_date", "sections", "source_link", "created_at", "updated_at",
}

// Database инкапсулирует пул соединений к PostgreSQL.
type Database struct {
	Pool *pgxpool.Pool
}

// NewDB создаёт новый пул соединений по connString и возвращает Database.
func NewDB(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}
	return &Database{Pool: pool}, nil
}

// Close закрывает пул соединений.
func (db *Database) Close() {
	db.Pool.Close()
}

// Ping проверяет доступность базы.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate создаёт таблицу articles, если её нет.
func (db *Database) Migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS articles (
            id BIGSERIAL PRIMARY KEY,
            title VARCHAR(500) NOT NULL,
            lead TEXT,
            body TEXT NOT NULL DEFAULT '',
            publication_date TIMESTAMP WITH TIME ZONE NOT NULL,
            sections TEXT[],
            source_link VARCHAR(2048) UNIQUE,
            created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS articles_publication_date_idx ON articles (publication_date DESC);
    `)
	if err != nil {
		return fmt.Errorf("migrate articles: %w", err)
	}
	return nil
}

// FetchAll возвращает все статьи в порядке id.
func (db *Database) FetchAll(ctx context.Context) ([]models.Article, error) {
	return db.selectArticles(ctx, psql.Select(articleColumns...).From("articles").OrderBy("id"))
}

// FetchByID возвращает статью по id или models.ErrNotFound.
func (db *Database) FetchByID(ctx context.Context, id int64) (models.Article, error) {
	query, args, err := psql.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Article{}, err
	}

	article, err := scanArticle(db.Pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Article{}, models.ErrNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("fetch article %d: %w", id, err)
	}
	return article, nil
}

// SaveArticle сохраняет статью. Если у статьи есть Link и запись с таким
// source_link уже есть, она обновляется, а article получает её id.
func (db *Database) SaveArticle(ctx context.Context, article *models.Article) error {
	stamp(article, time.Now().UTC())

	query, args, err := psql.Insert("articles").
		Columns("title", "lead", "body", "publication_date", "sections", "source_link", "created_at", "updated_at").
		Values(article.Title, nullIfEmpty(article.Lead), article.Body, article.PublicationDate,
			article.Sections, nullIfEmpty(article.Link), article.CreatedAt, article.UpdatedAt).
		Suffix(`ON CONFLICT (source_link) DO UPDATE SET
            title = EXCLUDED.title,
            lead = EXCLUDED.lead,
            body = EXCLUDED.body,
            publication_date = EXCLUDED.publication_date,
            sections = EXCLUDED.sections,
            updated_at = EXCLUDED.updated_at
        RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return err
	}

	if err := db.Pool.QueryRow(ctx, query, args...).Scan(&article.ID, &article.CreatedAt); err != nil {
		return fmt.Errorf("save article %q: %w", article.Title, err)
	}
	return nil
}

// FindByTitle ищет статьи, в заголовке которых встречается text, без учёта регистра.
func (db *Database) FindByTitle(ctx context.Context, text string) ([]models.Article, error) {
	return db.selectArticles(ctx, psql.Select(articleColumns...).From("articles").
		Where("title ILIKE ?", "%"+text+"%").OrderBy("id"))
}

// FindPublishedAfter возвращает статьи, опубликованные позже after.
func (db *Database) FindPublishedAfter(ctx context.Context, after time.Time) ([]models.Article, error) {
	return db.selectArticles(ctx, psql.Select(articleColumns...).From("articles").
		Where(sq.Gt{"publication_date": after}).OrderBy("id"))
}

// FindPublishedBetween возвращает статьи из интервала [from, to], свежие первыми.
func (db *Database) FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.Article, error) {
	return db.selectArticles(ctx, psql.Select(articleColumns...).From("articles").
		Where("publication_date BETWEEN ? AND ?", from, to).OrderBy("publication_date DESC"))
}

// FindBySection возвращает статьи, у которых есть рубрика section.
func (db *Database) FindBySection(ctx context.Context, section string) ([]models.Article, error) {
	return db.selectArticles(ctx, psql.Select(articleColumns...).From("articles").
		Where("? = ANY(sections)", section).OrderBy("id"))
}

// FindLatest возвращает limit последних опубликованных статей.
func (db *Database) FindLatest(ctx context.Context, limit int) ([]models.Article, error) {
	return db.selectArticles(ctx, psql.Select(articleColumns...).From("articles").
		OrderBy("publication_date DESC").Limit(uint64(max(limit, 0))))
}

func (db *Database) selectArticles(ctx context.Context, builder sq.SelectBuilder) ([]models.Article, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return articles, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (models.Article, error) {
	var (
		a          models.Article
		lead, link *string
	)

	err := row.Scan(&a.ID, &a.Title, &lead, &a.Body, &a.PublicationDate, &a.Sections, &link, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return models.Article{}, err
	}

	if lead != nil {
		a.Lead = *lead
	}
	if link != nil {
		a.Link = *link
	}
	return a, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
