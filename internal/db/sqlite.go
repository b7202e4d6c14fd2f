package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"news_gateway/internal/models"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"
)

// Даты хранятся текстом фиксированной ширины в UTC, поэтому сравниваются лексикографически.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteStore хранит статьи во встроенной базе SQLite.
// Рубрики лежат JSON-массивом в колонке sections.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLite открывает файл базы по пути path.
func NewSQLite(path string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	return &SQLiteStore{conn: conn}, nil
}

// Close закрывает соединение.
func (s *SQLiteStore) Close() {
	s.conn.Close()
}

// Ping проверяет соединение.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// Migrate создаёт таблицу articles.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.conn.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS articles (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            title TEXT NOT NULL,
            lead TEXT,
            body TEXT NOT NULL DEFAULT '',
            publication_date TEXT NOT NULL,
            sections TEXT,
            source_link TEXT UNIQUE,
            created_at TEXT NOT NULL,
            updated_at TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS articles_publication_date_idx ON articles (publication_date);
    `)
	if err != nil {
		return fmt.Errorf("migrate articles: %w", err)
	}
	return nil
}

// FetchAll возвращает все статьи в порядке id.
func (s *SQLiteStore) FetchAll(ctx context.Context) ([]models.Article, error) {
	return s.selectArticles(ctx, sq.Select(articleColumns...).From("articles").OrderBy("id"))
}

// FetchByID возвращает статью по id или models.ErrNotFound.
func (s *SQLiteStore) FetchByID(ctx context.Context, id int64) (models.Article, error) {
	query, args, err := sq.Select(articleColumns...).From("articles").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return models.Article{}, err
	}

	article, err := scanSQLiteArticle(s.conn.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Article{}, models.ErrNotFound
	}
	if err != nil {
		return models.Article{}, fmt.Errorf("fetch article %d: %w", id, err)
	}
	return article, nil
}

// SaveArticle вставляет статью или обновляет запись с тем же source_link.
func (s *SQLiteStore) SaveArticle(ctx context.Context, article *models.Article) error {
	stamp(article, time.Now().UTC())

	sections, err := encodeSections(article.Sections)
	if err != nil {
		return err
	}

	query, args, err := sq.Insert("articles").
		Columns("title", "lead", "body", "publication_date", "sections", "source_link", "created_at", "updated_at").
		Values(article.Title, nullIfEmpty(article.Lead), article.Body, formatTime(article.PublicationDate),
			sections, nullIfEmpty(article.Link), formatTime(article.CreatedAt), formatTime(article.UpdatedAt)).
		Suffix(`ON CONFLICT (source_link) DO UPDATE SET
            title = excluded.title,
            lead = excluded.lead,
            body = excluded.body,
            publication_date = excluded.publication_date,
            sections = excluded.sections,
            updated_at = excluded.updated_at
        RETURNING id, created_at`).
		ToSql()
	if err != nil {
		return err
	}

	var createdAt string
	if err := s.conn.QueryRowContext(ctx, query, args...).Scan(&article.ID, &createdAt); err != nil {
		return fmt.Errorf("save article %q: %w", article.Title, err)
	}
	article.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt)
	return err
}

// FindByTitle ищет статьи по подстроке заголовка без учёта регистра (ASCII).
func (s *SQLiteStore) FindByTitle(ctx context.Context, text string) ([]models.Article, error) {
	return s.selectArticles(ctx, sq.Select(articleColumns...).From("articles").
		Where("title LIKE ?", "%"+text+"%").OrderBy("id"))
}

// FindPublishedAfter возвращает статьи, опубликованные позже after.
func (s *SQLiteStore) FindPublishedAfter(ctx context.Context, after time.Time) ([]models.Article, error) {
	return s.selectArticles(ctx, sq.Select(articleColumns...).From("articles").
		Where(sq.Gt{"publication_date": formatTime(after)}).OrderBy("id"))
}

// FindPublishedBetween возвращает статьи из интервала [from, to], свежие первыми.
func (s *SQLiteStore) FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.Article, error) {
	return s.selectArticles(ctx, sq.Select(articleColumns...).From("articles").
		Where("publication_date BETWEEN ? AND ?", formatTime(from), formatTime(to)).
		OrderBy("publication_date DESC"))
}

// FindBySection возвращает статьи с рубрикой section.
func (s *SQLiteStore) FindBySection(ctx context.Context, section string) ([]models.Article, error) {
	return s.selectArticles(ctx, sq.Select(articleColumns...).From("articles").
		Where("EXISTS (SELECT 1 FROM json_each(articles.sections) WHERE json_each.value = ?)", section).
		OrderBy("id"))
}

// FindLatest возвращает limit последних опубликованных статей.
func (s *SQLiteStore) FindLatest(ctx context.Context, limit int) ([]models.Article, error) {
	return s.selectArticles(ctx, sq.Select(articleColumns...).From("articles").
		OrderBy("publication_date DESC").Limit(uint64(max(limit, 0))))
}

func (s *SQLiteStore) selectArticles(ctx context.Context, builder sq.SelectBuilder) ([]models.Article, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		article, err := scanSQLiteArticle(rows)
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

func scanSQLiteArticle(row rowScanner) (models.Article, error) {
	var (
		a                           models.Article
		lead, sections, link        sql.NullString
		published, created, updated string
	)

	err := row.Scan(&a.ID, &a.Title, &lead, &a.Body, &published, &sections, &link, &created, &updated)
	if err != nil {
		return models.Article{}, err
	}

	a.Lead = lead.String
	a.Link = link.String
	if sections.Valid {
		if err := json.Unmarshal([]byte(sections.String), &a.Sections); err != nil {
			return models.Article{}, fmt.Errorf("decode sections: %w", err)
		}
	}

	for _, field := range []struct {
		raw string
		dst *time.Time
	}{
		{published, &a.PublicationDate},
		{created, &a.CreatedAt},
		{updated, &a.UpdatedAt},
	} {
		if *field.dst, err = time.Parse(sqliteTimeLayout, field.raw); err != nil {
			return models.Article{}, fmt.Errorf("parse time %q: %w", field.raw, err)
		}
	}
	return a, nil
}

func encodeSections(sections []string) (any, error) {
	if sections == nil {
		return nil, nil
	}
	raw, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return string(raw), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}
