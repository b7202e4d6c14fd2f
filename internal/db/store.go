package db

import (
	"context"
	"fmt"
	"time"

	"news_gateway/internal/config"
	"news_gateway/internal/models"
)

// Store описывает хранилище статей. Ядро ранжирования пользуется только FetchAll и FetchByID,
// остальные методы обслуживают импорт лент и поиск.
type Store interface {
	FetchAll(ctx context.Context) ([]models.Article, error)
	FetchByID(ctx context.Context, id int64) (models.Article, error)
	SaveArticle(ctx context.Context, article *models.Article) error

	FindByTitle(ctx context.Context, text string) ([]models.Article, error)
	FindPublishedAfter(ctx context.Context, after time.Time) ([]models.Article, error)
	FindPublishedBetween(ctx context.Context, from, to time.Time) ([]models.Article, error)
	FindBySection(ctx context.Context, section string) ([]models.Article, error)
	FindLatest(ctx context.Context, limit int) ([]models.Article, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}

var (
	_ Store = (*Database)(nil)
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MongoStore)(nil)
)

// Open подключается к хранилищу, выбранному в конфигурации.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return NewDB(ctx, cfg.DSN)
	case config.DriverSQLite:
		return NewSQLite(cfg.DSN)
	case config.DriverMongo:
		return NewMongo(ctx, cfg.DSN, cfg.Database, cfg.Collection)
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}

// stamp проставляет служебные даты перед записью.
func stamp(article *models.Article, now time.Time) {
	if article.CreatedAt.IsZero() {
		article.CreatedAt = now
	}
	article.UpdatedAt = now
}
