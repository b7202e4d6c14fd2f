package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"news_gateway/internal/config"
	"news_gateway/internal/logger"
	"news_gateway/internal/models"
	"news_gateway/internal/ranking"

	"github.com/redis/go-redis/v9"
)

var _ ranking.Source = (*SnapshotCache)(nil)

// SnapshotCache хранит снимок всей коллекции в Redis и отдаёт его вместо похода в базу.
// Ошибки Redis не выходят наружу: запрос уходит в исходное хранилище.
type SnapshotCache struct {
	client *redis.Client
	next   ranking.Source
	key    string
	ttl    time.Duration
}

// NewClient создаёт клиента Redis по настройкам кеша.
func NewClient(cfg config.CacheConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// NewSnapshotCache оборачивает next кешем под ключом key со временем жизни ttl.
func NewSnapshotCache(client *redis.Client, next ranking.Source, key string, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, next: next, key: key, ttl: ttl}
}

// FetchAll возвращает снимок из кеша, а при промахе читает его из хранилища и кладёт в кеш.
func (c *SnapshotCache) FetchAll(ctx context.Context) ([]models.Article, error) {
	log := logger.Component("cache").WithField("key", c.key)

	raw, err := c.client.Get(ctx, c.key).Bytes()
	switch {
	case err == nil:
		var articles []models.Article
		if err := json.Unmarshal(raw, &articles); err == nil {
			log.Debug("Snapshot served from cache")
			return articles, nil
		}
		log.Warn("Cached snapshot is corrupted, reloading")
	case errors.Is(err, redis.Nil):
		log.Debug("Snapshot cache miss")
	default:
		log.Warnf("Redis get failed: %v", err)
	}

	articles, err := c.next.FetchAll(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(articles)
	if err != nil {
		log.Warnf("Failed to encode snapshot: %v", err)
		return articles, nil
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		log.Warnf("Redis set failed: %v", err)
	}
	return articles, nil
}

// FetchByID читает статью напрямую из хранилища.
func (c *SnapshotCache) FetchByID(ctx context.Context, id int64) (models.Article, error) {
	return c.next.FetchByID(ctx, id)
}

// Invalidate удаляет снимок из кеша.
func (c *SnapshotCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, c.key).Err()
}
