package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news_gateway/internal/logger"
	"news_gateway/internal/models"
)

// Source отдаёт снимок коллекции статей и одну статью по id.
// FetchByID возвращает models.ErrNotFound, если статьи нет.
type Source interface {
	FetchAll(ctx context.Context) ([]models.Article, error)
	FetchByID(ctx context.Context, id int64) (models.Article, error)
}

// Observer получает длительность операции и размер обработанного снимка.
type Observer interface {
	ObserveOperation(operation string, snapshotSize int, duration time.Duration)
}

// Engine выполняет операции ранжирования над свежим снимком коллекции.
// Время читается один раз на операцию и передаётся во все оценки.
type Engine struct {
	source   Source
	rules    Rules
	now      func() time.Time
	observer Observer
}

// Option настраивает Engine.
type Option func(*Engine)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithObserver подключает сбор метрик.
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine создаёт Engine поверх source с правилами rules.
func NewEngine(source Source, rules Rules, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		rules:  rules,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules возвращает правила, с которыми работает движок.
func (e *Engine) Rules() Rules {
	return e.rules
}

// InterestingArticles возвращает limit самых интересных статей.
func (e *Engine) InterestingArticles(ctx context.Context, limit int) ([]models.Article, error) {
	return e.run(ctx, "interesting", func(articles []models.Article, now time.Time) []models.Article {
		return TopInteresting(articles, now, e.rules, limit)
	})
}

// InterestingArticlesDiversified возвращает limit интересных статей с ограничением на рубрику.
func (e *Engine) InterestingArticlesDiversified(ctx context.Context, limit int) ([]models.Article, error) {
	return e.run(ctx, "diversified", func(articles []models.Article, now time.Time) []models.Article {
		return Diversified(articles, now, e.rules, limit)
	})
}

// TopStories то же, что InterestingArticles.
func (e *Engine) TopStories(ctx context.Context, count int) ([]models.Article, error) {
	return e.InterestingArticles(ctx, count)
}

// DailyDigest возвращает диверсифицированную подборку размера Rules.DigestSize.
func (e *Engine) DailyDigest(ctx context.Context) ([]models.Article, error) {
	return e.InterestingArticlesDiversified(ctx, e.rules.DigestSize)
}

// TrendingBySection возвращает свежие статьи рубрики в пределах окна трендов.
func (e *Engine) TrendingBySection(ctx context.Context, section string, count int) ([]models.Article, error) {
	return e.run(ctx, "trending", func(articles []models.Article, now time.Time) []models.Article {
		return TrendingBySection(articles, now, section, e.rules.TrendingWindowDays, count)
	})
}

// RecentBreakingNews возвращает срочные новости за последние hours часов.
func (e *Engine) RecentBreakingNews(ctx context.Context, hours int) ([]models.Article, error) {
	return e.run(ctx, "breaking", func(articles []models.Article, now time.Time) []models.Article {
		return RecentBreaking(articles, now, e.rules.BreakingNewsSection, hours)
	})
}

// HighlightsByCategory возвращает подборку по фиксированным категориям.
func (e *Engine) HighlightsByCategory(ctx context.Context, perCategory int) (map[string][]models.Article, error) {
	started := time.Now()

	articles, err := e.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	highlights := HighlightsByCategory(articles, e.rules.HighlightCategories, perCategory)
	e.observe("highlights", len(articles), started)
	return highlights, nil
}

// SimilarArticles возвращает до count статей, похожих на статью id.
// Неизвестный id даёт пустой результат без ошибки.
func (e *Engine) SimilarArticles(ctx context.Context, id int64, count int) ([]models.Article, error) {
	started := time.Now()

	target, err := e.source.FetchByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return []models.Article{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch article %d: %w", id, err)
	}

	articles, err := e.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	similar := SimilarTo(target, articles, count)
	e.observe("similar", len(articles), started)
	return similar, nil
}

// Statistics возвращает сводную статистику по коллекции.
func (e *Engine) Statistics(ctx context.Context) (models.ArticleStatistics, error) {
	started, now := time.Now(), e.now()

	articles, err := e.source.FetchAll(ctx)
	if err != nil {
		return models.ArticleStatistics{}, fmt.Errorf("fetch articles: %w", err)
	}

	stats := Statistics(articles, now)
	e.observe("statistics", len(articles), started)
	return stats, nil
}

func (e *Engine) run(ctx context.Context, operation string, fn func([]models.Article, time.Time) []models.Article) ([]models.Article, error) {
	started, now := time.Now(), e.now()

	articles, err := e.source.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch articles: %w", err)
	}

	result := fn(articles, now)
	e.observe(operation, len(articles), started)
	return result, nil
}

func (e *Engine) observe(operation string, snapshotSize int, started time.Time) {
	elapsed := time.Since(started)
	if e.observer != nil {
		e.observer.ObserveOperation(operation, snapshotSize, elapsed)
	}
	logger.Log.WithFields(map[string]interface{}{
		"component":  "ranking",
		"operation":  operation,
		"articles":   snapshotSize,
		"elapsed_ms": elapsed.Milliseconds(),
	}).Debug("Ranking operation completed")
}
