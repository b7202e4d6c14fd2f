package fetcher

import (
	"context"
	"sync"
	"time"

	"news_gateway/internal/logger"
	"news_gateway/internal/models"
)

// ArticleSaver сохраняет статью (upsert по ссылке).
type ArticleSaver interface {
	SaveArticle(ctx context.Context, article *models.Article) error
}

// IngestObserver получает итог обработки каждой ленты.
type IngestObserver interface {
	ObserveIngest(feed string, stored int, err error)
}

// Invalidator сбрасывает закешированный снимок после записи.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

type Option func(*Poller)

func WithObserver(o IngestObserver) Option {
	return func(p *Poller) { p.observer = o }
}

func WithInvalidator(i Invalidator) Option {
	return func(p *Poller) { p.invalidator = i }
}

// Poller периодически опрашивает ленты и складывает статьи в хранилище.
type Poller struct {
	store       ArticleSaver
	urls        []string
	observer    IngestObserver
	invalidator Invalidator
}

func NewPoller(store ArticleSaver, urls []string, opts ...Option) *Poller {
	p := &Poller{store: store, urls: urls}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// StartPolling опрашивает ленты сразу и затем каждые interval, пока не отменён ctx.
func StartPolling(ctx context.Context, store ArticleSaver, urls []string, interval time.Duration, opts ...Option) {
	NewPoller(store, urls, opts...).Run(ctx, interval)
}

// Run блокируется до отмены ctx.
func (p *Poller) Run(ctx context.Context, interval time.Duration) {
	log := logger.Log.WithFields(map[string]interface{}{
		"service":  "poller",
		"interval": interval.String(),
		"feeds":    len(p.urls),
	})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		log.Info("Starting new polling cycle")
		stored := p.PollOnce(ctx)
		log.WithField("stored", stored).Info("Polling cycle finished")

		select {
		case <-ticker.C:
		case <-ctx.Done():
			log.Info("Stopping poller by context")
			return
		}
	}
}

// PollOnce параллельно обрабатывает все ленты и возвращает число сохранённых статей.
func (p *Poller) PollOnce(ctx context.Context) int {
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for _, url := range p.urls {
		wg.Add(1)
		go func(url string) {
			defer wg.Done()
			stored, err := p.processFeed(ctx, url)
			if p.observer != nil {
				p.observer.ObserveIngest(url, stored, err)
			}
			mu.Lock()
			total += stored
			mu.Unlock()
		}(url)
	}
	wg.Wait()

	if total > 0 && p.invalidator != nil {
		if err := p.invalidator.Invalidate(ctx); err != nil {
			logger.Component("poller").Warnf("Failed to invalidate snapshot cache: %v", err)
		}
	}
	return total
}

func (p *Poller) processFeed(ctx context.Context, url string) (int, error) {
	log := logger.Log.WithField("url", url)

	log.Debug("Fetching RSS feed")
	articles, err := FetchFeed(ctx, url)
	if err != nil {
		log.Errorf("Failed to fetch RSS: %v", err)
		return 0, err
	}

	log = log.WithField("items_count", len(articles))
	log.Info("Processing RSS feed")

	stored := 0
	for i := range articles {
		if err := p.store.SaveArticle(ctx, &articles[i]); err != nil {
			log.Warnf("Failed to save article %q: %v", articles[i].Link, err)
			continue
		}
		stored++
	}
	return stored, nil
}
