package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"news_gateway/internal/logger"
	"news_gateway/internal/models"

	"github.com/robfig/cron/v3"
)

const jobTimeout = 30 * time.Second

// DigestBuilder собирает дайджест и статистику. Реализуется ranking.Engine.
type DigestBuilder interface {
	DailyDigest(ctx context.Context) ([]models.Article, error)
	Statistics(ctx context.Context) (models.ArticleStatistics, error)
}

// Report содержит результат одного запуска.
type Report struct {
	Digest []models.Article
	Stats  models.ArticleStatistics
}

// Scheduler запускает сборку дайджеста по cron-расписанию.
type Scheduler struct {
	cron    *cron.Cron
	loc     *time.Location
	builder DigestBuilder
}

// New создаёт планировщик для стандартного cron-выражения schedule в часовом поясе loc.
func New(schedule string, loc *time.Location, builder DigestBuilder) (*Scheduler, error) {
	if builder == nil {
		return nil, errors.New("digest builder must not be nil")
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{cron: cron.New(cron.WithLocation(loc)), loc: loc, builder: builder}
	if _, err := s.cron.AddFunc(schedule, s.job); err != nil {
		return nil, fmt.Errorf("add cron: %w", err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop останавливает планировщик и ждёт завершения запущенного задания.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// Next возвращает время ближайшего запуска в часовом поясе планировщика.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Schedule.Next(time.Now().In(s.loc))
}

// RunOnce собирает дайджест и статистику и пишет сводку в лог.
func (s *Scheduler) RunOnce(ctx context.Context) (Report, error) {
	digest, err := s.builder.DailyDigest(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("build digest: %w", err)
	}
	stats, err := s.builder.Statistics(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("build statistics: %w", err)
	}

	titles := make([]string, len(digest))
	for i, article := range digest {
		titles[i] = article.Title
	}
	logger.Component("scheduler").WithFields(map[string]interface{}{
		"digest_size":        len(digest),
		"titles":             titles,
		"total_articles":     stats.TotalArticles,
		"average_word_count": stats.AverageWordCount,
		"sections":           len(stats.SectionDistribution),
	}).Info("Daily digest built")

	return Report{Digest: digest, Stats: stats}, nil
}

func (s *Scheduler) job() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.RunOnce(ctx); err != nil {
		logger.Component("scheduler").Errorf("Daily digest failed: %v", err)
	}
}
