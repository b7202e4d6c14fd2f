package scheduler_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"news_gateway/internal/models"
	"news_gateway/internal/scheduler"

	"github.com/stretchr/testify/require"
)

type stubBuilder struct {
	digest    []models.Article
	stats     models.ArticleStatistics
	digestErr error
	statsErr  error
}

func (s *stubBuilder) DailyDigest(ctx context.Context) ([]models.Article, error) {
	return s.digest, s.digestErr
}

func (s *stubBuilder) Statistics(ctx context.Context) (models.ArticleStatistics, error) {
	return s.stats, s.statsErr
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := scheduler.New("not a cron", time.UTC, &stubBuilder{})
	require.Error(t, err)

	_, err = scheduler.New("0 7 * * *", time.UTC, nil)
	require.Error(t, err)
}

func TestNext_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	s, err := scheduler.New("0 7 * * *", loc, &stubBuilder{})
	require.NoError(t, err)

	next := s.Next().In(loc)
	require.Equal(t, 7, next.Hour())
	require.Equal(t, 0, next.Minute())
	require.True(t, next.After(time.Now()))

	west := time.FixedZone("UTC-5", -5*60*60)
	s, err = scheduler.New("30 22 * * *", west, &stubBuilder{})
	require.NoError(t, err)

	next = s.Next().In(west)
	require.Equal(t, 22, next.Hour())
	require.Equal(t, 30, next.Minute())
}

func TestRunOnce(t *testing.T) {
	builder := &stubBuilder{
		digest: []models.Article{{ID: 1, Title: "Un"}, {ID: 2, Title: "Deux"}},
		stats:  models.ArticleStatistics{TotalArticles: 2, AverageWordCount: 12},
	}
	s, err := scheduler.New("0 7 * * *", nil, builder)
	require.NoError(t, err)

	report, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Digest, 2)
	require.Equal(t, 2, report.Stats.TotalArticles)
}

func TestRunOnce_Errors(t *testing.T) {
	boom := errors.New("store down")

	for name, builder := range map[string]*stubBuilder{
		"digest":     {digestErr: boom},
		"statistics": {statsErr: boom},
	} {
		t.Run(name, func(t *testing.T) {
			s, err := scheduler.New("0 7 * * *", time.UTC, builder)
			require.NoError(t, err)

			_, err = s.RunOnce(context.Background())
			require.ErrorIs(t, err, boom)
		})
	}
}

func TestStartStop(t *testing.T) {
	s, err := scheduler.New("@every 1h", time.UTC, &stubBuilder{})
	require.NoError(t, err)

	s.Start()
	s.Stop()
}
