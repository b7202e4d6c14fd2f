package ranking_test

import (
	"math"
	"testing"
	"time"

	"news_gateway/internal/models"
	"news_gateway/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Оценки при now: 1=63, 2=71, 3=45, 4=59, 5=57, 6=50.
func diversifiedFixture() []models.Article {
	second := article(2, daysAgo(2), "Sport", "Culture")
	second.Lead = "lead"

	return []models.Article{
		article(1, daysAgo(1), "Sport"),
		second,
		article(3, daysAgo(10), "Sport"),
		article(4, daysAgo(3), "Culture"),
		article(5, daysAgo(4), "Culture"),
		article(6, daysAgo(0.5)),
	}
}

func TestTopInteresting(t *testing.T) {
	rules := ranking.DefaultRules()
	articles := diversifiedFixture()

	require.Equal(t, []int64{2, 1, 4, 5, 6, 3}, ids(ranking.TopInteresting(articles, now, rules, 10)))
	require.Equal(t, []int64{2, 1, 4}, ids(ranking.TopInteresting(articles, now, rules, 3)))
	require.Empty(t, ranking.TopInteresting(articles, now, rules, 0))
	require.Empty(t, ranking.TopInteresting(articles, now, rules, -1))
	require.Empty(t, ranking.TopInteresting(nil, now, rules, 5))
}

func TestTopInteresting_MonotonicScores(t *testing.T) {
	rules := ranking.DefaultRules()
	result := ranking.TopInteresting(diversifiedFixture(), now, rules, 6)

	require.Len(t, result, 6)
	for i := 1; i < len(result); i++ {
		assert.GreaterOrEqual(t,
			ranking.InterestScore(result[i-1], now, rules),
			ranking.InterestScore(result[i], now, rules))
	}
}

func TestTopInteresting_TiesKeepCollectionOrder(t *testing.T) {
	articles := []models.Article{
		article(10, daysAgo(1), "Monde"),
		article(11, daysAgo(1), "Monde"),
		article(12, daysAgo(1), "Monde"),
	}

	result := ranking.TopInteresting(articles, now, ranking.DefaultRules(), 3)
	require.Equal(t, []int64{10, 11, 12}, ids(result))
}

func TestTopInteresting_DoesNotMutateInput(t *testing.T) {
	articles := diversifiedFixture()
	ranking.TopInteresting(articles, now, ranking.DefaultRules(), 6)
	require.Equal(t, []int64{1, 2, 3, 4, 5, 6}, ids(articles))
}

func TestDiversified(t *testing.T) {
	rules := ranking.DefaultRules()
	articles := diversifiedFixture()

	t.Run("two per section ordered by date", func(t *testing.T) {
		result := ranking.Diversified(articles, now, rules, 6)
		require.Equal(t, []int64{6, 1, 2, 4, 5}, ids(result))
	})

	t.Run("at least one per section", func(t *testing.T) {
		result := ranking.Diversified(articles, now, rules, 3)
		require.Equal(t, []int64{6, 2, 4}, ids(result))
	})

	t.Run("truncated after merge", func(t *testing.T) {
		result := ranking.Diversified(articles, now, rules, 1)
		require.Equal(t, []int64{6}, ids(result))
	})

	t.Run("zero limit", func(t *testing.T) {
		require.Empty(t, ranking.Diversified(articles, now, rules, 0))
	})

	t.Run("empty collection", func(t *testing.T) {
		require.Empty(t, ranking.Diversified(nil, now, rules, 10))
	})

	t.Run("publication dates are non-increasing", func(t *testing.T) {
		result := ranking.Diversified(articles, now, rules, 10)
		for i := 1; i < len(result); i++ {
			assert.False(t, result[i].PublicationDate.After(result[i-1].PublicationDate))
		}
	})
}

func TestTrendingBySection(t *testing.T) {
	articles := []models.Article{
		article(1, daysAgo(40), "Sport"),
		article(2, daysAgo(5), "Sport"),
		article(3, daysAgo(1), "Culture"),
		article(4, daysAgo(1), "Culture", "Sport"),
	}

	require.Equal(t, []int64{4, 2}, ids(ranking.TrendingBySection(articles, now, "Sport", 30, 5)))
	require.Equal(t, []int64{4}, ids(ranking.TrendingBySection(articles, now, "Sport", 30, 1)))
	require.Empty(t, ranking.TrendingBySection(articles, now, "Économie", 30, 5))
	require.Equal(t, []int64{4, 2, 1}, ids(ranking.TrendingBySection(articles, now, "Sport", 60, 5)))
}

func TestHighlightsByCategory(t *testing.T) {
	categories := ranking.DefaultRules().HighlightCategories
	articles := []models.Article{
		article(1, daysAgo(3), "Sport"),
		article(2, daysAgo(1), "Sport"),
		article(3, daysAgo(2), "Sport", "Culture"),
		article(4, daysAgo(9), "Monde"),
	}

	highlights := ranking.HighlightsByCategory(articles, categories, 2)

	require.Len(t, highlights, 2)
	require.Equal(t, []int64{2, 3}, ids(highlights["Sport"]))
	require.Equal(t, []int64{3}, ids(highlights["Culture"]))

	_, ok := highlights["Actualités"]
	require.False(t, ok, "categories without articles are omitted")

	require.Empty(t, ranking.HighlightsByCategory(articles, categories, 0))
}

func TestRecentBreaking(t *testing.T) {
	articles := []models.Article{
		article(1, now.Add(-2*time.Hour), "Actualités"),
		article(2, now.Add(-30*time.Hour), "Actualités"),
		article(3, now.Add(-1*time.Hour), "Sport"),
		article(4, now.Add(-5*time.Hour), "Sport", "Actualités"),
		article(5, now.Add(-24*time.Hour), "Actualités"),
	}

	result := ranking.RecentBreaking(articles, now, "Actualités", 24)
	require.Equal(t, []int64{1, 4}, ids(result))

	require.NotNil(t, ranking.RecentBreaking(nil, now, "Actualités", 24))
}

func TestRecentBreaking_HugeWindow(t *testing.T) {
	articles := []models.Article{
		article(1, daysAgo(10), "Actualités"),
		article(2, daysAgo(365*50), "Actualités"),
		article(3, daysAgo(1), "Sport"),
	}

	for _, hours := range []int{1_000_000, 3_000_000, math.MaxInt32, math.MaxInt} {
		result := ranking.RecentBreaking(articles, now, "Actualités", hours)
		require.Equal(t, []int64{1, 2}, ids(result), "hours=%d", hours)
	}
}

func TestSimilarTo(t *testing.T) {
	target := article(1, now, "Sport", "Culture")
	articles := []models.Article{
		target,
		article(2, daysAgo(3), "Sport"),
		article(3, daysAgo(30), "Économie"),
		article(4, daysAgo(1), "Sport", "Culture"),
	}

	result := ranking.SimilarTo(target, articles, 5)
	require.Equal(t, []int64{4, 2}, ids(result))
	require.Equal(t, []int64{4}, ids(ranking.SimilarTo(target, articles, 1)))

	for _, a := range result {
		require.NotEqual(t, target.ID, a.ID)
		require.Greater(t, ranking.Similarity(target, a), 0.0)
	}
}
