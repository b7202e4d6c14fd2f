package ranking

import (
	"strings"
	"time"

	"news_gateway/internal/models"
)

// Statistics сворачивает коллекцию в один проход.
// Для пустой коллекции OldestArticle равен now, NewestArticle равен нулевому времени.
func Statistics(articles []models.Article, now time.Time) models.ArticleStatistics {
	stats := models.ArticleStatistics{
		TotalArticles:       len(articles),
		SectionDistribution: make(map[string]int64),
		OldestArticle:       now,
		NewestArticle:       time.Time{},
	}

	totalWords := 0
	for _, article := range articles {
		for section := range toSet(article.Sections) {
			stats.SectionDistribution[section]++
		}

		if article.PublicationDate.Before(stats.OldestArticle) {
			stats.OldestArticle = article.PublicationDate
		}
		if article.PublicationDate.After(stats.NewestArticle) {
			stats.NewestArticle = article.PublicationDate
		}

		totalWords += len(strings.Fields(article.Body))
	}

	if len(articles) > 0 {
		stats.AverageWordCount = totalWords / len(articles)
	}
	return stats
}
