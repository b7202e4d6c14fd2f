package ranking_test

import (
	"time"

	"news_gateway/internal/models"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func daysAgo(days float64) time.Time {
	return now.Add(-time.Duration(days * float64(24*time.Hour)))
}

func article(id int64, published time.Time, sections ...string) models.Article {
	return models.Article{
		ID:              id,
		Title:           "article",
		PublicationDate: published,
		Sections:        sections,
	}
}

func ids(articles []models.Article) []int64 {
	result := make([]int64, len(articles))
	for i, a := range articles {
		result[i] = a.ID
	}
	return result
}
