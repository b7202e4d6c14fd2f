package models

import (
	"errors"
	"time"
)

// ErrNotFound возвращается хранилищем, если статья с запрошенным id отсутствует.
var ErrNotFound = errors.New("article not found")

// Article представляет одну статью коллекции.
// Поле Link заполняется при импорте из RSS и служит ключом upsert-а.
type Article struct {
	ID              int64     `json:"id" bson:"_id"`
	Title           string    `json:"title" bson:"title"`
	Lead            string    `json:"lead,omitempty" bson:"lead,omitempty"`
	Body            string    `json:"body,omitempty" bson:"body,omitempty"`
	PublicationDate time.Time `json:"publication_date" bson:"publication_date"`
	Sections        []string  `json:"sections,omitempty" bson:"sections,omitempty"`
	Link            string    `json:"link,omitempty" bson:"source_link,omitempty"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at"`
}

// PrimarySection возвращает первую рубрику статьи или fallback, если рубрик нет.
func (a Article) PrimarySection(fallback string) string {
	if len(a.Sections) > 0 {
		return a.Sections[0]
	}
	return fallback
}

// HasSection сообщает, есть ли среди рубрик статьи указанная.
func (a Article) HasSection(section string) bool {
	for _, s := range a.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// ArticleStatistics содержит сводку по всей коллекции статей.
type ArticleStatistics struct {
	TotalArticles       int              `json:"total_articles"`
	SectionDistribution map[string]int64 `json:"section_distribution"`
	OldestArticle       time.Time        `json:"oldest_article"`
	NewestArticle       time.Time        `json:"newest_article"`
	AverageWordCount    int              `json:"average_word_count"`
}
