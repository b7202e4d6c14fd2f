package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"news_gateway/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const fetchTimeout = 10 * time.Second

// FetchFeed загружает RSS/Atom-ленту по url и превращает элементы в статьи.
func FetchFeed(ctx context.Context, url string) ([]models.Article, error) {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: fetchTimeout}
	parser.UserAgent = "news-gateway/1.0"

	feed, err := parser.ParseURLWithContext(url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}

	fetchedAt := time.Now().UTC()
	articles := make([]models.Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}
		articles = append(articles, toArticle(item, fetchedAt))
	}
	return articles, nil
}

// toArticle: description → лид, content (иначе description) → текст,
// categories → рубрики, published → updated → время загрузки.
func toArticle(item *gofeed.Item, fetchedAt time.Time) models.Article {
	publishedAt := fetchedAt
	if item.PublishedParsed != nil {
		publishedAt = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		publishedAt = *item.UpdatedParsed
	}

	body := item.Content
	if body == "" {
		body = item.Description
	}

	var sections []string
	for _, category := range item.Categories {
		if category = strings.TrimSpace(category); category != "" {
			sections = append(sections, category)
		}
	}

	return models.Article{
		Title:           strings.TrimSpace(item.Title),
		Lead:            stripHTML(item.Description),
		Body:            stripHTML(body),
		PublicationDate: publishedAt.UTC(),
		Sections:        sections,
		Link:            strings.TrimSpace(item.Link),
	}
}

// stripHTML оставляет только текст разметки.
func stripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.TrimSpace(doc.Text())
}
