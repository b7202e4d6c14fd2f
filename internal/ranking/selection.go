package ranking

import (
	"math"
	"sort"
	"time"

	"news_gateway/internal/models"
)

type scoredArticle struct {
	article models.Article
	score   float64
}

// TopInteresting возвращает n самых интересных статей.
// Статьи с равной оценкой сохраняют порядок коллекции.
func TopInteresting(articles []models.Article, now time.Time, rules Rules, n int) []models.Article {
	return take(rankByInterest(articles, now, rules), n)
}

// Diversified группирует статьи по основной рубрике, берёт из каждой группы
// max(1, n/групп) самых интересных и упорядочивает объединение по дате публикации.
// Итоговый порядок задаётся датой, а не оценкой.
func Diversified(articles []models.Article, now time.Time, rules Rules, n int) []models.Article {
	order, groups := groupByPrimarySection(articles, rules.FallbackSection)

	perSection := 1
	if len(groups) > 0 {
		perSection = max(1, n/len(groups))
	}

	selected := make([]models.Article, 0, len(articles))
	for _, section := range order {
		selected = append(selected, take(rankByInterest(groups[section], now, rules), perSection)...)
	}

	sortByPublicationDesc(selected)
	return take(selected, n)
}

// TrendingBySection отбирает статьи рубрики за последние windowDays суток, свежие первыми.
func TrendingBySection(articles []models.Article, now time.Time, section string, windowDays, n int) []models.Article {
	cutoff := now.AddDate(0, 0, -windowDays)

	var matched []models.Article
	for _, article := range articles {
		if article.HasSection(section) && article.PublicationDate.After(cutoff) {
			matched = append(matched, article)
		}
	}

	sortByPublicationDesc(matched)
	return take(matched, n)
}

// HighlightsByCategory возвращает до perCategory свежих статей на каждую категорию.
// Категории без статей в результат не попадают.
func HighlightsByCategory(articles []models.Article, categories []string, perCategory int) map[string][]models.Article {
	highlights := make(map[string][]models.Article)

	for _, category := range categories {
		var matched []models.Article
		for _, article := range articles {
			if article.HasSection(category) {
				matched = append(matched, article)
			}
		}

		sortByPublicationDesc(matched)
		if selected := take(matched, perCategory); len(selected) > 0 {
			highlights[category] = selected
		}
	}

	return highlights
}

// RecentBreaking возвращает все статьи рубрики section, опубликованные позже now-hours.
func RecentBreaking(articles []models.Article, now time.Time, section string, hours int) []models.Article {
	cutoff := hoursBefore(now, hours)

	matched := []models.Article{}
	for _, article := range articles {
		if article.PublicationDate.After(cutoff) && article.HasSection(section) {
			matched = append(matched, article)
		}
	}

	sortByPublicationDesc(matched)
	return matched
}

// SimilarTo возвращает n статей, наиболее похожих на target, со строго положительной близостью.
// Сама target в сравнении не участвует.
func SimilarTo(target models.Article, articles []models.Article, n int) []models.Article {
	scored := make([]scoredArticle, 0, len(articles))
	for _, article := range articles {
		if article.ID == target.ID {
			continue
		}
		if similarity := Similarity(target, article); similarity > 0 {
			scored = append(scored, scoredArticle{article: article, score: similarity})
		}
	}

	sortByScoreDesc(scored)
	return take(unwrap(scored), n)
}

// Окно в часах, которое ещё помещается в time.Duration.
const maxDurationHours = int(math.MaxInt64 / int64(time.Hour))

// Дальше миллиона лет окно ничего не меняет, а AddDate не переполняется.
const maxWindowHours = 24 * 366 * 1_000_000

// hoursBefore возвращает now минус hours часов без переполнения Duration.
func hoursBefore(now time.Time, hours int) time.Time {
	if hours <= maxDurationHours {
		return now.Add(-time.Duration(hours) * time.Hour)
	}
	hours = min(hours, maxWindowHours)
	return now.AddDate(0, 0, -hours/24).Add(-time.Duration(hours%24) * time.Hour)
}

func rankByInterest(articles []models.Article, now time.Time, rules Rules) []models.Article {
	scored := make([]scoredArticle, len(articles))
	for i, article := range articles {
		scored[i] = scoredArticle{article: article, score: InterestScore(article, now, rules)}
	}

	sortByScoreDesc(scored)
	return unwrap(scored)
}

func groupByPrimarySection(articles []models.Article, fallback string) ([]string, map[string][]models.Article) {
	var order []string
	groups := make(map[string][]models.Article)

	for _, article := range articles {
		section := article.PrimarySection(fallback)
		if _, ok := groups[section]; !ok {
			order = append(order, section)
		}
		groups[section] = append(groups[section], article)
	}

	return order, groups
}

func sortByScoreDesc(scored []scoredArticle) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
}

func sortByPublicationDesc(articles []models.Article) {
	sort.SliceStable(articles, func(i, j int) bool {
		return articles[i].PublicationDate.After(articles[j].PublicationDate)
	})
}

func unwrap(scored []scoredArticle) []models.Article {
	articles := make([]models.Article, len(scored))
	for i, s := range scored {
		articles[i] = s.article
	}
	return articles
}

// take возвращает первые n элементов; отрицательное n трактуется как 0.
func take(articles []models.Article, n int) []models.Article {
	if n < 0 {
		n = 0
	}
	if n > len(articles) {
		n = len(articles)
	}
	if n == 0 {
		return []models.Article{}
	}
	return articles[:n:n]
}
