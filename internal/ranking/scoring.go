package ranking

import (
	"time"
	"unicode/utf8"

	"news_gateway/internal/models"
)

const day = 24 * time.Hour

// daysBetween считает целые сутки от from до to с отсечением к нулю.
// Для from позже to результат отрицательный.
func daysBetween(from, to time.Time) int64 {
	return int64(to.Sub(from) / day)
}

// InterestScore вычисляет эвристическую интересность статьи относительно now.
// Слагаемые независимы и не нормируются: свежесть, наличие лида, длина текста,
// число рубрик и бонус приоритетной рубрики.
func InterestScore(article models.Article, now time.Time, rules Rules) float64 {
	var score float64

	// статьи из будущего получают больше 50 баллов
	daysOld := daysBetween(article.PublicationDate, now)
	score += max(0, 50-float64(daysOld)*2)

	if article.Lead != "" {
		score += 5
	}

	bodyLength := utf8.RuneCountInString(article.Body)
	if bodyLength > 200 {
		score += 10
	}
	if bodyLength > 500 {
		score += 5
	}

	score += min(15, 5*float64(len(article.Sections)))
	score += rules.priorityBonus(article.Sections)

	return score
}
