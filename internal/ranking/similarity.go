package ranking

import "news_gateway/internal/models"

const (
	overlapWeight   = 70
	proximityWindow = 7
)

// Similarity оценивает близость двух статей: коэффициент Жаккара множеств рубрик,
// умноженный на 70, плюс 30-4*d, если публикации разделяет не больше 7 суток.
// Ноль означает, что статью не стоит рекомендовать.
func Similarity(a, b models.Article) float64 {
	var similarity float64

	if len(a.Sections) > 0 && len(b.Sections) > 0 {
		similarity += jaccard(a.Sections, b.Sections) * overlapWeight
	}

	daysDifference := daysBetween(a.PublicationDate, b.PublicationDate)
	if daysDifference < 0 {
		daysDifference = -daysDifference
	}
	if daysDifference <= proximityWindow {
		similarity += float64(30 - daysDifference*4)
	}

	return similarity
}

func jaccard(left, right []string) float64 {
	leftSet := toSet(left)
	rightSet := toSet(right)

	union := len(leftSet)
	intersection := 0
	for s := range rightSet {
		if _, ok := leftSet[s]; ok {
			intersection++
		} else {
			union++
		}
	}

	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
