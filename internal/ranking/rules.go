package ranking

// Rules задаёт литералы рубрик и окна, которыми пользуются эвристики.
// Значения приходят из конфигурации, DefaultRules повторяет исходный набор RTS.
type Rules struct {
	// BreakingSections дают +15 к интересности.
	BreakingSections []string
	// MajorSections дают +10 к интересности.
	MajorSections []string
	// HighlightCategories перечисляют рубрики подборки highlights.
	HighlightCategories []string
	// BreakingNewsSection отбирает статьи для ленты срочных новостей.
	BreakingNewsSection string
	// FallbackSection используется как основная рубрика статьи без рубрик.
	FallbackSection string
	// TrendingWindowDays ограничивает возраст статей в трендах.
	TrendingWindowDays int
	// DigestSize определяет размер ежедневного дайджеста.
	DigestSize int
}

const (
	breakingBonus = 15
	majorBonus    = 10
)

// DefaultRules возвращает правила по умолчанию.
func DefaultRules() Rules {
	return Rules{
		BreakingSections:    []string{"Actualités", "Breaking"},
		MajorSections:       []string{"Sport", "Culture"},
		HighlightCategories: []string{"Sport", "Culture", "Actualités", "Économie"},
		BreakingNewsSection: "Actualités",
		FallbackSection:     "Divers",
		TrendingWindowDays:  30,
		DigestSize:          10,
	}
}

// priorityBonus просматривает рубрики в порядке статьи и возвращает бонус первой
// совпавшей. Рубрика "Sport" перед "Actualités" даёт 10, а не 15.
func (r Rules) priorityBonus(sections []string) float64 {
	for _, section := range sections {
		if contains(r.BreakingSections, section) {
			return breakingBonus
		}
		if contains(r.MajorSections, section) {
			return majorBonus
		}
	}
	return 0
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
