package ranking_test

import (
	"testing"
	"time"

	"news_gateway/internal/ranking"

	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	testCases := []struct {
		name string
		a, b time.Time
		as   []string
		bs   []string
		want float64
	}{
		{
			name: "half overlap three days apart",
			a:    now, as: []string{"Sport", "Culture"},
			b: daysAgo(3), bs: []string{"Sport"},
			want: 53,
		},
		{
			name: "identical sections same day",
			a:    now, as: []string{"Sport"},
			b: now, bs: []string{"Sport"},
			want: 100,
		},
		{
			name: "duplicates collapse",
			a:    now, as: []string{"Sport", "Sport"},
			b: now, bs: []string{"Sport"},
			want: 100,
		},
		{
			name: "seven days is the last day of the window",
			a:    now, as: []string{"Sport"},
			b: daysAgo(7.9), bs: []string{"Culture"},
			want: 2,
		},
		{
			name: "beyond the window",
			a:    now, as: []string{"Sport"},
			b: daysAgo(8), bs: []string{"Culture"},
			want: 0,
		},
		{
			name: "missing sections only count proximity",
			a:    now, as: nil,
			b: daysAgo(1), bs: []string{"Sport"},
			want: 26,
		},
		{
			name: "no sections far apart",
			a:    now, b: daysAgo(100),
			want: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			a := article(1, tc.a, tc.as...)
			b := article(2, tc.b, tc.bs...)
			require.InDelta(t, tc.want, ranking.Similarity(a, b), 1e-9)
			require.InDelta(t, tc.want, ranking.Similarity(b, a), 1e-9)
		})
	}
}
