package metrics_test

import (
	"errors"
	"testing"
	"time"

	"news_gateway/internal/metrics"
	"news_gateway/internal/ranking"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var _ ranking.Observer = (*metrics.Metrics)(nil)

func TestObserveOperation(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveOperation("interesting", 42, 15*time.Millisecond)
	m.ObserveOperation("interesting", 40, 5*time.Millisecond)

	require.Equal(t, float64(40), testutil.ToFloat64(m.SnapshotSize.WithLabelValues("interesting")))
	require.Equal(t, 1, testutil.CollectAndCount(m.OperationLatency))
}

func TestObserveRequest(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	m.ObserveRequest("GET", "/top-stories", 200, time.Millisecond)
	m.ObserveRequest("GET", "/top-stories", 200, time.Millisecond)
	m.ObserveRequest("GET", "/top-stories", 400, time.Millisecond)

	require.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/top-stories", "200")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/top-stories", "400")))
}

func TestObserveIngest(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	feed := "https://example.com/rss"

	m.ObserveIngest(feed, 3, nil)
	m.ObserveIngest(feed, 2, nil)
	m.ObserveIngest(feed, 0, errors.New("timeout"))

	require.Equal(t, float64(5), testutil.ToFloat64(m.IngestedArticles.WithLabelValues(feed)))
	require.Equal(t, float64(1), testutil.ToFloat64(m.FeedErrors.WithLabelValues(feed)))
}
