package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics собирает счётчики HTTP-запросов, операций ранжирования и загрузки лент.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	OperationLatency *prometheus.HistogramVec
	SnapshotSize     *prometheus.GaugeVec
	IngestedArticles *prometheus.CounterVec
	FeedErrors       *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "news_gateway",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		OperationLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "news_gateway",
			Name:      "ranking_operation_duration_seconds",
			Help:      "Duration of ranking operations including snapshot load.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		SnapshotSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "news_gateway",
			Name:      "ranking_snapshot_articles",
			Help:      "Number of articles in the last snapshot seen by an operation.",
		}, []string{"operation"}),
		IngestedArticles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "ingested_articles_total",
			Help:      "Articles stored from RSS feeds.",
		}, []string{"feed"}),
		FeedErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "news_gateway",
			Name:      "feed_errors_total",
			Help:      "Failed RSS feed fetches.",
		}, []string{"feed"}),
	}

	reg.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.OperationLatency,
		m.SnapshotSize,
		m.IngestedArticles,
		m.FeedErrors,
	)
	return m
}

// ObserveOperation фиксирует длительность операции и размер снимка.
func (m *Metrics) ObserveOperation(operation string, snapshotSize int, duration time.Duration) {
	m.OperationLatency.WithLabelValues(operation).Observe(duration.Seconds())
	m.SnapshotSize.WithLabelValues(operation).Set(float64(snapshotSize))
}

// ObserveRequest фиксирует обработанный HTTP-запрос.
func (m *Metrics) ObserveRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// ObserveIngest фиксирует результат опроса ленты.
func (m *Metrics) ObserveIngest(feed string, stored int, err error) {
	if err != nil {
		m.FeedErrors.WithLabelValues(feed).Inc()
		return
	}
	m.IngestedArticles.WithLabelValues(feed).Add(float64(stored))
}
