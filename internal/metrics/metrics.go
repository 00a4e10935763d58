package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

var (
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizonfolio_upstream_requests_total",
		Help: "Sentiment provider requests by source and outcome",
	}, []string{"source", "outcome"})

	UpstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "horizonfolio_upstream_latency_seconds",
		Help:    "Latency of sentiment provider requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizonfolio_market_data_cache_lookups_total",
		Help: "Market data cache lookups by result",
	}, []string{"result"})

	FeedRevalidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "horizonfolio_feed_revalidations_total",
		Help: "Client feed revalidations by outcome",
	}, []string{"outcome"})
)

// ObserveUpstream records one provider call.
func ObserveUpstream(source, outcome string, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(source, outcome).Inc()
	UpstreamLatency.WithLabelValues(source).Observe(elapsed.Seconds())
}

func ObserveCache(result string) {
	CacheLookups.WithLabelValues(result).Inc()
}

func ObserveRevalidation(err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	FeedRevalidations.WithLabelValues(outcome).Inc()
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
