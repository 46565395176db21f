package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_store_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	HTTPRequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resource_store_http_request_duration_ms",
		Help:    "HTTP request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route", "method"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resource_store_cache_hits_total",
		Help: "Total search cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "resource_store_cache_misses_total",
		Help: "Total search cache misses",
	})
	StoreWritesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_store_writes_total",
		Help: "Store write calls by operation and outcome",
	}, []string{"op", "outcome"})
	IngestedPlacesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_store_ingested_places_total",
		Help: "External places seen by ingestion, by result (saved, skipped)",
	}, []string{"result"})
	PlacesRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_store_places_requests_total",
		Help: "Place provider requests by outcome",
	}, []string{"outcome"})
	PlacesDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "resource_store_places_duration_ms",
		Help:    "Place provider call duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	WorkerMessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resource_store_worker_messages_total",
		Help: "Stream messages handled by workers, by outcome",
	}, []string{"worker", "outcome"})
)

func init() {
	prometheus.MustRegister(HTTPRequestsTotal)
	prometheus.MustRegister(HTTPRequestDurationMs)
	prometheus.MustRegister(CacheHitsTotal)
	prometheus.MustRegister(CacheMissesTotal)
	prometheus.MustRegister(StoreWritesTotal)
	prometheus.MustRegister(IngestedPlacesTotal)
	prometheus.MustRegister(PlacesRequestsTotal)
	prometheus.MustRegister(PlacesDurationMs)
	prometheus.MustRegister(WorkerMessagesTotal)
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler { return promhttp.Handler() }

// Outcome labels an error result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
