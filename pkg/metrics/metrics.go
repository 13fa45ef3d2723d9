// Package metrics exposes the Prometheus registry the harvester's packages
// register into. Metrics are defined next to the code that updates them
// (client, cache, quota, pagination, normalize) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all harvester metrics are added to.
var Registry = prometheus.DefaultRegisterer

// Gatherer collects the metrics exposed by Handler.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - youtube_requests_total{resource, status} (Counter): Requests by resource and HTTP status
//   - youtube_request_duration_seconds{resource} (Histogram): Request duration by resource
//   - youtube_errors_total{class} (Counter): Errors by class (client, quota, server, network)
//
// Cache Metrics (pkg/cache):
//   - youtube_cache_hits_total (Counter): Cached responses found
//   - youtube_cache_misses_total (Counter): Lookups without an entry
//   - youtube_cache_written_bytes_total (Counter): Bytes written to the cache
//   - youtube_not_modified_total (Counter): 304 responses served from cache
//   - youtube_conditional_requests_total (Counter): Requests sent with If-None-Match
//   - youtube_cache_errors_total{operation} (Counter): Cache operation errors
//
// Quota Metrics (pkg/quota):
//   - youtube_quota_units_used (Gauge): Units used in the current Pacific-time day
//   - youtube_quota_units_total{resource} (Counter): Units spent by resource
//
// Harvest Metrics (pkg/pagination, pkg/normalize):
//   - youtube_pagination_pages_total (Counter): List pages fetched
//   - youtube_normalized_records_total{shape} (Counter): Records produced by shape
//
// Example Prometheus Queries:
//
//   # Revalidation hit rate
//   rate(youtube_not_modified_total[5m]) / rate(youtube_conditional_requests_total[5m])
//
//   # Quota headroom
//   10000 - youtube_quota_units_used
//
//   # Quota errors
//   rate(youtube_errors_total{class="quota"}[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(youtube_request_duration_seconds_bucket[5m]))
