package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks entries found in Redis
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youtube_cache_hits_total",
		Help: "Total number of response cache hits",
	})

	// CacheMisses tracks lookups without an entry
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youtube_cache_misses_total",
		Help: "Total number of response cache misses",
	})

	// CacheSize tracks bytes written to Redis
	CacheSize = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youtube_cache_written_bytes_total",
		Help: "Total bytes written to the response cache",
	})

	// NotModifiedResponses tracks 304 responses served from cache
	NotModifiedResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youtube_not_modified_total",
		Help: "Total number of 304 Not Modified responses served from cache",
	})

	// ConditionalRequests tracks requests sent with If-None-Match
	ConditionalRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "youtube_conditional_requests_total",
		Help: "Total number of conditional requests sent",
	})

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "youtube_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete", "touch"
	)
)
