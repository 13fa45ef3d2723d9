// Package cache stores YouTube Data API responses in Redis for conditional requests.
//
// Data API list responses carry an ETag but no useful Expires header, so
// entries are kept for a fixed retention period and every reuse is
// revalidated with If-None-Match. A 304 Not Modified answer serves the stored
// body and refreshes the retention period.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	manager := cache.NewManager(redisClient, cache.DefaultRetention)
//
//	key := cache.Key{
//		Resource: "playlistItems",
//		Query:    url.Values{"playlistId": {"PL123"}, "part": {"snippet"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch without If-None-Match
//	}
//
// # Conditional Requests
//
//	if cache.ShouldRevalidate(entry) {
//		cache.AddConditionalHeaders(req, entry)
//	}
//
// # Keys
//
// Keys are built from the resource name and the sorted query string. The
// API key parameter is never part of a cache key.
//
// # Metrics
//
//   - youtube_cache_hits_total - Entries found in Redis
//   - youtube_cache_misses_total - Lookups without an entry
//   - youtube_cache_written_bytes_total - Bytes written to Redis
//   - youtube_not_modified_total - 304 responses served from cache
//   - youtube_conditional_requests_total - Requests sent with If-None-Match
//   - youtube_cache_errors_total{operation} - Redis operation errors
//
// Caching is an optimization only: records are never stored here.
package cache
