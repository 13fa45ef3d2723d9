// Package pagination walks token-paginated YouTube Data API collections.
//
// List endpoints (playlists, playlistItems, commentThreads, search) return a
// nextPageToken while more data exists. The walker requests pages one at a
// time, starting without a token, and stops at the first page whose token is
// empty.
//
// Example usage:
//
//	fetcher := client.PlaylistItemsFetcher(ytClient)
//	items, err := pagination.Collect(ctx, fetcher, "PLxyz")
//
// The walker:
//   - Fetches sequentially, one request in flight
//   - Never inspects item contents, only the continuation token
//   - Has no page cap and no cycle detection
//   - Aborts on the first fetch error (no retries)
package pagination
