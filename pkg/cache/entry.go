package cache

import (
	"net/http"
	"time"
)

// Entry is a stored API response.
type Entry struct {
	// Data is the response body.
	Data []byte `json:"data"`

	// ETag from the response, sent back as If-None-Match.
	ETag string `json:"etag"`

	// StatusCode of the stored response.
	StatusCode int `json:"status_code"`

	// Headers of the stored response.
	Headers http.Header `json:"headers"`

	// StoredAt is when the response was written to the cache.
	StoredAt time.Time `json:"stored_at"`
}

// Age returns how long ago the entry was stored.
func (e *Entry) Age() time.Duration {
	return time.Since(e.StoredAt)
}

// Usable reports whether the entry can stand in for a fresh response.
func (e *Entry) Usable() bool {
	return e != nil && e.StatusCode == http.StatusOK && len(e.Data) > 0
}
