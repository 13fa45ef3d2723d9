// Package testutil provides testing utilities for the YouTube client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// pagedResource serves fixed pages per parent ID.
type pagedResource struct {
	param string
	pages map[string][][]string
}

// MockYouTube is a configurable mock of the YouTube Data API for testing.
// Paths are resource paths relative to the server root, e.g. "/commentThreads".
type MockYouTube struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	paged    map[string]*pagedResource

	// Tracking
	RequestCount     int
	ConditionalCount int
	LastQuery        url.Values
}

// NewMockYouTube creates a new mock YouTube server.
func NewMockYouTube() *MockYouTube {
	mock := &MockYouTube{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		paged:    make(map[string]*pagedResource),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastQuery = r.URL.Query()
		if r.Header.Get("If-None-Match") != "" {
			mock.ConditionalCount++
		}
		handler, hasHandler := mock.handlers[r.URL.Path]
		paged, hasPages := mock.paged[r.URL.Path]
		mock.mu.Unlock()

		switch {
		case hasHandler:
			handler(w, r)
		case hasPages:
			mock.servePage(w, r, paged)
		default:
			WriteError(w, http.StatusNotFound, "notFound", "unknown resource "+r.URL.Path)
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockYouTube) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockYouTube) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockYouTube) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ConditionalCount = 0
	m.LastQuery = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockYouTube) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockYouTube) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPages serves pages of items for the parent whose ID is passed in query
// parameter param. Page N (0-based) carries nextPageToken "page-N+1" unless
// it is the last page. Each page has a stable ETag and answers a matching
// If-None-Match with 304. Unknown parents get an empty page.
func (m *MockYouTube) SetPages(path, param, parentID string, pages ...[]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.paged[path]
	if !ok {
		res = &pagedResource{param: param, pages: make(map[string][][]string)}
		m.paged[path] = res
	}
	res.pages[parentID] = pages
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockYouTube) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetConditionalCount returns the number of conditional requests.
func (m *MockYouTube) GetConditionalCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ConditionalCount
}

// GetLastQuery returns the query of the most recent request.
func (m *MockYouTube) GetLastQuery() url.Values {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastQuery
}

func (m *MockYouTube) servePage(w http.ResponseWriter, r *http.Request, res *pagedResource) {
	parentID := r.URL.Query().Get(res.param)

	m.mu.RLock()
	pages := res.pages[parentID]
	m.mu.RUnlock()

	index := 0
	if token := r.URL.Query().Get("pageToken"); token != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(token, "page-"))
		if err != nil || n < 0 || n >= len(pages) {
			WriteError(w, http.StatusBadRequest, "invalidPageToken", "invalid page token "+token)
			return
		}
		index = n
	}

	var items []string
	next := ""
	if index < len(pages) {
		items = pages[index]
		if index+1 < len(pages) {
			next = fmt.Sprintf("page-%d", index+1)
		}
	}

	etag := fmt.Sprintf(`"%s-%s-%d"`, strings.Trim(r.URL.Path, "/"), parentID, index)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(PageBody(next, items...)))
}

// PageBody renders a list response with the given items and continuation token.
func PageBody(nextPageToken string, items ...string) string {
	raw := make([]json.RawMessage, 0, len(items))
	for _, it := range items {
		raw = append(raw, json.RawMessage(it))
	}
	body := map[string]any{
		"kind":     "youtube#listResponse",
		"items":    raw,
		"pageInfo": map[string]int{"totalResults": len(items), "resultsPerPage": len(items)},
	}
	if nextPageToken != "" {
		body["nextPageToken"] = nextPageToken
	}
	data, err := json.Marshal(body)
	if err != nil {
		panic(fmt.Sprintf("render page body: %v", err))
	}
	return string(data)
}

// ErrorBody renders a YouTube error document.
func ErrorBody(status int, reason, message string) string {
	return fmt.Sprintf(`{"error":{"code":%d,"message":%q,"errors":[{"message":%q,"domain":"youtube.quota","reason":%q}]}}`,
		status, message, message, reason)
}

// WriteError writes a YouTube error document.
func WriteError(w http.ResponseWriter, status int, reason, message string) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	w.Write([]byte(ErrorBody(status, reason, message)))
}

// NewHealthyResponse creates a standard 200 OK response with an ETag.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"ETag":         `"test-etag-123"`,
			"Content-Type": "application/json; charset=UTF-8",
		},
	}
}

// NewQuotaExceededResponse creates the 403 YouTube sends when the daily quota is spent.
func NewQuotaExceededResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusForbidden,
		Body:       ErrorBody(http.StatusForbidden, "quotaExceeded", "The request cannot be completed because you have exceeded your quota."),
		Headers:    map[string]string{"Content-Type": "application/json; charset=UTF-8"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       ErrorBody(http.StatusInternalServerError, "backendError", "Backend Error"),
		Headers:    map[string]string{"Content-Type": "application/json; charset=UTF-8"},
	}
}

// NewConditionalHandler creates a handler that responds with 304 for a matching If-None-Match.
func NewConditionalHandler(etag string, data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.Header().Set("ETag", etag)
		if r.Header.Get("If-None-Match") == etag {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(data))
	}
}
