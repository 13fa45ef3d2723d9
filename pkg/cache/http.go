package cache

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ResponseToEntry converts an HTTP response to an Entry.
// The response body is read and restored for the caller.
func ResponseToEntry(resp *http.Response) (*Entry, error) {
	if resp == nil {
		return nil, fmt.Errorf("response cannot be nil")
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	resp.Body.Close()

	resp.Body = io.NopCloser(bytes.NewReader(body))

	return &Entry{
		Data:       body,
		ETag:       resp.Header.Get("ETag"),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header.Clone(),
		StoredAt:   time.Now(),
	}, nil
}

// EntryToResponse rebuilds an HTTP response from a stored entry for req.
func EntryToResponse(entry *Entry, req *http.Request) *http.Response {
	header := entry.Headers.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set("X-Cache", "HIT")
	header.Set("Age", strconv.Itoa(int(entry.Age().Seconds())))

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", entry.StatusCode, http.StatusText(entry.StatusCode)),
		StatusCode:    entry.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Data)),
		ContentLength: int64(len(entry.Data)),
		Request:       req,
	}
}

// ShouldRevalidate reports whether a conditional request can be made for entry.
func ShouldRevalidate(entry *Entry) bool {
	return entry.Usable() && entry.ETag != ""
}

// AddConditionalHeaders sets If-None-Match from the entry's ETag.
func AddConditionalHeaders(req *http.Request, entry *Entry) {
	if req == nil || !ShouldRevalidate(entry) {
		return
	}
	req.Header.Set("If-None-Match", entry.ETag)
	ConditionalRequests.Inc()
}
