package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Sternrassler/yt-harvest/internal/config"
	"github.com/Sternrassler/yt-harvest/internal/testutil"
	"github.com/Sternrassler/yt-harvest/pkg/client"
	"github.com/Sternrassler/yt-harvest/pkg/harvest"
	"github.com/Sternrassler/yt-harvest/pkg/normalize"
	"github.com/redis/go-redis/v9"
)

func commentItem(author string) string {
	return `{"snippet":{"topLevelComment":{"snippet":{"authorDisplayName":"` + author +
		`","textDisplay":"<b>hello</b>","likeCount":2,"publishedAt":"2024-01-01T00:00:00Z"}}}}`
}

// newTestHarvester wires a harvester to mock without Redis.
func newTestHarvester(t *testing.T, mock *testutil.MockYouTube) *harvest.Harvester {
	t.Helper()

	cfg := client.DefaultConfig("cmd-key")
	cfg.BaseURL = mock.URL()
	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close() })

	return harvest.New(c, normalize.New())
}

func TestHealthEndpoint(t *testing.T) {
	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	healthHandler(w, req)

	resp := w.Result()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if string(body) != "OK" {
		t.Errorf("Expected body 'OK', got %s", string(body))
	}
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready_without_redis", func(t *testing.T) {
		w := httptest.NewRecorder()
		readyHandler(nil)(w, httptest.NewRequest("GET", "/ready", nil))

		if w.Code != http.StatusOK {
			t.Errorf("Expected status 200, got %d", w.Code)
		}
	})

	t.Run("not_ready_redis_down", func(t *testing.T) {
		redisClient := redis.NewClient(&redis.Options{
			Addr:        "127.0.0.1:1",
			DialTimeout: 200 * time.Millisecond,
			MaxRetries:  -1,
		})
		defer redisClient.Close()

		w := httptest.NewRecorder()
		readyHandler(redisClient)(w, httptest.NewRequest("GET", "/ready", nil))

		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("Expected status 503, got %d", w.Code)
		}
	})
}

func TestCommentsEndpoint(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	mock.SetPages("/commentThreads", "videoId", "vid1",
		[]string{commentItem("a"), commentItem("b")},
		[]string{commentItem("c")},
	)

	mux := newMux(newTestHarvester(t, mock), nil)

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/comments/vid1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}

	var comments []normalize.Comment
	if err := json.Unmarshal(w.Body.Bytes(), &comments); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if len(comments) != 3 {
		t.Fatalf("Expected 3 comments, got %d", len(comments))
	}
	if comments[0].Author != "a" || comments[0].Text != "hello" || comments[0].LikeCount != 2 {
		t.Errorf("Unexpected first comment: %+v", comments[0])
	}
}

func TestCommentsEndpoint_NoComments(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	mock.SetPages("/commentThreads", "videoId", "quiet", []string{})

	w := httptest.NewRecorder()
	newMux(newTestHarvester(t, mock), nil).ServeHTTP(w, httptest.NewRequest("GET", "/comments/quiet", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("Expected empty JSON array, got %s", w.Body.String())
	}
}

func TestCommentsEndpoint_UpstreamFailure(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	mock.SetResponse("/commentThreads", testutil.NewQuotaExceededResponse())

	w := httptest.NewRecorder()
	newMux(newTestHarvester(t, mock), nil).ServeHTTP(w, httptest.NewRequest("GET", "/comments/vid1", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected status 502, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	mock.SetPages("/commentThreads", "videoId", "vid1", []string{commentItem("a")})

	mux := newMux(newTestHarvester(t, mock), nil)
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/comments/vid1", nil))

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, name := range []string{
		"youtube_requests_total",
		"youtube_request_duration_seconds",
		"youtube_pagination_pages_total",
		"youtube_normalized_records_total",
	} {
		if !strings.Contains(body, name) {
			t.Errorf("Expected metrics output to contain %s", name)
		}
	}
}

func TestRunCommand(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	mock.SetPages("/commentThreads", "videoId", "vid1", []string{commentItem("a")})
	mock.SetResponse("/search", testutil.NewHealthyResponse(testutil.PageBody("")))
	h := newTestHarvester(t, mock)
	ctx := context.Background()

	t.Run("comments", func(t *testing.T) {
		var out bytes.Buffer
		if err := runCommand(ctx, h, []string{"comments", "vid1"}, &out); err != nil {
			t.Fatalf("runCommand() error = %v", err)
		}
		if !strings.Contains(out.String(), `"author": "a"`) {
			t.Errorf("Unexpected output: %s", out.String())
		}
	})

	t.Run("channel-id not found", func(t *testing.T) {
		var out bytes.Buffer
		if err := runCommand(ctx, h, []string{"channel-id", "nobody"}, &out); err != nil {
			t.Fatalf("runCommand() error = %v", err)
		}
		if !strings.Contains(out.String(), `"found": false`) {
			t.Errorf("Unexpected output: %s", out.String())
		}
	})

	errorCases := [][]string{
		{"unknown"},
		{"comments"},
		{"channel", "a", "b"},
		{"videos"},
	}
	for _, args := range errorCases {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := runCommand(ctx, h, args, io.Discard); err == nil {
				t.Errorf("runCommand(%v) should fail", args)
			}
		})
	}
}

func TestRun_ServeStopsOnCancel(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()

	cfg := config.Config{
		APIKey:      "k",
		BaseURL:     mock.URL(),
		MaxResults:  50,
		HTTPTimeout: time.Second,
		Port:        "0",
		LogLevel:    "info",
		Location:    time.UTC,
		ShortsMax:   time.Minute,
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- run(ctx, cfg, []string{"serve"}, io.Discard) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run(serve) error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
