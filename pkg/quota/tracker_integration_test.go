//go:build integration

package quota

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis starts a Redis container and returns a client
func setupRedis(t *testing.T) *redis.Client {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	endpoint, err := redisContainer.Endpoint(ctx, "")
	if err != nil {
		t.Fatalf("Failed to get Redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		t.Fatalf("Failed to connect to Redis: %v", err)
	}

	t.Cleanup(func() {
		client.Close()
		redisContainer.Terminate(ctx)
	})

	return client
}

func TestTracker_Integration_DayRollover(t *testing.T) {
	redisClient := setupRedis(t)
	tracker := NewTracker(redisClient, "integration-key", 1000, zerolog.Nop())
	ctx := context.Background()

	// 23:30 Pacific on March 1st is already March 2nd in UTC
	clock := time.Date(2024, 3, 2, 7, 30, 0, 0, time.UTC)
	tracker.now = func() time.Time { return clock }

	for i := 0; i < 3; i++ {
		if _, err := tracker.Record(ctx, "videos"); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}
	usage, err := tracker.Record(ctx, "search")
	if err != nil {
		t.Fatalf("Record(search) error = %v", err)
	}
	if usage.Day != "2024-03-01" || usage.Used != 103 {
		t.Errorf("usage = %+v, want 103 units on 2024-03-01", usage)
	}

	// One hour later the Pacific day has turned over
	clock = clock.Add(time.Hour)
	usage, err = tracker.Usage(ctx)
	if err != nil {
		t.Fatalf("Usage() error = %v", err)
	}
	if usage.Day != "2024-03-02" || usage.Used != 0 {
		t.Errorf("usage after reset = %+v, want 0 units on 2024-03-02", usage)
	}

	ttl, err := redisClient.TTL(ctx, tracker.redisKey("2024-03-01")).Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= 0 || ttl > keyTTL {
		t.Errorf("counter TTL = %v, want within (0, %v]", ttl, keyTTL)
	}
}

func TestTracker_Integration_SharedAcrossTrackers(t *testing.T) {
	redisClient := setupRedis(t)
	ctx := context.Background()

	a := NewTracker(redisClient, "shared-key", 0, zerolog.Nop())
	b := NewTracker(redisClient, "shared-key", 0, zerolog.Nop())

	if _, err := a.Record(ctx, "playlists"); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	usage, err := b.Record(ctx, "playlistItems")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if usage.Used != 2 {
		t.Errorf("Used = %d, want 2: trackers for one key share a counter", usage.Used)
	}
}
