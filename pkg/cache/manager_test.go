package cache

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// setupTestRedis connects to a local Redis and skips the test when none is running.
// Integration tests use testcontainers-go instead.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func TestNewManager(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer client.Close()

	manager := NewManager(client, 0)
	if manager.redis != client {
		t.Error("Manager redis client not set correctly")
	}
	if manager.Retention() != DefaultRetention {
		t.Errorf("Retention() = %v, want %v", manager.Retention(), DefaultRetention)
	}

	if got := NewManager(client, time.Hour).Retention(); got != time.Hour {
		t.Errorf("Retention() = %v, want 1h", got)
	}
}

func TestNewManager_Panic(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("NewManager should panic with nil redis client")
		}
	}()
	NewManager(nil, 0)
}

func TestManager_SetAndGet(t *testing.T) {
	manager := NewManager(setupTestRedis(t), time.Minute)
	ctx := context.Background()

	key := Key{Resource: "videos", Query: url.Values{"id": {"v1"}}}
	entry := &Entry{
		Data:       []byte(`{"items": []}`),
		ETag:       `"abc123"`,
		StatusCode: 200,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		StoredAt:   time.Now(),
	}

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data mismatch: got %s, want %s", got.Data, entry.Data)
	}
	if got.ETag != entry.ETag {
		t.Errorf("ETag mismatch: got %s, want %s", got.ETag, entry.ETag)
	}
}

func TestManager_Get_CacheMiss(t *testing.T) {
	manager := NewManager(setupTestRedis(t), time.Minute)

	_, err := manager.Get(context.Background(), Key{Resource: "nothing"})
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager(setupTestRedis(t), time.Minute)
	ctx := context.Background()
	key := Key{Resource: "channels"}

	if err := manager.Set(ctx, key, &Entry{Data: []byte("x"), StatusCode: 200}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := manager.Get(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after Delete, got %v", err)
	}
}

func TestManager_Touch(t *testing.T) {
	client := setupTestRedis(t)
	manager := NewManager(client, 10*time.Minute)
	ctx := context.Background()
	key := Key{Resource: "channels"}

	if err := manager.Touch(ctx, key); !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Touch on missing key = %v, want ErrCacheMiss", err)
	}

	if err := manager.Set(ctx, key, &Entry{Data: []byte("x"), StatusCode: 200}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := client.Expire(ctx, key.String(), time.Minute).Err(); err != nil {
		t.Fatalf("Expire failed: %v", err)
	}

	if err := manager.Touch(ctx, key); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	ttl, err := client.TTL(ctx, key.String()).Result()
	if err != nil {
		t.Fatalf("TTL failed: %v", err)
	}
	if ttl < 9*time.Minute {
		t.Errorf("TTL after Touch = %v, want about 10m", ttl)
	}
}

func TestManager_Set_NilEntry(t *testing.T) {
	manager := NewManager(setupTestRedis(t), time.Minute)

	if err := manager.Set(context.Background(), Key{Resource: "x"}, nil); err == nil {
		t.Error("Set with nil entry should return error")
	}
}
