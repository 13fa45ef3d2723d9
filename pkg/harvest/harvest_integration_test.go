//go:build integration

package harvest

import (
	"context"
	"testing"

	"github.com/Sternrassler/yt-harvest/internal/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "start Redis container")

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	t.Cleanup(func() {
		redisClient.Close()
		container.Terminate(ctx)
	})

	return redisClient
}

func TestIntegration_RepeatHarvestRevalidates(t *testing.T) {
	redisClient := setupRedis(t)

	mock := testutil.NewMockYouTube()
	defer mock.Close()
	seedPlaylists(mock)

	h := newMockHarvester(t, mock, redisClient)
	ctx := context.Background()

	first, err := h.AllPlaylistVideos(ctx, "UC1")
	require.NoError(t, err)
	assert.Equal(t, 0, mock.GetConditionalCount())

	second, err := h.AllPlaylistVideos(ctx, "UC1")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 6, mock.GetConditionalCount(), "every page of the second run revalidates")
	assert.Equal(t, 12, mock.GetRequestCount())
}

func TestIntegration_CacheFailureDoesNotBreakHarvest(t *testing.T) {
	redisClient := setupRedis(t)

	mock := testutil.NewMockYouTube()
	defer mock.Close()
	seedPlaylists(mock)

	h := newMockHarvester(t, mock, redisClient)
	require.NoError(t, redisClient.Close())

	videos, err := h.AllPlaylistVideos(context.Background(), "UC1")

	require.NoError(t, err)
	assert.Len(t, videos, 4)
}
