package harvest

import (
	"context"
	"fmt"
	"testing"

	"github.com/Sternrassler/yt-harvest/internal/testutil"
	"github.com/Sternrassler/yt-harvest/pkg/client"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockHarvester wires a real client to mock. redisClient may be nil.
func newMockHarvester(t *testing.T, mock *testutil.MockYouTube, redisClient *redis.Client) *Harvester {
	t.Helper()

	cfg := client.DefaultConfig("flow-key")
	cfg.BaseURL = mock.URL()
	cfg.MaxResults = 2
	cfg.Redis = redisClient

	c, err := client.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return New(c, nil)
}

func seedPlaylists(mock *testutil.MockYouTube) {
	mock.SetPages("/playlists", "channelId", "UC1",
		[]string{`{"id":"PL1"}`, `{"id":"PL2"}`},
		[]string{`{"id":"PL3"}`},
	)
	mock.SetPages("/playlistItems", "playlistId", "PL1",
		[]string{playlistItem("a"), playlistItem("b")},
		[]string{playlistItem("c")},
	)
	mock.SetPages("/playlistItems", "playlistId", "PL2", []string{playlistItem("d")})
	// PL3 is empty
}

func TestFlow_AllPlaylistVideos(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	seedPlaylists(mock)

	videos, err := newMockHarvester(t, mock, nil).AllPlaylistVideos(context.Background(), "UC1")

	require.NoError(t, err)
	ids := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.VideoID
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, ids)
	// 2 playlist pages + 2 for PL1 + 1 for PL2 + 1 for PL3
	assert.Equal(t, 6, mock.GetRequestCount())
}

func TestFlow_Comments(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	var pages [][]string
	for p := 0; p < 3; p++ {
		pages = append(pages, []string{comment(fmt.Sprintf("u%d-0", p)), comment(fmt.Sprintf("u%d-1", p))})
	}
	mock.SetPages("/commentThreads", "videoId", "vid", pages...)

	comments, err := newMockHarvester(t, mock, nil).Comments(context.Background(), "vid")

	require.NoError(t, err)
	require.Len(t, comments, 6)
	assert.Equal(t, "u0-0", comments[0].Author)
	assert.Equal(t, "u2-1", comments[5].Author)
}

func TestFlow_QuotaErrorSurfaces(t *testing.T) {
	mock := testutil.NewMockYouTube()
	defer mock.Close()
	mock.SetResponse("/commentThreads", testutil.NewQuotaExceededResponse())

	_, err := newMockHarvester(t, mock, nil).Comments(context.Background(), "vid")

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, client.ErrorClassQuota, apiErr.Class)
	assert.Equal(t, 1, mock.GetRequestCount())
}
