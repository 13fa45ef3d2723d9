package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sternrassler/yt-harvest/pkg/pagination"
)

// Resource names as they appear in the request path.
const (
	ResourceChannels       = "channels"
	ResourceVideos         = "videos"
	ResourceCommentThreads = "commentThreads"
	ResourceSearch         = "search"
	ResourcePlaylists      = "playlists"
	ResourcePlaylistItems  = "playlistItems"
)

func (c *Client) pageParams(token string) url.Values {
	params := url.Values{}
	params.Set("maxResults", strconv.Itoa(c.config.MaxResults))
	if token != "" {
		params.Set("pageToken", token)
	}
	return params
}

// Channels fetches snippet and statistics for one channel.
func (c *Client) Channels(ctx context.Context, channelID string) (pagination.Page, error) {
	if channelID == "" {
		return pagination.Page{}, fmt.Errorf("channel id is required")
	}
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("id", channelID)
	return c.list(ctx, ResourceChannels, params)
}

// Videos fetches snippet, statistics, and contentDetails for up to
// MaxPageSize videos in one call.
func (c *Client) Videos(ctx context.Context, ids ...string) (pagination.Page, error) {
	if len(ids) == 0 || len(ids) > MaxPageSize {
		return pagination.Page{}, fmt.Errorf("videos: need 1 to %d ids, got %d", MaxPageSize, len(ids))
	}
	params := url.Values{}
	params.Set("part", "snippet,statistics,contentDetails")
	params.Set("id", strings.Join(ids, ","))
	params.Set("maxResults", strconv.Itoa(len(ids)))
	return c.list(ctx, ResourceVideos, params)
}

// CommentThreads fetches one page of top-level comments on a video.
func (c *Client) CommentThreads(ctx context.Context, videoID, token string) (pagination.Page, error) {
	params := c.pageParams(token)
	params.Set("part", "snippet")
	params.Set("videoId", videoID)
	params.Set("textFormat", "html")
	return c.list(ctx, ResourceCommentThreads, params)
}

// SearchChannels looks up channels by name. Only the best match is requested.
func (c *Client) SearchChannels(ctx context.Context, query string) (pagination.Page, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", query)
	params.Set("type", "channel")
	params.Set("maxResults", "1")
	return c.list(ctx, ResourceSearch, params)
}

// SearchVideos fetches one page of a channel's uploads, newest first.
// Search calls cost 100 quota units each.
func (c *Client) SearchVideos(ctx context.Context, channelID, token string) (pagination.Page, error) {
	params := c.pageParams(token)
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	params.Set("type", "video")
	params.Set("order", "date")
	return c.list(ctx, ResourceSearch, params)
}

// Playlists fetches one page of a channel's playlists.
func (c *Client) Playlists(ctx context.Context, channelID, token string) (pagination.Page, error) {
	params := c.pageParams(token)
	params.Set("part", "snippet")
	params.Set("channelId", channelID)
	return c.list(ctx, ResourcePlaylists, params)
}

// PlaylistItems fetches one page of a playlist's entries.
func (c *Client) PlaylistItems(ctx context.Context, playlistID, token string) (pagination.Page, error) {
	params := c.pageParams(token)
	params.Set("part", "snippet")
	params.Set("playlistId", playlistID)
	return c.list(ctx, ResourcePlaylistItems, params)
}

// PlaylistsFetcher pages through a channel's playlists.
func (c *Client) PlaylistsFetcher() pagination.Fetcher {
	return pagination.FetcherFunc(c.Playlists)
}

// PlaylistItemsFetcher pages through a playlist's entries.
func (c *Client) PlaylistItemsFetcher() pagination.Fetcher {
	return pagination.FetcherFunc(c.PlaylistItems)
}

// CommentThreadsFetcher pages through a video's comments.
func (c *Client) CommentThreadsFetcher() pagination.Fetcher {
	return pagination.FetcherFunc(c.CommentThreads)
}

// SearchVideosFetcher pages through a channel's search results.
func (c *Client) SearchVideosFetcher() pagination.Fetcher {
	return pagination.FetcherFunc(c.SearchVideos)
}
