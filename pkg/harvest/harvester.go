// Package harvest runs the collection flows: it pages through YouTube list
// resources and normalizes every page into records.
package harvest

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/yt-harvest/pkg/logging"
	"github.com/Sternrassler/yt-harvest/pkg/normalize"
	"github.com/Sternrassler/yt-harvest/pkg/pagination"
	"github.com/rs/zerolog"
)

// ErrChannelNotFound is returned when channels.list knows no such channel.
var ErrChannelNotFound = errors.New("channel not found")

// videosPerCall is the most ids videos.list accepts at once.
const videosPerCall = 50

// API is the part of the YouTube client the harvester needs.
// *client.Client implements it.
type API interface {
	Channels(ctx context.Context, channelID string) (pagination.Page, error)
	Videos(ctx context.Context, ids ...string) (pagination.Page, error)
	SearchChannels(ctx context.Context, query string) (pagination.Page, error)

	CommentThreadsFetcher() pagination.Fetcher
	SearchVideosFetcher() pagination.Fetcher
	PlaylistsFetcher() pagination.Fetcher
	PlaylistItemsFetcher() pagination.Fetcher
}

// Harvester combines an API with a Normalizer.
type Harvester struct {
	api    API
	norm   *normalize.Normalizer
	logger zerolog.Logger
}

// New creates a Harvester. A nil norm uses normalize.New() defaults.
func New(api API, norm *normalize.Normalizer) *Harvester {
	if norm == nil {
		norm = normalize.New()
	}
	return &Harvester{
		api:    api,
		norm:   norm,
		logger: logging.NewLogger("harvester"),
	}
}

// ChannelInfo fetches and normalizes one channel.
func (h *Harvester) ChannelInfo(ctx context.Context, channelID string) (*normalize.ChannelInfo, error) {
	page, err := h.api.Channels(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("fetch channel %q: %w", channelID, err)
	}
	res, err := h.norm.Normalize(normalize.ShapeChannelInfo, page)
	if err != nil {
		return nil, fmt.Errorf("channel %q: %w", channelID, err)
	}
	if res.Channel == nil {
		return nil, fmt.Errorf("%w: %q", ErrChannelNotFound, channelID)
	}
	return res.Channel, nil
}

// ChannelIDByName resolves a channel name through search. found is false
// when the search has no hit.
func (h *Harvester) ChannelIDByName(ctx context.Context, name string) (channelID string, found bool, err error) {
	page, err := h.api.SearchChannels(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("search channel %q: %w", name, err)
	}
	res, err := h.norm.Normalize(normalize.ShapeChannelSearch, page)
	if err != nil {
		return "", false, fmt.Errorf("search channel %q: %w", name, err)
	}
	return res.ChannelID, res.Found, nil
}

// VideoStatistics fetches statistics for ids, videosPerCall at a time.
// Records follow the order the API returns them in.
func (h *Harvester) VideoStatistics(ctx context.Context, ids []string) ([]normalize.VideoStatistics, error) {
	var videos []normalize.VideoStatistics
	for start := 0; start < len(ids); start += videosPerCall {
		end := min(start+videosPerCall, len(ids))

		page, err := h.api.Videos(ctx, ids[start:end]...)
		if err != nil {
			return nil, fmt.Errorf("fetch videos %d-%d: %w", start, end-1, err)
		}
		res, err := h.norm.Normalize(normalize.ShapeVideoStatistics, page)
		if err != nil {
			return nil, fmt.Errorf("videos %d-%d: %w", start, end-1, err)
		}
		videos = append(videos, res.Videos...)
	}

	h.logger.Info().Int("requested", len(ids)).Int("records", len(videos)).Msg("Harvested video statistics")
	return videos, nil
}

// Comments returns every top-level comment on a video across all pages.
func (h *Harvester) Comments(ctx context.Context, videoID string) ([]normalize.Comment, error) {
	comments := []normalize.Comment{}
	_, err := pagination.Walk(ctx, h.api.CommentThreadsFetcher(), videoID, func(page pagination.Page) error {
		res, err := h.norm.Normalize(normalize.ShapeCommentThreads, page)
		if err != nil {
			return err
		}
		comments = append(comments, res.Comments...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("video_id", videoID).Int("records", len(comments)).Msg("Harvested comments")
	return comments, nil
}

// ChannelVideos returns every video a channel search lists, newest first.
func (h *Harvester) ChannelVideos(ctx context.Context, channelID string) ([]normalize.SearchVideo, error) {
	videos := []normalize.SearchVideo{}
	_, err := pagination.Walk(ctx, h.api.SearchVideosFetcher(), channelID, func(page pagination.Page) error {
		res, err := h.norm.Normalize(normalize.ShapeVideoSearch, page)
		if err != nil {
			return err
		}
		videos = append(videos, res.SearchVideos...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.logger.Info().Str("channel_id", channelID).Int("records", len(videos)).Msg("Harvested channel videos")
	return videos, nil
}

// PlaylistIDs returns the id of every playlist on a channel.
func (h *Harvester) PlaylistIDs(ctx context.Context, channelID string) ([]string, error) {
	items, err := pagination.Collect(ctx, h.api.PlaylistsFetcher(), channelID)
	if err != nil {
		return nil, err
	}
	return normalize.PlaylistIDs(items)
}

// PlaylistVideos returns the entries of every playlist in playlistIDs, in
// playlist order. A video in several playlists appears once per playlist.
func (h *Harvester) PlaylistVideos(ctx context.Context, playlistIDs []string) ([]normalize.PlaylistVideo, error) {
	items, err := pagination.CollectAcross(ctx, h.api.PlaylistItemsFetcher(), playlistIDs)
	if err != nil {
		return nil, err
	}
	return normalize.PlaylistVideos(items)
}

// AllPlaylistVideos lists a channel's playlists and returns every entry of
// each of them.
func (h *Harvester) AllPlaylistVideos(ctx context.Context, channelID string) ([]normalize.PlaylistVideo, error) {
	ids, err := h.PlaylistIDs(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list playlists of %q: %w", channelID, err)
	}

	videos, err := h.PlaylistVideos(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list playlist items of %q: %w", channelID, err)
	}

	h.logger.Info().
		Str("channel_id", channelID).
		Int("playlists", len(ids)).
		Int("records", len(videos)).
		Msg("Harvested playlist videos")
	return videos, nil
}
