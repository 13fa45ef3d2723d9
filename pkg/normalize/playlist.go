package normalize

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Labels used in FieldErrors from the playlist extractors. They are not
// dispatchable shapes.
const (
	playlistsLabel     Shape = "playlists.list"
	playlistItemsLabel Shape = "playlistItems.list"
)

// PlaylistIDs returns the id of every playlists.list item.
func PlaylistIDs(items []json.RawMessage) ([]string, error) {
	ids := make([]string, 0, len(items))
	for i, raw := range items {
		it := item{shape: playlistsLabel, index: i, doc: gjson.ParseBytes(raw)}
		id, err := it.str("id")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PlaylistVideos returns the video ID and raw publish timestamp of every
// playlistItems.list item.
func PlaylistVideos(items []json.RawMessage) ([]PlaylistVideo, error) {
	videos := make([]PlaylistVideo, 0, len(items))
	for i, raw := range items {
		it := item{shape: playlistItemsLabel, index: i, doc: gjson.ParseBytes(raw)}

		var v PlaylistVideo
		var err error
		if v.VideoID, err = it.str("snippet.resourceId.videoId"); err != nil {
			return nil, err
		}
		if v.PublishedTime, err = it.str("snippet.publishedAt"); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, nil
}
