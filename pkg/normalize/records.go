package normalize

// ChannelInfo is the record produced from a channels.list page.
type ChannelInfo struct {
	Title           string `json:"title"`
	ChannelID       string `json:"channel_id"`
	Description     string `json:"description"`
	SubscriberCount int64  `json:"subscriber_count"`
	VideoCount      int64  `json:"video_count"`
	ViewCount       int64  `json:"views_count"`
}

// VideoStatistics is the record produced per videos.list item.
type VideoStatistics struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	ViewCount    int64  `json:"view_count"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
	PublishTime  string `json:"publish_time"`
	IsShorts     bool   `json:"is_shorts"`
}

// Comment is the record produced per top-level comment thread.
type Comment struct {
	Author      string `json:"author"`
	Text        string `json:"text"`
	LikeCount   int64  `json:"like_count"`
	PublishTime string `json:"publish_time"`
}

// SearchVideo is the record produced per video hit of a search.list page.
type SearchVideo struct {
	VideoID       string `json:"video_id"`
	PublishedTime string `json:"published_time"`
}

// PlaylistVideo is the record produced per playlistItems.list item.
type PlaylistVideo struct {
	VideoID       string `json:"video_id"`
	PublishedTime string `json:"published_time"`
}

// Result holds the output of Normalize. Exactly one payload field is set,
// selected by Shape.
type Result struct {
	Shape Shape `json:"shape"`

	// Channel is nil when the channels.list page was empty.

	Channel      *ChannelInfo      `json:"channel,omitempty"`
	Videos       []VideoStatistics `json:"videos,omitempty"`
	Comments     []Comment         `json:"comments,omitempty"`
	SearchVideos []SearchVideo     `json:"search_videos,omitempty"`

	// ChannelID and Found are set for ShapeChannelSearch. Found is false
	// when the search returned nothing.
	ChannelID string `json:"channel_id,omitempty"`
	Found     bool   `json:"found,omitempty"`
}
