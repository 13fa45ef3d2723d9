package normalize

import "fmt"

// Shape names one of the fixed response kinds the normalizer understands.
// The values follow the API method that produces the page.
type Shape string

const (
	// ShapeChannelInfo is a channels.list response for a single channel.
	ShapeChannelInfo Shape = "channels.list"

	// ShapeVideoStatistics is a videos.list response with snippet, statistics and contentDetails.
	ShapeVideoStatistics Shape = "videos.list"

	// ShapeCommentThreads is a commentThreads.list response.
	ShapeCommentThreads Shape = "commentThreads.list"

	// ShapeChannelSearch is a search.list response used to resolve a channel ID by name.
	ShapeChannelSearch Shape = "search.channelId"

	// ShapeVideoSearch is a search.list response used to list a channel's videos.
	ShapeVideoSearch Shape = "search.videoIds"
)

// Shapes lists every supported shape.
func Shapes() []Shape {
	return []Shape{
		ShapeChannelInfo,
		ShapeVideoStatistics,
		ShapeCommentThreads,
		ShapeChannelSearch,
		ShapeVideoSearch,
	}
}

// ParseShape validates a shape name.
func ParseShape(name string) (Shape, error) {
	for _, s := range Shapes() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedShape, name)
}
