// Package normalize maps YouTube Data API list pages into flat records.
//
// Each page is normalized under an explicit Shape chosen by the caller; the
// normalizer never guesses the shape from the data. Field access follows
// fixed gjson paths per shape, and a missing required field fails the whole
// call.
package normalize

import (
	"fmt"
	"strconv"

	"github.com/Sternrassler/yt-harvest/pkg/pagination"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tidwall/gjson"
)

var normalizedRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "youtube_normalized_records_total",
	Help: "Total records produced by the normalizer by shape",
}, []string{"shape"})

// videoKind marks a search hit as a video (as opposed to a channel or playlist).
const videoKind = "youtube#video"

// Normalizer converts pages into records using injected time and duration transforms.
type Normalizer struct {
	times     TimeTransformer
	durations DurationClassifier
	handlers  map[Shape]func(pagination.Page) (Result, error)
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithTimeTransformer replaces the publish timestamp transform.
func WithTimeTransformer(t TimeTransformer) Option {
	return func(n *Normalizer) {
		n.times = t
	}
}

// WithDurationClassifier replaces the short-form classifier.
func WithDurationClassifier(c DurationClassifier) Option {
	return func(n *Normalizer) {
		n.durations = c
	}
}

// New creates a Normalizer. Without options it uses DefaultTimeFormat and a
// ShortsClassifier with DefaultShortsMaxLength.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		times:     DefaultTimeFormat(),
		durations: ShortsClassifier{MaxLength: DefaultShortsMaxLength},
	}
	for _, opt := range opts {
		opt(n)
	}

	n.handlers = map[Shape]func(pagination.Page) (Result, error){
		ShapeChannelInfo: func(p pagination.Page) (Result, error) {
			info, err := n.ChannelInfo(p)
			return Result{Shape: ShapeChannelInfo, Channel: info}, err
		},
		ShapeVideoStatistics: func(p pagination.Page) (Result, error) {
			videos, err := n.VideoStatistics(p)
			return Result{Shape: ShapeVideoStatistics, Videos: videos}, err
		},
		ShapeCommentThreads: func(p pagination.Page) (Result, error) {
			comments, err := n.CommentThreads(p)
			return Result{Shape: ShapeCommentThreads, Comments: comments}, err
		},
		ShapeChannelSearch: func(p pagination.Page) (Result, error) {
			id, found, err := n.ChannelSearch(p)
			return Result{Shape: ShapeChannelSearch, ChannelID: id, Found: found}, err
		},
		ShapeVideoSearch: func(p pagination.Page) (Result, error) {
			videos, err := n.VideoSearch(p)
			return Result{Shape: ShapeVideoSearch, SearchVideos: videos}, err
		},
	}

	return n
}

// Normalize dispatches page to the handler registered for shape.
// On error the Result is empty; no partial records are returned.
func (n *Normalizer) Normalize(shape Shape, page pagination.Page) (Result, error) {
	handler, ok := n.handlers[shape]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedShape, shape)
	}

	result, err := handler(page)
	if err != nil {
		return Result{}, err
	}
	return result, nil
}

// ChannelInfo converts the first item of a channels.list page.
// An empty page is not an error: the record is nil.
func (n *Normalizer) ChannelInfo(page pagination.Page) (*ChannelInfo, error) {
	if len(page.Items) == 0 {
		return nil, nil
	}

	it := item{shape: ShapeChannelInfo, index: 0, doc: gjson.ParseBytes(page.Items[0])}

	info := &ChannelInfo{}
	var err error
	if info.Title, err = it.str("snippet.title"); err != nil {
		return nil, err
	}
	if info.ChannelID, err = it.str("id"); err != nil {
		return nil, err
	}
	if info.Description, err = it.str("snippet.description"); err != nil {
		return nil, err
	}
	if info.SubscriberCount, err = it.count("statistics.subscriberCount"); err != nil {
		return nil, err
	}
	if info.VideoCount, err = it.count("statistics.videoCount"); err != nil {
		return nil, err
	}
	if info.ViewCount, err = it.count("statistics.viewCount"); err != nil {
		return nil, err
	}

	normalizedRecordsTotal.WithLabelValues(string(ShapeChannelInfo)).Inc()
	return info, nil
}

// VideoStatistics converts every item of a videos.list page. Absent counters
// default to zero.
func (n *Normalizer) VideoStatistics(page pagination.Page) ([]VideoStatistics, error) {
	videos := make([]VideoStatistics, 0, len(page.Items))

	for i, raw := range page.Items {
		it := item{shape: ShapeVideoStatistics, index: i, doc: gjson.ParseBytes(raw)}

		var v VideoStatistics
		var err error
		if v.VideoID, err = it.str("id"); err != nil {
			return nil, err
		}
		if v.Title, err = it.str("snippet.title"); err != nil {
			return nil, err
		}
		if v.ViewCount, err = it.countOrZero("statistics.viewCount"); err != nil {
			return nil, err
		}
		if v.LikeCount, err = it.countOrZero("statistics.likeCount"); err != nil {
			return nil, err
		}
		if v.CommentCount, err = it.countOrZero("statistics.commentCount"); err != nil {
			return nil, err
		}
		if v.PublishTime, err = it.timestamp("snippet.publishedAt", n.times); err != nil {
			return nil, err
		}

		d, err := it.str("contentDetails.duration")
		if err != nil {
			return nil, err
		}
		if v.IsShorts, err = n.durations.IsShort(d); err != nil {
			return nil, it.invalid("contentDetails.duration", err)
		}

		videos = append(videos, v)
	}

	normalizedRecordsTotal.WithLabelValues(string(ShapeVideoStatistics)).Add(float64(len(videos)))
	return videos, nil
}

// CommentThreads converts the top-level comment of every thread on the page.
// Comment text has HTML tags removed; the publish timestamp is kept as sent.
func (n *Normalizer) CommentThreads(page pagination.Page) ([]Comment, error) {
	comments := make([]Comment, 0, len(page.Items))

	for i, raw := range page.Items {
		it := item{shape: ShapeCommentThreads, index: i, doc: gjson.ParseBytes(raw)}
		const base = "snippet.topLevelComment.snippet."

		var c Comment
		var err error
		if c.Author, err = it.str(base + "authorDisplayName"); err != nil {
			return nil, err
		}
		text, err := it.str(base + "textDisplay")
		if err != nil {
			return nil, err
		}
		c.Text = StripTags(text)
		if c.LikeCount, err = it.count(base + "likeCount"); err != nil {
			return nil, err
		}
		if c.PublishTime, err = it.str(base + "publishedAt"); err != nil {
			return nil, err
		}

		comments = append(comments, c)
	}

	normalizedRecordsTotal.WithLabelValues(string(ShapeCommentThreads)).Add(float64(len(comments)))
	return comments, nil
}

// ChannelSearch returns the channel ID of the first search hit.
// An empty page is not an error: found is false.
func (n *Normalizer) ChannelSearch(page pagination.Page) (channelID string, found bool, err error) {
	if len(page.Items) == 0 {
		return "", false, nil
	}

	it := item{shape: ShapeChannelSearch, index: 0, doc: gjson.ParseBytes(page.Items[0])}
	channelID, err = it.str("id.channelId")
	if err != nil {
		return "", false, err
	}

	normalizedRecordsTotal.WithLabelValues(string(ShapeChannelSearch)).Inc()
	return channelID, true, nil
}

// VideoSearch converts the video hits of a search.list page, skipping
// channel and playlist hits.
func (n *Normalizer) VideoSearch(page pagination.Page) ([]SearchVideo, error) {
	videos := make([]SearchVideo, 0, len(page.Items))

	for i, raw := range page.Items {
		it := item{shape: ShapeVideoSearch, index: i, doc: gjson.ParseBytes(raw)}

		kind, err := it.str("id.kind")
		if err != nil {
			return nil, err
		}
		if kind != videoKind {
			continue
		}

		var v SearchVideo
		if v.VideoID, err = it.str("id.videoId"); err != nil {
			return nil, err
		}
		if v.PublishedTime, err = it.timestamp("snippet.publishedAt", n.times); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}

	normalizedRecordsTotal.WithLabelValues(string(ShapeVideoSearch)).Add(float64(len(videos)))
	return videos, nil
}

// item wraps one parsed resource with enough context to build FieldErrors.
type item struct {
	shape Shape
	index int
	doc   gjson.Result
}

func (it item) missing(path string) error {
	return &FieldError{Shape: it.shape, Index: it.index, Path: path, Err: ErrMissingField}
}

func (it item) invalid(path string, cause error) error {
	return &FieldError{Shape: it.shape, Index: it.index, Path: path, Err: fmt.Errorf("%w: %v", ErrInvalidField, cause)}
}

func (it item) str(path string) (string, error) {
	r := it.doc.Get(path)
	if !r.Exists() {
		return "", it.missing(path)
	}
	return r.String(), nil
}

// count reads a required counter. The API sends most counters as decimal
// strings and a few (likeCount on comments) as JSON numbers.
func (it item) count(path string) (int64, error) {
	r := it.doc.Get(path)
	if !r.Exists() {
		return 0, it.missing(path)
	}
	return it.parseCount(path, r)
}

func (it item) countOrZero(path string) (int64, error) {
	r := it.doc.Get(path)
	if !r.Exists() {
		return 0, nil
	}
	return it.parseCount(path, r)
}

func (it item) parseCount(path string, r gjson.Result) (int64, error) {
	if r.Type == gjson.Number {
		return r.Int(), nil
	}
	v, err := strconv.ParseInt(r.String(), 10, 64)
	if err != nil {
		return 0, it.invalid(path, err)
	}
	return v, nil
}

func (it item) timestamp(path string, t TimeTransformer) (string, error) {
	raw, err := it.str(path)
	if err != nil {
		return "", err
	}
	out, err := t.Reformat(raw)
	if err != nil {
		return "", it.invalid(path, err)
	}
	return out, nil
}
