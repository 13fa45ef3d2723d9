package normalize

import (
	"fmt"
	"regexp"
	"time"

	"github.com/sosodev/duration"
)

// DefaultTimeLayout is the layout publish timestamps are rewritten to.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// DefaultShortsMaxLength is the longest duration still counted as a short.
const DefaultShortsMaxLength = 60 * time.Second

// TimeTransformer rewrites an API timestamp into the output convention.
type TimeTransformer interface {
	Reformat(iso8601 string) (string, error)
}

// DurationClassifier decides from an ISO-8601 duration whether a video is short-form.
type DurationClassifier interface {
	IsShort(iso8601Duration string) (bool, error)
}

// TimeFormat parses RFC 3339 timestamps and formats them in Location with Layout.
type TimeFormat struct {
	Layout   string
	Location *time.Location
}

// DefaultTimeFormat returns the UTC "2006-01-02 15:04:05" transform.
func DefaultTimeFormat() TimeFormat {
	return TimeFormat{Layout: DefaultTimeLayout, Location: time.UTC}
}

// Reformat implements TimeTransformer.
func (f TimeFormat) Reformat(iso8601 string) (string, error) {
	t, err := time.Parse(time.RFC3339, iso8601)
	if err != nil {
		return "", fmt.Errorf("parse timestamp %q: %w", iso8601, err)
	}

	layout := f.Layout
	if layout == "" {
		layout = DefaultTimeLayout
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}

	return t.In(loc).Format(layout), nil
}

// ShortsClassifier counts a video as short when its duration is positive and
// at most MaxLength.
type ShortsClassifier struct {
	MaxLength time.Duration
}

// IsShort implements DurationClassifier.
func (c ShortsClassifier) IsShort(iso8601Duration string) (bool, error) {
	d, err := duration.Parse(iso8601Duration)
	if err != nil {
		return false, fmt.Errorf("parse duration %q: %w", iso8601Duration, err)
	}

	maxLength := c.MaxLength
	if maxLength <= 0 {
		maxLength = DefaultShortsMaxLength
	}

	length := d.ToTimeDuration()
	return length > 0 && length <= maxLength, nil
}

var tagPattern = regexp.MustCompile(`<.*?>`)

// StripTags removes every <...> span from s in a single non-recursive pass.
func StripTags(s string) string {
	return tagPattern.ReplaceAllString(s, "")
}
