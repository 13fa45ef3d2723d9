package pagination

import (
	"encoding/json"
	"fmt"
)

// Page is one decoded response of a YouTube list endpoint.
type Page struct {
	// Items are the raw resources of the page, in server order.
	Items []json.RawMessage

	// NextPageToken continues the collection. Empty means no more pages.
	NextPageToken string

	// TotalResults is pageInfo.totalResults (approximate, informational only).
	TotalResults int

	// ETag is the response etag field.
	ETag string
}

// HasNext reports whether the server announced another page.
func (p Page) HasNext() bool {
	return p.NextPageToken != ""
}

type rawPage struct {
	ETag          string            `json:"etag"`
	NextPageToken string            `json:"nextPageToken"`
	Items         []json.RawMessage `json:"items"`
	PageInfo      struct {
		TotalResults int `json:"totalResults"`
	} `json:"pageInfo"`
}

// DecodePage decodes a list response body into a Page.
// A body without an items array yields a page with no items.
func DecodePage(body []byte) (Page, error) {
	var raw rawPage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Page{}, fmt.Errorf("decode page: %w", err)
	}

	return Page{
		Items:         raw.Items,
		NextPageToken: raw.NextPageToken,
		TotalResults:  raw.PageInfo.TotalResults,
		ETag:          raw.ETag,
	}, nil
}
