package pagination

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var pagesFetchedTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "youtube_pagination_pages_total",
	Help: "Total number of list pages fetched by the paginator",
})

// Fetcher is the capability the API client implements for single-page fetching.
type Fetcher interface {
	// FetchPage fetches the page of parentID's collection addressed by token.
	// An empty token requests the first page.
	FetchPage(ctx context.Context, parentID, token string) (Page, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, parentID, token string) (Page, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, parentID, token string) (Page, error) {
	return f(ctx, parentID, token)
}

// Walk fetches every page of parentID's collection and hands each one to visit,
// in order. It stops after the first page without a continuation token and
// returns the number of pages fetched.
func Walk(ctx context.Context, fetcher Fetcher, parentID string, visit func(Page) error) (int, error) {
	start := time.Now()
	token := ""
	pages := 0

	for {
		page, err := fetcher.FetchPage(ctx, parentID, token)
		if err != nil {
			return pages, fmt.Errorf("fetch page %d of %q: %w", pages+1, parentID, err)
		}
		pages++
		pagesFetchedTotal.Inc()

		log.Debug().
			Str("parent_id", parentID).
			Int("page", pages).
			Int("items", len(page.Items)).
			Bool("has_next", page.HasNext()).
			Msg("Fetched page")

		if err := visit(page); err != nil {
			return pages, fmt.Errorf("process page %d of %q: %w", pages, parentID, err)
		}

		if !page.HasNext() {
			break
		}
		token = page.NextPageToken
	}

	log.Info().
		Str("parent_id", parentID).
		Int("pages", pages).
		Dur("duration", time.Since(start)).
		Msg("Pagination complete")

	return pages, nil
}

// Collect returns the items of every page of parentID's collection.
func Collect(ctx context.Context, fetcher Fetcher, parentID string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	_, err := Walk(ctx, fetcher, parentID, func(page Page) error {
		items = append(items, page.Items...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// CollectAcross runs Collect for each parent in turn and concatenates the
// results into one flat slice, regardless of parent.
func CollectAcross(ctx context.Context, fetcher Fetcher, parentIDs []string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	for _, parentID := range parentIDs {
		items, err := Collect(ctx, fetcher, parentID)
		if err != nil {
			return nil, err
		}
		all = append(all, items...)
	}

	log.Info().
		Int("parents", len(parentIDs)).
		Int("items", len(all)).
		Msg("Collected items across parents")

	return all, nil
}
