package crawl

import (
	"context"

	"github.com/fwojciec/cardcrawl"
)

// Frontier sizing for listing crawls.
const (
	// frontierExpectedIDs is the expected number of listed cards for Bloom filter sizing.
	frontierExpectedIDs = 50000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.001
)

// ListingOptions controls CrawlListing.
type ListingOptions struct {
	// IgnoreUnexpired refetches cards that are already exported or fresh
	// in the store.
	IgnoreUnexpired bool

	// MaxPages stops paging early when positive.
	MaxPages int
}

// ListingEvent reports one listing page as it is read.
type ListingEvent struct {
	Page    int
	MaxPage int
	Listed  int
	Total   int
}

// CollectListing pages through lister and returns the IDs to crawl along
// with the number skipped. IDs repeated across pages are visited once.
func (c *Crawler) CollectListing(ctx context.Context, lister cardcrawl.CardLister, opts ListingOptions, onPage func(ListingEvent)) ([]int, int, error) {
	frontier := NewFrontier(frontierExpectedIDs, frontierFalsePositiveRate)
	skipped := 0
	source := c.Source.Source()

	for page := 1; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, skipped, err
		}

		listing, err := lister.ListCards(ctx, page)
		if err != nil {
			return nil, skipped, err
		}
		if onPage != nil {
			onPage(ListingEvent{Page: listing.Page, MaxPage: listing.MaxPage, Listed: len(listing.IDs), Total: listing.Total})
		}

		for _, id := range listing.IDs {
			if frontier.Seen(id) {
				continue
			}
			if !opts.IgnoreUnexpired {
				fresh, err := c.fresh(ctx, source, id)
				if err != nil {
					return nil, skipped, err
				}
				if fresh {
					frontier.Mark(id)
					skipped++
					continue
				}
			}
			frontier.Push(id)
		}

		if page >= listing.MaxPage || (opts.MaxPages > 0 && page >= opts.MaxPages) {
			break
		}
	}

	return frontier.Drain(), skipped, nil
}

// CrawlListing crawls every card the lister reports.
func (c *Crawler) CrawlListing(ctx context.Context, lister cardcrawl.CardLister, opts ListingOptions, onPage func(ListingEvent), progress ProgressFunc) (*Result, error) {
	ids, skipped, err := c.CollectListing(ctx, lister, opts, onPage)
	if err != nil {
		return nil, err
	}

	result, err := c.Crawl(ctx, ids, progress)
	if result != nil {
		result.Skipped = skipped
	}
	return result, err
}

// fresh reports whether a card needs no refetch: it is already exported,
// or its store entry has not expired.
func (c *Crawler) fresh(ctx context.Context, source cardcrawl.Source, id int) (bool, error) {
	if c.Exporter != nil && c.Exporter.Exists(source, id) {
		return true, nil
	}
	entry, err := c.Store.FindEntry(ctx, source, id)
	if cardcrawl.ErrorCode(err) == cardcrawl.ENOTFOUND {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return !entry.Expired(c.now()), nil
}
