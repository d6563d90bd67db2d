package crawl

import (
	"context"

	"github.com/fwojciec/cardcrawl"
)

// RangeOptions selects the IDs CrawlRange visits.
type RangeOptions struct {
	Start int
	End   int

	// IgnoreUnexpired refetches cards whose stored entry is still fresh.
	IgnoreUnexpired bool
}

// CrawlRange crawls every ID in [Start, End], skipping IDs with an
// unexpired store entry unless IgnoreUnexpired is set.
func (c *Crawler) CrawlRange(ctx context.Context, opts RangeOptions, progress ProgressFunc) (*Result, error) {
	if opts.Start < 1 {
		return nil, cardcrawl.Errorf(cardcrawl.EINVALID, "start ID must be positive")
	}
	if opts.End < opts.Start {
		return nil, cardcrawl.Errorf(cardcrawl.EINVALID, "max ID %d is below start ID %d", opts.End, opts.Start)
	}

	fresh := make(map[int]bool)
	if !opts.IgnoreUnexpired {
		ids, err := c.Store.FindUnexpiredIDs(ctx, c.Source.Source(), opts.Start, opts.End, c.now())
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			fresh[id] = true
		}
	}

	ids := make([]int, 0, opts.End-opts.Start+1-len(fresh))
	for id := opts.Start; id <= opts.End; id++ {
		if !fresh[id] {
			ids = append(ids, id)
		}
	}

	result, err := c.Crawl(ctx, ids, progress)
	if result != nil {
		result.Skipped = len(fresh)
	}
	return result, err
}
