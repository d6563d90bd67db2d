package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/cardcrawl"
	"github.com/fwojciec/cardcrawl/crawl"
	"github.com/fwojciec/cardcrawl/fs"
)

// nameWidth caps card names in progress lines.
const nameWidth = 40

// Run executes the ptcg command.
func (c *PtcgCmd) Run(deps *Dependencies) error {
	src := deps.Sources[cardcrawl.SourcePTCG]

	var exporter cardcrawl.CardExporter
	if c.Export != "" {
		exporter = fs.NewCardWriter(c.Export)
	}
	crawler := deps.crawler(src, c.Concurrency, exporter)

	return recordRun(deps, cardcrawl.SourcePTCG, func() (*crawl.Result, error) {
		if c.ID > 0 {
			return crawler.Crawl(deps.Ctx, []int{c.ID}, progressPrinter(deps))
		}

		opts := crawl.ListingOptions{IgnoreUnexpired: c.IgnoreUnexpired, MaxPages: c.MaxPages}
		onPage := func(e crawl.ListingEvent) {
			fmt.Fprintf(deps.Stdout, "  Page %d/%d: %d cards of %d\n", e.Page, e.MaxPage, e.Listed, e.Total)
		}
		return crawler.CrawlListing(deps.Ctx, deps.Lister, opts, onPage, progressPrinter(deps))
	})
}

// Run executes the gatherer command.
func (c *GathererCmd) Run(deps *Dependencies) error {
	crawler := deps.crawler(deps.Sources[cardcrawl.SourceGatherer], c.Concurrency, nil)

	return recordRun(deps, cardcrawl.SourceGatherer, func() (*crawl.Result, error) {
		opts := crawl.RangeOptions{Start: c.Start, End: c.MaxID, IgnoreUnexpired: c.IgnoreUnexpired}
		return crawler.CrawlRange(deps.Ctx, opts, progressPrinter(deps))
	})
}

// recordRun wraps a crawl in a run ledger entry. The run is finished with
// whatever counts the crawl produced, even when it was interrupted.
func recordRun(deps *Dependencies, source cardcrawl.Source, fn func() (*crawl.Result, error)) error {
	run := &cardcrawl.Run{Source: source}
	if err := deps.Runs.CreateRun(deps.Ctx, run); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", cardcrawl.ErrorMessage(err))
		return err
	}

	result, err := fn()
	if result != nil {
		run.Saved, run.Empty, run.Failed, run.Skipped = result.Saved, result.Empty, result.Failed, result.Skipped
	}

	// The crawl context may be canceled by now; the ledger write must still land.
	if ferr := deps.Runs.FinishRun(context.WithoutCancel(deps.Ctx), run); ferr != nil && err == nil {
		err = ferr
	}

	if result != nil {
		fmt.Fprintf(deps.Stdout, "Run %s: %s\n", run.ID, crawl.FormatResult(result))
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error crawling: %v\n", err)
		return err
	}
	return nil
}

func progressPrinter(deps *Dependencies) crawl.ProgressFunc {
	return func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Crawling %d cards\n", event.Total)
		case crawl.ProgressCompleted:
			fmt.Fprintf(deps.Stdout, "  [%d/%d] %d %s\n", event.Completed, event.Total, event.ID, crawl.TruncateName(event.Name, nameWidth))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %d: %v\n", event.ID, event.Error)
		case crawl.ProgressEmpty, crawl.ProgressFinished:
			// Counted in the run summary.
		}
	}
}
