// Package crawl orchestrates card crawls: it fetches detail pages
// concurrently, hands them to a cardcrawl.CardSource, and records each
// page's outcome in the card store.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/cardcrawl"
	"golang.org/x/sync/errgroup"
)

// Default crawl settings.
const (
	DefaultConcurrency = 5
	DefaultExpiry      = 30 * 24 * time.Hour
	DefaultEmptyExpiry = 7 * 24 * time.Hour
)

// Crawler fetches and parses card pages for one source.
type Crawler struct {
	Source   cardcrawl.CardSource
	Fetcher  cardcrawl.Fetcher
	Store    cardcrawl.CardStore
	Exporter cardcrawl.CardExporter
	Limiter  cardcrawl.DomainLimiter

	Concurrency int
	RetryDelays []time.Duration

	// Expiry is how long a parsed card stays fresh. EmptyExpiry applies
	// to pages that had no card.
	Expiry      time.Duration
	EmptyExpiry time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// Logger receives fetch retry warnings. Nil disables them.
	Logger *slog.Logger
}

// Result holds the outcome of a crawl.
type Result struct {
	Saved   int
	Empty   int
	Failed  int
	Skipped int
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	ID        int
	Name      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressEmpty
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// crawlResult holds the outcome of processing a single card page.
type crawlResult struct {
	id     int
	record *cardcrawl.Record
	err    error
}

// Crawl fetches and parses every ID and stores each outcome. A page that
// fails does not stop the others; it is counted and reported through
// progress. Results are stored as they arrive, so a canceled crawl keeps
// everything completed before cancellation.
func (c *Crawler) Crawl(ctx context.Context, ids []int, progress ProgressFunc) (*Result, error) {
	var result Result
	total := len(ids)

	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	resultCh := make(chan crawlResult, concurrency)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for _, id := range ids {
			if gctx.Err() != nil {
				break
			}
			g.Go(func() error {
				resultCh <- c.processID(gctx, id)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	var completed atomic.Int64
	for r := range resultCh {
		n := int(completed.Add(1))
		event := ProgressEvent{Completed: n, Total: total, ID: r.id}

		err := r.err
		if err == nil || cardcrawl.ErrorCode(err) == cardcrawl.ENODATA {
			err = c.store(ctx, r)
		}

		switch {
		case err != nil:
			result.Failed++
			event.Type = ProgressFailed
			event.Error = err
		case r.record == nil:
			result.Empty++
			event.Type = ProgressEmpty
		default:
			result.Saved++
			event.Type = ProgressCompleted
			event.Name = r.record.Name
		}

		if progress != nil {
			progress(event)
		}
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: int(completed.Load()), Total: total})
	}

	return &result, ctx.Err()
}

// processID fetches and parses a single card page.
func (c *Crawler) processID(ctx context.Context, id int) crawlResult {
	result := crawlResult{id: id}
	pageURL := c.Source.CardURL(id)

	if c.Limiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			result.err = cardcrawl.Errorf(cardcrawl.EINVALID, "invalid card URL %q", pageURL)
			return result
		}
		if err := c.Limiter.Wait(ctx, u.Host); err != nil {
			result.err = err
			return result
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	var logf LogFunc
	if c.Logger != nil {
		logf = func(format string, args ...any) {
			c.Logger.Warn(fmt.Sprintf(format, args...), "id", id)
		}
	}
	html, err := FetchWithRetryDelays(ctx, pageURL, c.Fetcher.Fetch, logf, delays)
	if err != nil {
		result.err = err
		return result
	}

	result.record, result.err = c.Source.ParseCard(id, html)
	return result
}

// store writes a parsed record, or an empty entry for a page with no
// card, to the card store and the exporter.
func (c *Crawler) store(ctx context.Context, r crawlResult) error {
	now := c.now()
	entry := &cardcrawl.CacheEntry{
		Source:    c.Source.Source(),
		SourceID:  r.id,
		CreatedAt: now,
	}

	if r.record == nil {
		entry.ExpiresAt = now.Add(orDefault(c.EmptyExpiry, DefaultEmptyExpiry))
	} else {
		entry.Data = r.record.Data
		entry.ContentHash = ComputeHash(string(r.record.Data))
		entry.ExpiresAt = now.Add(orDefault(c.Expiry, DefaultExpiry))
	}

	if err := c.Store.SaveEntry(ctx, entry); err != nil {
		return err
	}

	if r.record != nil && c.Exporter != nil {
		if err := c.Exporter.Export(ctx, c.Source.Source(), r.record); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crawler) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
