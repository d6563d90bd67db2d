package cardcrawl

import (
	"context"
	"encoding/json"
	"time"
)

// CacheEntry is the stored outcome of crawling one card page.
// A nil Data records that the page had no card.
type CacheEntry struct {
	Source      Source          `json:"source"`
	SourceID    int             `json:"sourceId"`
	Data        json.RawMessage `json:"data"`
	ContentHash string          `json:"contentHash"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

// Validate returns an error if the entry contains invalid fields.
func (e *CacheEntry) Validate() error {
	if err := e.Source.Validate(); err != nil {
		return err
	}
	if e.SourceID <= 0 {
		return Errorf(EINVALID, "entry source ID must be positive")
	}
	if e.ExpiresAt.IsZero() {
		return Errorf(EINVALID, "entry expiry required")
	}
	return nil
}

// Expired reports whether the entry is stale at now.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// CardStore persists crawl outcomes keyed by (source, source ID).
type CardStore interface {
	// SaveEntry inserts or replaces the entry for (Source, SourceID).
	SaveEntry(ctx context.Context, entry *CacheEntry) error

	// FindEntry retrieves the entry for a card.
	// Returns ENOTFOUND if no entry exists.
	FindEntry(ctx context.Context, source Source, id int) (*CacheEntry, error)

	// FindUnexpiredIDs returns IDs in [start, end] whose entry is still
	// valid at now.
	FindUnexpiredIDs(ctx context.Context, source Source, start, end int, now time.Time) ([]int, error)
}

// CardExporter writes card records to a dataset outside the cache.
type CardExporter interface {
	// Exists reports whether the card has already been exported.
	Exists(source Source, id int) bool

	// Export writes the record.
	Export(ctx context.Context, source Source, rec *Record) error
}

// Run is one crawl invocation recorded in the run ledger.
type Run struct {
	ID         string    `json:"id"`
	Source     Source    `json:"source"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Saved      int       `json:"saved"`
	Empty      int       `json:"empty"`
	Failed     int       `json:"failed"`
	Skipped    int       `json:"skipped"`
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	Source *Source `json:"source"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RunService records crawl runs.
type RunService interface {
	// CreateRun assigns an ID and start time and stores the run.
	CreateRun(ctx context.Context, run *Run) error

	// FinishRun stores the final counts and finish time.
	// Returns ENOTFOUND if the run does not exist.
	FinishRun(ctx context.Context, run *Run) error

	// FindRuns returns runs, most recent first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}
