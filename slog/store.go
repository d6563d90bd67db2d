package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/cardcrawl"
)

// Ensure LoggingCardStore implements cardcrawl.CardStore.
var _ cardcrawl.CardStore = (*LoggingCardStore)(nil)

// LoggingCardStore wraps a CardStore with debug logging.
type LoggingCardStore struct {
	next   cardcrawl.CardStore
	logger *slog.Logger
}

// NewLoggingCardStore creates a new LoggingCardStore.
func NewLoggingCardStore(next cardcrawl.CardStore, logger *slog.Logger) *LoggingCardStore {
	return &LoggingCardStore{next: next, logger: logger}
}

// SaveEntry delegates to the wrapped store and logs the write.
func (s *LoggingCardStore) SaveEntry(ctx context.Context, entry *cardcrawl.CacheEntry) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("save entry",
			"source", string(entry.Source),
			"id", entry.SourceID,
			"empty", entry.Data == nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.SaveEntry(ctx, entry)
}

// FindEntry delegates to the wrapped store.
func (s *LoggingCardStore) FindEntry(ctx context.Context, source cardcrawl.Source, id int) (*cardcrawl.CacheEntry, error) {
	return s.next.FindEntry(ctx, source, id)
}

// FindUnexpiredIDs delegates to the wrapped store and logs how many IDs
// were still fresh.
func (s *LoggingCardStore) FindUnexpiredIDs(ctx context.Context, source cardcrawl.Source, start, end int, now time.Time) (ids []int, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find unexpired",
			"source", string(source),
			"start", start,
			"end", end,
			"count", len(ids),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindUnexpiredIDs(ctx, source, start, end, now)
}
