package mock

import (
	"context"
	"time"

	"github.com/fwojciec/cardcrawl"
)

var _ cardcrawl.CardStore = (*CardStore)(nil)

// CardStore is a mock implementation of cardcrawl.CardStore.
type CardStore struct {
	SaveEntryFn        func(ctx context.Context, entry *cardcrawl.CacheEntry) error
	FindEntryFn        func(ctx context.Context, source cardcrawl.Source, id int) (*cardcrawl.CacheEntry, error)
	FindUnexpiredIDsFn func(ctx context.Context, source cardcrawl.Source, start, end int, now time.Time) ([]int, error)
}

func (s *CardStore) SaveEntry(ctx context.Context, entry *cardcrawl.CacheEntry) error {
	return s.SaveEntryFn(ctx, entry)
}

func (s *CardStore) FindEntry(ctx context.Context, source cardcrawl.Source, id int) (*cardcrawl.CacheEntry, error) {
	return s.FindEntryFn(ctx, source, id)
}

func (s *CardStore) FindUnexpiredIDs(ctx context.Context, source cardcrawl.Source, start, end int, now time.Time) ([]int, error) {
	return s.FindUnexpiredIDsFn(ctx, source, start, end, now)
}

var _ cardcrawl.CardExporter = (*CardExporter)(nil)

// CardExporter is a mock implementation of cardcrawl.CardExporter.
type CardExporter struct {
	ExistsFn func(source cardcrawl.Source, id int) bool
	ExportFn func(ctx context.Context, source cardcrawl.Source, rec *cardcrawl.Record) error
}

func (e *CardExporter) Exists(source cardcrawl.Source, id int) bool {
	return e.ExistsFn(source, id)
}

func (e *CardExporter) Export(ctx context.Context, source cardcrawl.Source, rec *cardcrawl.Record) error {
	return e.ExportFn(ctx, source, rec)
}

var _ cardcrawl.RunService = (*RunService)(nil)

// RunService is a mock implementation of cardcrawl.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *cardcrawl.Run) error
	FinishRunFn func(ctx context.Context, run *cardcrawl.Run) error
	FindRunsFn  func(ctx context.Context, filter cardcrawl.RunFilter) ([]*cardcrawl.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *cardcrawl.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FinishRun(ctx context.Context, run *cardcrawl.Run) error {
	return s.FinishRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter cardcrawl.RunFilter) ([]*cardcrawl.Run, error) {
	return s.FindRunsFn(ctx, filter)
}
