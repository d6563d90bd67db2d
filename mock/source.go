package mock

import (
	"context"

	"github.com/fwojciec/cardcrawl"
)

var _ cardcrawl.CardSource = (*CardSource)(nil)

// CardSource is a mock implementation of cardcrawl.CardSource.
type CardSource struct {
	SourceFn    func() cardcrawl.Source
	CardURLFn   func(id int) string
	ParseCardFn func(id int, html string) (*cardcrawl.Record, error)
}

func (s *CardSource) Source() cardcrawl.Source {
	return s.SourceFn()
}

func (s *CardSource) CardURL(id int) string {
	return s.CardURLFn(id)
}

func (s *CardSource) ParseCard(id int, html string) (*cardcrawl.Record, error) {
	return s.ParseCardFn(id, html)
}

var _ cardcrawl.CardLister = (*CardLister)(nil)

// CardLister is a mock implementation of cardcrawl.CardLister.
type CardLister struct {
	ListCardsFn func(ctx context.Context, page int) (*cardcrawl.CardListPage, error)
}

func (l *CardLister) ListCards(ctx context.Context, page int) (*cardcrawl.CardListPage, error) {
	return l.ListCardsFn(ctx, page)
}

var _ cardcrawl.PayloadLocator = (*PayloadLocator)(nil)

// PayloadLocator is a mock implementation of cardcrawl.PayloadLocator.
type PayloadLocator struct {
	LocateFn func(tree cardcrawl.Value) (cardcrawl.Value, bool)
}

func (l *PayloadLocator) Locate(tree cardcrawl.Value) (cardcrawl.Value, bool) {
	return l.LocateFn(tree)
}
