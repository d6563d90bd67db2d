package cardcrawl

import "context"

// CardListPage is one page of a paginated card listing.
type CardListPage struct {
	Page    int
	MaxPage int
	Total   int
	IDs     []int
}

// CardLister pages through a site's card listing.
type CardLister interface {
	// ListCards returns the given 1-based page.
	ListCards(ctx context.Context, page int) (*CardListPage, error)
}
