package http

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/fwojciec/cardcrawl"
)

// DefaultCardListURL is the pokemon-card.com search API with every filter
// left open, so it lists the whole card database.
const DefaultCardListURL = "https://www.pokemon-card.com/card-search/resultAPI.php?keyword=&se_ta=&regulation_sidebar_form=all&pg=&illust=&sm_and_keyword=true"

// Ensure CardListService implements cardcrawl.CardLister at compile time.
var _ cardcrawl.CardLister = (*CardListService)(nil)

// CardListService pages through the card search API.
// Requests go through a cardcrawl.Fetcher so they share its timeout,
// logging and rate limiting.
type CardListService struct {
	fetcher cardcrawl.Fetcher

	// BaseURL is the search query; the page number is appended to it.
	BaseURL string
}

// NewCardListService creates a CardListService over fetcher.
func NewCardListService(fetcher cardcrawl.Fetcher) *CardListService {
	return &CardListService{
		fetcher: fetcher,
		BaseURL: DefaultCardListURL,
	}
}

type cardListResponse struct {
	ThisPage int `json:"thisPage"`
	MaxPage  int `json:"maxPage"`
	HitCnt   int `json:"hitCnt"`
	CardList []struct {
		CardID string `json:"cardID"`
	} `json:"cardList"`
}

// PageURL returns the API URL for a 1-based page.
func (s *CardListService) PageURL(page int) string {
	return fmt.Sprintf("%s&page=%d", s.BaseURL, page)
}

// ListCards fetches one page of the listing.
// A card ID that is not an integer is EINVALID.
func (s *CardListService) ListCards(ctx context.Context, page int) (*cardcrawl.CardListPage, error) {
	if page < 1 {
		return nil, cardcrawl.Errorf(cardcrawl.EINVALID, "page must be positive, got %d", page)
	}

	body, err := s.fetcher.Fetch(ctx, s.PageURL(page))
	if err != nil {
		return nil, err
	}

	var resp cardListResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("decode card list page %d: %w", page, err)
	}

	ids := make([]int, 0, len(resp.CardList))
	for _, c := range resp.CardList {
		id, err := strconv.Atoi(c.CardID)
		if err != nil {
			return nil, cardcrawl.Errorf(cardcrawl.EINVALID, "invalid card ID %q on page %d", c.CardID, page)
		}
		ids = append(ids, id)
	}

	thisPage := resp.ThisPage
	if thisPage == 0 {
		thisPage = page
	}

	return &cardcrawl.CardListPage{
		Page:    thisPage,
		MaxPage: resp.MaxPage,
		Total:   resp.HitCnt,
		IDs:     ids,
	}, nil
}
