package nextjs

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cardcrawl"
)

// DefaultGathererURL is the card detail endpoint keyed by multiverse ID.
const DefaultGathererURL = "https://gatherer.wizards.com/Pages/Card/Details.aspx?multiverseid=%d&printed=true"

// Ensure GathererSource implements cardcrawl.CardSource.
var _ cardcrawl.CardSource = (*GathererSource)(nil)

// GathererSource is the Gatherer card database. Its pages carry the card
// already in final shape inside the hydration stream, so the payload is
// kept verbatim.
type GathererSource struct {
	// Locator finds the payload in the decoded tree. Defaults to Locator{}.
	Locator cardcrawl.PayloadLocator

	// URLFormat is a printf pattern taking the multiverse ID.
	URLFormat string

	logger *slog.Logger
}

// Option configures a GathererSource.
type Option func(*GathererSource)

// WithLogger sets the logger used for decode warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(s *GathererSource) {
		s.logger = logger
	}
}

// WithLocator replaces the payload locator.
func WithLocator(l cardcrawl.PayloadLocator) Option {
	return func(s *GathererSource) {
		s.Locator = l
	}
}

// NewGathererSource creates a new GathererSource.
func NewGathererSource(opts ...Option) *GathererSource {
	s := &GathererSource{
		Locator:   Locator{},
		URLFormat: DefaultGathererURL,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Source returns cardcrawl.SourceGatherer.
func (s *GathererSource) Source() cardcrawl.Source { return cardcrawl.SourceGatherer }

// CardURL returns the detail page URL for a multiverse ID.
func (s *GathererSource) CardURL(id int) string {
	return fmt.Sprintf(s.URLFormat, id)
}

// ParseCard extracts the card payload from a detail page. Pages without a
// hydration script, with an undecodable one, or without a reachable card
// all return ENODATA.
func (s *GathererSource) ParseCard(id int, html string) (*cardcrawl.Record, error) {
	script, ok, err := HydrationScript(html)
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, cardcrawl.Errorf(cardcrawl.ENODATA, "no hydration script for %d", id)
	}

	tree, err := Unwrap(script)
	if err != nil {
		s.logger.Warn("failed to decode hydration data", "id", id, "error", cardcrawl.ErrorMessage(err))
		return nil, cardcrawl.Errorf(cardcrawl.ENODATA, "undecodable hydration data for %d", id)
	}

	card, ok := s.Locator.Locate(tree)
	if !ok {
		s.logger.Warn("card data not found in hydration", "id", id)
		return nil, cardcrawl.Errorf(cardcrawl.ENODATA, "card data not found for %d", id)
	}

	data, err := card.MarshalJSON()
	if err != nil {
		return nil, cardcrawl.Errorf(cardcrawl.EINTERNAL, "encode card %d: %v", id, err)
	}

	name, _ := card.Get("instanceName")
	nameStr, _ := name.Str()

	return &cardcrawl.Record{SourceID: id, Name: nameStr, Data: data}, nil
}

// HydrationScript returns the text of the first script that pushes into
// the hydration stream and mentions a card instance.
func HydrationScript(html string) (string, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false, cardcrawl.Errorf(cardcrawl.EINVALID, "failed to parse HTML: %v", err)
	}

	var script string
	found := false
	doc.Find("script").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := sel.Text()
		if strings.Contains(text, Marker) && strings.Contains(text, "instanceName") {
			script = text
			found = true
			return false
		}
		return true
	})
	return script, found, nil
}
