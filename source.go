package cardcrawl

import "encoding/json"

// Source names a card website. It keys cache entries and crawl runs.
type Source string

// Source constants.
const (
	SourcePTCG     Source = "ptcg"
	SourceGatherer Source = "gatherer"
)

// Validate returns an error if the source is not a known site.
func (s Source) Validate() error {
	switch s {
	case SourcePTCG, SourceGatherer:
		return nil
	}
	return Errorf(EINVALID, "unknown source %q", string(s))
}

// Record is a fully assembled card extracted from one page.
type Record struct {
	SourceID int
	Name     string
	Data     json.RawMessage
}

// CardSource describes one card website: where a card's page lives and how
// to turn the fetched HTML into a Record.
//
// ParseCard performs no I/O and is safe for concurrent use. It returns
// ENODATA when the page has no card, ELAYOUT or EICON when the page has a
// shape the parser does not model.
type CardSource interface {
	Source() Source
	CardURL(id int) string
	ParseCard(id int, html string) (*Record, error)
}

// PayloadLocator finds the card payload inside a decoded hydration tree.
// It reports false when no payload is reachable.
type PayloadLocator interface {
	Locate(tree Value) (Value, bool)
}
