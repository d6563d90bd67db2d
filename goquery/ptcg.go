package goquery

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/fwojciec/cardcrawl"
)

// Ensure PTCGSource implements cardcrawl.CardSource.
var _ cardcrawl.CardSource = (*PTCGSource)(nil)

// PTCGSource is the pokemon-card.com card detail site.
type PTCGSource struct {
	Parser  *CardParser
	BaseURL string
}

// NewPTCGSource creates a source that parses pages with parser.
func NewPTCGSource(parser *CardParser) *PTCGSource {
	return &PTCGSource{Parser: parser, BaseURL: DefaultBaseURL}
}

// Source returns cardcrawl.SourcePTCG.
func (s *PTCGSource) Source() cardcrawl.Source { return cardcrawl.SourcePTCG }

// CardURL returns the detail page URL for id.
func (s *PTCGSource) CardURL(id int) string {
	return fmt.Sprintf("%s/card-search/details.php/card/%d", s.BaseURL, id)
}

// ParseCard parses a detail page into a Record holding the card as JSON.
func (s *PTCGSource) ParseCard(id int, html string) (*cardcrawl.Record, error) {
	card, err := s.Parser.ParseCard(id, html)
	if err != nil {
		return nil, err
	}
	if err := card.Validate(); err != nil {
		return nil, err
	}

	data, err := MarshalCard(card)
	if err != nil {
		return nil, err
	}
	return &cardcrawl.Record{SourceID: id, Name: card.Name, Data: data}, nil
}

// MarshalCard encodes a card as indented JSON without HTML escaping, so
// symbols such as "<" and "&" in card text stay readable.
func MarshalCard(card *cardcrawl.Card) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(card); err != nil {
		return nil, cardcrawl.Errorf(cardcrawl.EINTERNAL, "failed to encode card %d: %v", card.JPID, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
