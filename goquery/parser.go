// Package goquery implements the DOM side of card extraction on top of
// github.com/PuerkitoBio/goquery: rich-text flattening, section grouping,
// and the structural normalizer for pokemon-card.com card detail pages.
package goquery

import (
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cardcrawl"
	"golang.org/x/net/html"
)

// DefaultBaseURL is the origin that relative image paths are resolved against.
const DefaultBaseURL = "https://www.pokemon-card.com"

// Literal tokens substituted for inline symbol markers.
const (
	PrismToken = "{PRISM}"
	MegaToken  = "{MEGA}"
)

var iconClassRe = regexp.MustCompile(`icon-(\w+)`)

// CardParser turns card detail pages into cardcrawl.Card records.
// It holds no per-call state and is safe for concurrent use.
type CardParser struct {
	logger  *slog.Logger
	baseURL *url.URL
}

// Option configures a CardParser.
type Option func(*CardParser)

// WithLogger sets the logger used for unexpected-markup warnings.
// Defaults to a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(p *CardParser) {
		p.logger = logger
	}
}

// WithBaseURL sets the origin used to absolutize image URLs.
// Defaults to DefaultBaseURL.
func WithBaseURL(u *url.URL) Option {
	return func(p *CardParser) {
		p.baseURL = u
	}
}

// NewCardParser creates a new CardParser.
func NewCardParser(opts ...Option) *CardParser {
	base, _ := url.Parse(DefaultBaseURL)
	p := &CardParser{
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseURL: base,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Text flattens the children of sel into a single string. Energy icons
// become "{X}" with X the energy character, the prism star and mega
// markers become PrismToken and MegaToken, <br> becomes a newline, and
// other elements contribute their plain text. The result is trimmed.
func (p *CardParser) Text(sel *goquery.Selection) (string, error) {
	var sb strings.Builder
	var err error

	sel.Contents().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		n := child.Nodes[0]
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
		case html.ElementNode:
			switch {
			case child.HasClass("pcg-prismstar"):
				sb.WriteString(PrismToken)
			case child.HasClass("pcg-megamark"):
				sb.WriteString(MegaToken)
			case child.HasClass("icon"):
				var energy string
				energy, err = Energy(child)
				if err != nil {
					return false
				}
				sb.WriteString("{" + energy + "}")
			case n.Data == "br":
				sb.WriteString("\n")
			default:
				sb.WriteString(child.Text())
			}
		default:
			p.logger.Warn("unexpected node in card text", "type", nodeTypeName(n.Type))
		}
		return true
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(sb.String()), nil
}

// Energy decodes the energy character of an icon element from its
// "icon-<name>" class.
func Energy(icon *goquery.Selection) (string, error) {
	class, _ := icon.Attr("class")
	m := iconClassRe.FindStringSubmatch(class)
	if m == nil {
		return "", cardcrawl.Errorf(cardcrawl.EICON, "icon without energy class %q", class)
	}
	return cardcrawl.DecodeEnergy(m[1])
}

// energies decodes every icon in sel and joins the characters with sep.
func energies(sel *goquery.Selection, sep string) (string, error) {
	chars := make([]string, 0, sel.Length())
	for i := range sel.Nodes {
		c, err := Energy(sel.Eq(i))
		if err != nil {
			return "", err
		}
		chars = append(chars, c)
	}
	return strings.Join(chars, sep), nil
}

// absURL resolves a possibly relative image path against the base URL.
func (p *CardParser) absURL(src string) string {
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return p.baseURL.ResolveReference(ref).String()
}

func nodeTypeName(t html.NodeType) string {
	switch t {
	case html.ErrorNode:
		return "error"
	case html.TextNode:
		return "text"
	case html.DocumentNode:
		return "document"
	case html.ElementNode:
		return "element"
	case html.CommentNode:
		return "comment"
	case html.DoctypeNode:
		return "doctype"
	case html.RawNode:
		return "raw"
	}
	return "unknown"
}
