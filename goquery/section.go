package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Section is a titled run of sibling nodes. Title is nil for content that
// appears before the first heading. Contents is never nil.
type Section struct {
	Title    *goquery.Selection
	Contents *goquery.Selection
}

// GroupSections partitions siblings into sections delimited by elements
// named heading. Order is preserved and a heading with nothing after it
// still yields a section with empty Contents.
func GroupSections(siblings *goquery.Selection, heading string) []Section {
	var sections []Section
	var title *goquery.Selection
	start := 0
	open := false

	for i, n := range siblings.Nodes {
		if n.Type == html.ElementNode && n.Data == heading {
			if open {
				sections = append(sections, Section{Title: title, Contents: siblings.Slice(start, i)})
			}
			title = siblings.Eq(i)
			start = i + 1
			open = true
			continue
		}
		if !open {
			title = nil
			start = i
			open = true
		}
	}
	if open {
		sections = append(sections, Section{Title: title, Contents: siblings.Slice(start, len(siblings.Nodes))})
	}

	return sections
}

// SectionKind classifies a section by its title.
type SectionKind int

// SectionKind constants.
const (
	SectionUnknown SectionKind = iota
	SectionUntitled
	SectionAbility
	SectionAncientTrait
	SectionPokePower
	SectionPokeBody
	SectionHeldItem
	SectionHeldBerry
	SectionAttack
	SectionVstarPower
	SectionRule
	SectionEvolution
	SectionIgnored
)

var sectionTitles = map[string]SectionKind{
	"特性":       SectionAbility,
	"古代能力":     SectionAncientTrait,
	"ポケパワー":    SectionPokePower,
	"ポケボディー":   SectionPokeBody,
	"どうぐ":      SectionHeldItem,
	"きのみ":      SectionHeldBerry,
	"ワザ":       SectionAttack,
	"GXワザ":     SectionAttack,
	"VSTARパワー": SectionVstarPower,
	"特別なルール":   SectionRule,
	"進化":       SectionEvolution,
}

// ClassifySection maps a trimmed section title to its kind. Titles that
// name a non-pokemon type line are ignored; anything else is unknown.
func ClassifySection(title string) SectionKind {
	if kind, ok := sectionTitles[title]; ok {
		return kind
	}
	if _, ok := nonPokemonTypeLines[title]; ok {
		return SectionIgnored
	}
	return SectionUnknown
}

func (k SectionKind) String() string {
	switch k {
	case SectionUntitled:
		return "untitled"
	case SectionAbility:
		return "ability"
	case SectionAncientTrait:
		return "ancient_trait"
	case SectionPokePower:
		return "poke_power"
	case SectionPokeBody:
		return "poke_body"
	case SectionHeldItem:
		return "held_item"
	case SectionHeldBerry:
		return "held_berry"
	case SectionAttack:
		return "attack"
	case SectionVstarPower:
		return "vstar_power"
	case SectionRule:
		return "rule"
	case SectionEvolution:
		return "evolution"
	case SectionIgnored:
		return "ignored"
	}
	return "unknown"
}
