package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cardcrawl"
	"golang.org/x/net/html"
)

// TeraText marks a pokemon that takes no attack damage while benched.
const TeraText = "このポケモンは、ベンチにいるかぎり、ワザのダメージを受けない。"

// traitMarkers maps trait-like section kinds to their text marker and tag.
// Abilities carry no tag; they are listed on the card instead.
var traitMarkers = map[SectionKind]struct {
	marker string
	tag    string
}{
	SectionAbility:      {marker: "特性"},
	SectionAncientTrait: {marker: "古代能力", tag: cardcrawl.TagAncientTrait},
	SectionPokePower:    {marker: "ポケパワー", tag: cardcrawl.TagPokePower},
	SectionPokeBody:     {marker: "ポケボディー", tag: cardcrawl.TagPokeBody},
	SectionHeldItem:     {marker: "どうぐ", tag: cardcrawl.TagHeldItem},
	SectionHeldBerry:    {marker: "きのみ", tag: cardcrawl.TagHeldBerry},
}

// cardBuilder assembles the pokemon-only part of a card from its sections.
// It lives for a single ParseDocument call.
type cardBuilder struct {
	parser *CardParser
	card   *cardcrawl.Card
	text   strings.Builder
}

func (b *cardBuilder) build(sections []Section) error {
	for _, s := range sections {
		if s.Title == nil {
			b.untitled(s.Contents)
			continue
		}

		title := strings.TrimSpace(s.Title.Text())
		kind := ClassifySection(title)

		var err error
		switch kind {
		case SectionAbility, SectionAncientTrait, SectionPokePower,
			SectionPokeBody, SectionHeldItem, SectionHeldBerry:
			err = b.trait(kind, s.Contents)
		case SectionAttack:
			err = b.attacks(s.Contents)
		case SectionVstarPower:
			err = b.vstarPower(s.Contents)
		case SectionRule:
			err = b.rule(s.Contents)
		case SectionEvolution:
			err = b.evolution(s.Contents)
		case SectionIgnored:
		default:
			err = b.layoutErrorf("unknown section %q", title)
		}
		if err != nil {
			return err
		}
	}

	b.card.Text = strings.TrimSpace(b.text.String())
	return nil
}

func (b *cardBuilder) layoutErrorf(format string, args ...any) error {
	return cardcrawl.Errorf(cardcrawl.ELAYOUT, format+" for card %d (%s)", append(args, b.card.JPID, b.card.Name)...)
}

// untitled handles content before the first heading, such as the tera
// notice printed above a tera pokemon's attacks.
func (b *cardBuilder) untitled(contents *goquery.Selection) {
	texts := make([]string, 0, contents.Length())
	tera := false
	contents.Each(func(_ int, s *goquery.Selection) {
		t := s.Text()
		if t == TeraText {
			tera = true
		}
		texts = append(texts, t)
	})
	if tera {
		b.card.Tags = cardcrawl.AddTags(b.card.Tags, cardcrawl.TagTera)
	}
	b.text.WriteString(strings.Join(texts, "\n"))
}

func (b *cardBuilder) trait(kind SectionKind, contents *goquery.Selection) error {
	name := strings.TrimSpace(contents.Filter("h4").First().Text())
	effect, err := b.paragraphs(contents)
	if err != nil {
		return err
	}
	effect = strings.TrimSpace(effect)

	m := traitMarkers[kind]
	if kind == SectionAbility {
		b.card.Abilities = append(b.card.Abilities, cardcrawl.Ability{Name: name, Effect: effect})
	}
	if m.tag != "" {
		b.card.Tags = cardcrawl.AddTags(b.card.Tags, m.tag)
	}
	b.text.WriteString("\n\n[" + m.marker + "]" + name + "\n" + effect)
	return nil
}

// paragraphs joins the rich text of every <p> in contents with newlines.
func (b *cardBuilder) paragraphs(contents *goquery.Selection) (string, error) {
	paras := contents.Filter("p")
	lines := make([]string, 0, paras.Length())
	for i := range paras.Nodes {
		t, err := b.parser.Text(paras.Eq(i))
		if err != nil {
			return "", err
		}
		lines = append(lines, t)
	}
	return strings.Join(lines, "\n"), nil
}

func (b *cardBuilder) attacks(contents *goquery.Selection) error {
	attacks, err := b.parser.ParseAttacks(contents)
	if err != nil {
		return b.wrapLayout(err)
	}
	for _, a := range attacks {
		b.text.WriteString("\n\n[ワザ]" + a.Name + "\n" + costLine(a.Cost, a.Damage) + "\n" + a.Effect)
	}
	b.card.Attacks = append(b.card.Attacks, attacks...)
	return nil
}

// ParseAttacks reads the attacks of one attack section. Each <h4> starts
// an attack and each following <p> adds a line to its effect.
func (p *CardParser) ParseAttacks(contents *goquery.Selection) ([]cardcrawl.Attack, error) {
	var attacks []cardcrawl.Attack
	var effects []string

	for i, n := range contents.Nodes {
		if n.Type != html.ElementNode {
			continue
		}
		switch n.Data {
		case "h4":
			a, err := p.AttackHeading(contents.Eq(i))
			if err != nil {
				return nil, err
			}
			attacks = append(attacks, a)
			effects = append(effects, "")
		case "p":
			if len(attacks) == 0 {
				return nil, cardcrawl.Errorf(cardcrawl.ELAYOUT, "attack effect before attack heading")
			}
			t, err := p.Text(contents.Eq(i))
			if err != nil {
				return nil, err
			}
			effects[len(effects)-1] += "\n" + t
		}
	}

	for i := range attacks {
		attacks[i].Effect = strings.TrimSpace(effects[i])
	}
	return attacks, nil
}

// AttackHeading reads cost, name and damage from an attack heading.
// Text is the name, icon spans add to the cost and the f_right span is
// the damage. Any other child is a layout error.
func (p *CardParser) AttackHeading(h4 *goquery.Selection) (cardcrawl.Attack, error) {
	var a cardcrawl.Attack
	var cost strings.Builder

	children := h4.Contents()
	for i, n := range children.Nodes {
		child := children.Eq(i)
		switch {
		case n.Type == html.TextNode:
			if name := strings.TrimSpace(n.Data); name != "" {
				a.Name = name
			}
		case n.Type == html.ElementNode && n.Data == "span":
			switch {
			case child.HasClass("icon"):
				e, err := Energy(child)
				if err != nil {
					return a, err
				}
				cost.WriteString(e)
			case child.HasClass("f_right"):
				a.Damage = strings.TrimSpace(child.Text())
			default:
				class, _ := child.Attr("class")
				return a, cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown span %q in attack", class)
			}
		default:
			return a, cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown %s child %q in attack", nodeTypeName(n.Type), n.Data)
		}
	}

	a.Cost = cost.String()
	return a, nil
}

func costLine(cost, damage string) string {
	if damage == "" {
		return cost
	}
	return cost + " " + damage
}

func (b *cardBuilder) vstarPower(contents *goquery.Selection) error {
	headings := contents.Filter("h4")
	if headings.Length() != 2 {
		return b.layoutErrorf("VSTAR power with %d headings", headings.Length())
	}

	effect, err := b.paragraphs(contents)
	if err != nil {
		return err
	}

	typeText := strings.TrimSpace(headings.Eq(0).Text())
	nameElem := headings.Eq(1)

	switch typeText {
	case "特性":
		power := &cardcrawl.VstarPower{
			Type:   cardcrawl.VstarAbility,
			Name:   strings.TrimSpace(nameElem.Text()),
			Effect: effect,
		}
		b.card.VstarPower = power
		b.text.WriteString("\n\n[VSTAR特性]" + power.Name + "\n" + effect)
	case "ワザ":
		a, err := b.parser.AttackHeading(nameElem)
		if err != nil {
			return b.wrapLayout(err)
		}
		power := &cardcrawl.VstarPower{
			Type:   cardcrawl.VstarAttack,
			Cost:   a.Cost,
			Name:   a.Name,
			Damage: a.Damage,
			Effect: effect,
		}
		b.card.VstarPower = power
		b.text.WriteString("\n\n[VSTARワザ]" + power.Name + "\n" + costLine(power.Cost, power.Damage) + "\n" + effect)
	default:
		return b.layoutErrorf("unknown VSTAR type %q", typeText)
	}

	b.card.Tags = cardcrawl.AddTags(b.card.Tags, cardcrawl.TagVstarPower)
	return nil
}

// rule matches each non-empty rule paragraph against the rule-tag
// vocabulary. The last such paragraph becomes the card's rule text.
func (b *cardBuilder) rule(contents *goquery.Selection) error {
	paras := contents.Filter("p")
	for i := range paras.Nodes {
		text, err := b.parser.Text(paras.Eq(i))
		if err != nil {
			return err
		}
		if text == "" {
			continue
		}
		b.card.Rule = text

		matched := cardcrawl.MatchRuleTags(text)
		if len(matched) == 0 {
			return b.layoutErrorf("unknown rule %q", text)
		}
		b.card.Tags = cardcrawl.SuppressTags(cardcrawl.AddTags(b.card.Tags, matched...))
	}
	return nil
}

func (b *cardBuilder) evolution(contents *goquery.Selection) error {
	if b.card.Stage == StageBasic {
		return nil
	}
	from, ok := FindEvolveFrom(contents)
	if !ok {
		return b.layoutErrorf("unknown evolve from")
	}
	b.card.EvolveFrom = from
	return nil
}

// FindEvolveFrom walks the evolution lines in document order. After the
// line marked ev_on it returns the text of the first later line that has
// exactly one link beside an arrow_off marker.
func FindEvolveFrom(contents *goquery.Selection) (string, bool) {
	lines := contents.Filter("div.evolution")

	for i := range lines.Nodes {
		line := lines.Eq(i)
		if !line.HasClass("ev_on") && line.Find(".ev_on").Length() == 0 {
			continue
		}
		for j := i + 1; j < lines.Length(); j++ {
			links := lines.Eq(j).Find("a")
			if links.Length() != 1 {
				continue
			}
			if links.Siblings().Filter("div.arrow_off").Length() > 0 {
				return strings.TrimSpace(links.Text()), true
			}
		}
	}
	return "", false
}

// wrapLayout adds the card identity to layout errors raised below the builder.
func (b *cardBuilder) wrapLayout(err error) error {
	if cardcrawl.ErrorCode(err) != cardcrawl.ELAYOUT {
		return err
	}
	return b.layoutErrorf("%s", cardcrawl.ErrorMessage(err))
}
