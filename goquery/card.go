package goquery

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/cardcrawl"
)

// StageBasic is the stage label of an unevolved pokemon.
const StageBasic = "たね"

// pokemonTypeLines are first-heading titles that mark a pokemon card.
var pokemonTypeLines = map[string]bool{
	"特性":     true,
	"ワザ":     true,
	"進化":     true,
	"古代能力":   true,
	"GXワザ":   true,
	"ポケパワー":  true,
	"ポケボディー": true,
	"どうぐ":    true,
	"きのみ":    true,
}

var nonPokemonTypeLines = map[string]cardcrawl.CardType{
	"基本エネルギー":  {Main: cardcrawl.MainEnergy, Sub: cardcrawl.SubBasic},
	"特殊エネルギー":  {Main: cardcrawl.MainEnergy, Sub: cardcrawl.SubSpecial},
	"サポート":     {Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubSupporter},
	"グッズ":      {Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubItem},
	"ポケモンのどうぐ": {Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubItem},
	"スタジアム":    {Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubStadium},
	"ワザマシン":    {Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubTechnicalMachine},
}

// collectorNumberRe matches "066 / 108" and "SV-P / 123" style numbers.
var collectorNumberRe = regexp.MustCompile(`(\d+|\w+)\s*/\s*(\w+-?\w+|\d+)`)

var leadingDigitsRe = regexp.MustCompile(`^\d+`)

// ParseCard parses a card detail page.
func (p *CardParser) ParseCard(id int, rawHTML string) (*cardcrawl.Card, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, cardcrawl.Errorf(cardcrawl.EINVALID, "failed to parse HTML: %v", err)
	}
	return p.ParseDocument(id, doc)
}

// ParseDocument builds a card from a parsed detail page. It returns
// ENODATA for pages without a card heading and ELAYOUT for markup it does
// not model; no partial card is returned with an error.
func (p *CardParser) ParseDocument(id int, doc *goquery.Document) (*cardcrawl.Card, error) {
	heading := doc.Find(".Heading1")
	if heading.Length() == 0 {
		return nil, cardcrawl.Errorf(cardcrawl.ENODATA, "no card on page %d", id)
	}

	name, err := p.Text(heading)
	if err != nil {
		return nil, err
	}

	card := &cardcrawl.Card{
		Lang:     cardcrawl.LangJA,
		Name:     name,
		Category: cardcrawl.CategoryNormal,
		Layout:   cardcrawl.LayoutNormal,
		Tags:     []string{},
		Artist:   []string{},
		JPID:     id,
	}

	if src, ok := doc.Find(".fit").First().Attr("src"); ok {
		card.ImageURL = p.absURL(src)
	}

	typeHeading := doc.Find("h2").First()
	typeLine := strings.TrimSpace(typeHeading.Text())
	if pokemonTypeLines[typeLine] {
		card.Type = cardcrawl.CardType{Main: cardcrawl.MainPokemon}
	} else if t, ok := nonPokemonTypeLines[typeLine]; ok {
		card.Type = t
	} else {
		return nil, cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown typeline %q for card %d (%s)", typeLine, id, name)
	}

	p.parsePrint(doc, card)

	if card.Type.Main != cardcrawl.MainPokemon {
		text, err := p.trainerText(typeHeading, typeLine)
		if err != nil {
			return nil, err
		}
		card.Text = text
		return card, nil
	}

	if err := p.parsePokemonStats(doc, card); err != nil {
		return nil, err
	}

	topInfo := doc.Find(".RightBox-inner .TopInfo").First()
	body := topInfo.NextAll()

	b := &cardBuilder{parser: p, card: card}
	if err := b.build(GroupSections(body, "h2")); err != nil {
		return nil, err
	}

	if err := p.parseStatsTable(body.Find("td"), card); err != nil {
		return nil, err
	}

	return card, nil
}

// parsePrint fills the print-level fields: set, number, rarity, artists.
func (p *CardParser) parsePrint(doc *goquery.Document, card *cardcrawl.Card) {
	if icon := doc.Find("img.img-regulation").First(); icon.Length() > 0 {
		alt, _ := icon.Attr("alt")
		card.Set = strings.TrimSpace(alt)
		if src, ok := icon.Attr("src"); ok {
			card.SetImageURL = p.absURL(src)
		}
	}

	if subtext := doc.Find("div.subtext").Text(); subtext != "" {
		if m := collectorNumberRe.FindStringSubmatch(subtext); m != nil {
			card.Number = m[1]
			card.SetTotal = m[2]
		} else {
			card.Number = strings.TrimSpace(subtext)
		}
	}

	if img := doc.Find(`img[width="24"]`).First(); img.Length() > 0 {
		src, _ := img.Attr("src")
		card.Rarity = rarityFromSrc(src)
		card.RarityImageURL = p.absURL(src)
	}

	doc.Find(".author a").Each(func(_ int, a *goquery.Selection) {
		card.Artist = append(card.Artist, strings.TrimSpace(a.Text()))
	})
}

// rarityFromSrc extracts "rare_rr" from ".../ic_rare_rr.gif".
func rarityFromSrc(src string) string {
	stem, _, _ := strings.Cut(src, ".")
	_, rarity, ok := strings.Cut(stem, "ic_")
	if !ok {
		return ""
	}
	return rarity
}

// trainerText joins the paragraphs beside the type heading, dropping the
// boilerplate paragraph that restates the card type.
func (p *CardParser) trainerText(typeHeading *goquery.Selection, typeLine string) (string, error) {
	var paras []string
	paragraphs := typeHeading.Siblings().Filter("p")
	for i := range paragraphs.Nodes {
		para, err := p.Text(paragraphs.Eq(i))
		if err != nil {
			return "", err
		}
		if strings.HasPrefix(para, typeLine+"は") || strings.HasPrefix(para, "グッズは") {
			continue
		}
		paras = append(paras, para)
	}
	return strings.TrimSpace(strings.Join(paras, "\n")), nil
}

// parsePokemonStats fills stage, hp, level, types and the pokedex block.
func (p *CardParser) parsePokemonStats(doc *goquery.Document, card *cardcrawl.Card) error {
	if stage := doc.Find("span.type"); stage.Length() > 0 {
		card.Stage = strings.Replace(strings.TrimSpace(stage.Text()), " ", " ", 1)
	}

	if hp := doc.Find("span.hp-num"); hp.Length() > 0 {
		v, err := leadingInt(hp.Text())
		if err != nil {
			return cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown hp %q for card %d (%s)", hp.Text(), card.JPID, card.Name)
		}
		card.HP = &v
	}

	if level := doc.Find("span.level-num"); level.Length() > 0 {
		v, err := leadingInt(level.Text())
		if err != nil {
			return cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown level %q for card %d (%s)", level.Text(), card.JPID, card.Name)
		}
		card.Level = &v
	}

	if icons := doc.Find("div.td-r").ChildrenFiltered("span.icon"); icons.Length() > 0 {
		types, err := energies(icons, "")
		if err != nil {
			return err
		}
		card.Types = types
	}

	return p.parsePokedex(doc.Find("div.card").First(), card)
}

func (p *CardParser) parsePokedex(block *goquery.Selection, card *cardcrawl.Card) error {
	if block.Length() == 0 {
		return nil
	}

	var dex *cardcrawl.Pokedex

	if h4 := block.Find("h4").First(); h4.Length() > 0 {
		parts := strings.Split(strings.TrimSpace(h4.Text()), "　")
		if len(parts) != 2 {
			return cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown dexline %q for card %d (%s)", h4.Text(), card.JPID, card.Name)
		}
		dex = &cardcrawl.Pokedex{Category: parts[1]}
		if _, num, ok := strings.Cut(parts[0], "."); ok {
			if n, err := leadingInt(num); err == nil {
				dex.Number = n
			}
		}
	}

	paras := block.Find("p")
	switch paras.Length() {
	case 2:
		if dex == nil {
			dex = &cardcrawl.Pokedex{}
		}
		dex.Height, dex.Weight = heightWeight(paras.Eq(0).Text(), true)
		card.FlavorText = strings.TrimSpace(paras.Eq(1).Text())
	case 1:
		text := paras.Text()
		if strings.Contains(text, "重さ") {
			if dex == nil {
				dex = &cardcrawl.Pokedex{}
			}
			dex.Height, dex.Weight = heightWeight(text, false)
		} else {
			card.FlavorText = strings.TrimSpace(text)
		}
	default:
		return cardcrawl.Errorf(cardcrawl.ELAYOUT, "unknown pokedex p length %d for card %d (%s)", paras.Length(), card.JPID, card.Name)
	}

	card.Pokedex = dex
	return nil
}

var ideographicSpaces = regexp.MustCompile("　+")

// heightWeight splits "高さ：1.7 m　重さ：90.5 kg" into its two values.
func heightWeight(line string, collapse bool) (height, weight string) {
	var parts []string
	if collapse {
		parts = ideographicSpaces.Split(line, -1)
	} else {
		parts = strings.Split(line, "　")
	}
	if len(parts) > 0 {
		height = afterColon(parts[0])
	}
	if len(parts) > 1 {
		weight = afterColon(parts[1])
	}
	return height, weight
}

func afterColon(s string) string {
	_, v, _ := strings.Cut(s, "：")
	return v
}

// parseStatsTable fills weakness, resistance and retreat from the three
// cells of the stats table.
func (p *CardParser) parseStatsTable(cells *goquery.Selection, card *cardcrawl.Card) error {
	if cells.Length() == 0 {
		return nil
	}
	if cells.Length() != 3 {
		return cardcrawl.Errorf(cardcrawl.ELAYOUT, "unexpected %d stat cells for card %d (%s)", cells.Length(), card.JPID, card.Name)
	}

	var err error
	if card.Weakness, err = modifier(cells.Eq(0)); err != nil {
		return err
	}
	if card.Resistance, err = modifier(cells.Eq(1)); err != nil {
		return err
	}

	retreat := cells.Eq(2).Find("span").Length()
	card.Retreat = &retreat
	return nil
}

func modifier(cell *goquery.Selection) (*cardcrawl.Modifier, error) {
	if cell.Find("span").Length() == 0 {
		return nil, nil
	}
	types, err := energies(cell.ChildrenFiltered("span.icon"), ",")
	if err != nil {
		return nil, err
	}
	return &cardcrawl.Modifier{Type: types, Value: strings.TrimSpace(cell.Text())}, nil
}

// leadingInt parses the digits at the start of s, like parseInt.
func leadingInt(s string) (int, error) {
	return strconv.Atoi(leadingDigitsRe.FindString(strings.TrimSpace(s)))
}
