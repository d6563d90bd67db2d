package goquery_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/cardcrawl"
	"github.com/fwojciec/cardcrawl/goquery"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pokemonPage renders a detail page for a pokemon with the given stage and
// the given markup after the TopInfo block.
func pokemonPage(name, stage, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html><body>
<h1 class="Heading1 mt20">%s</h1>
<section class="SubSection">
<div class="LeftBox">
<img class="fit" src="/assets/images/card_images/large/SV2a/042_1.jpg">
<div class="subtext Text-fjalla">005 / 165 <img width="24" src="/assets/images/card/rarity/ic_rare_u.gif"></div>
<img class="img-regulation" alt="SV2a" src="/assets/images/card/regulation_logo_1/G.gif">
<div class="author">イラストレーター <a href="/card-search/index.php?illust=1">Kouki Saitou</a></div>
</div>
<div class="RightBox"><div class="RightBox-inner">
<div class="TopInfo Text-fjalla">
<div class="tr"><div class="td-l"><span class="type">%s</span></div>
<div class="td-r"><span class="hp">HP</span><span class="hp-num">90</span><span class="hp-type">タイプ</span><span class="icon icon-fire"></span></div></div>
</div>
%s
</div></div>
</section>
</body></html>`, name, stage, body)
}

const (
	charmeleonAttacks = `<h2 class="mt20">ワザ</h2>
<h4><span class="icon icon-fire"></span><span class="icon icon-colorless"></span>ひのこ<span class="f_right Text-fjalla">30</span></h4>
<p>自分の手札を1枚トラッシュする。</p>
<h4><span class="icon icon-colorless"></span>たいあたり<span class="f_right Text-fjalla">10</span></h4>`

	charmeleonEvolution = `<h2 class="mt20">進化</h2>
<div class="evolution ev_off"><a href="#">リザードン</a></div>
<div class="evolution ev_on"><a href="#">リザード</a></div>
<div class="evolution ev_off"><a href="#">ヒトカゲ</a><div class="arrow_off"></div></div>`

	charmeleonStats = `<table><tr><th>弱点</th><th>抵抗力</th><th>にげる</th></tr>
<tr><td><span class="icon icon-water"></span>×2</td><td>--</td><td class="escape"><span class="icon icon-colorless"></span></td></tr></table>
<div class="card"><h4>No.005　かえんポケモン</h4><p>高さ：1.1 m　重さ：19.0 kg</p><p>燃える しっぽを 振りまわし するどい ツメで 相手を 切り裂く。</p></div>`
)

func intPtr(v int) *int { return &v }

func TestCardParser_ParseCard_Pokemon(t *testing.T) {
	t.Parallel()

	html := pokemonPage("リザード", "1&nbsp;進化", charmeleonAttacks+charmeleonEvolution+charmeleonStats)

	p := goquery.NewCardParser()
	card, err := p.ParseCard(42, html)
	require.NoError(t, err)

	want := &cardcrawl.Card{
		Lang:       "ja",
		Set:        "SV2a",
		Number:     "005",
		Name:       "リザード",
		Text:       "[ワザ]ひのこ\nRC 30\n自分の手札を1枚トラッシュする。\n\n[ワザ]たいあたり\nC 10",
		EvolveFrom: "ヒトカゲ",
		Type:       cardcrawl.CardType{Main: cardcrawl.MainPokemon},
		HP:         intPtr(90),
		Stage:      "1 進化",
		Types:      "R",
		Attacks: []cardcrawl.Attack{
			{Cost: "RC", Name: "ひのこ", Damage: "30", Effect: "自分の手札を1枚トラッシュする。"},
			{Cost: "C", Name: "たいあたり", Damage: "10", Effect: ""},
		},
		Weakness: &cardcrawl.Modifier{Type: "W", Value: "×2"},
		Retreat:  intPtr(1),
		Category: "normal",
		Tags:     []string{},
		Layout:   "normal",
		Rarity:   "rare_u",
		Pokedex: &cardcrawl.Pokedex{
			Number:   5,
			Category: "かえんポケモン",
			Height:   "1.1 m",
			Weight:   "19.0 kg",
		},
		FlavorText:     "燃える しっぽを 振りまわし するどい ツメで 相手を 切り裂く。",
		Artist:         []string{"Kouki Saitou"},
		ImageURL:       "https://www.pokemon-card.com/assets/images/card_images/large/SV2a/042_1.jpg",
		SetImageURL:    "https://www.pokemon-card.com/assets/images/card/regulation_logo_1/G.gif",
		RarityImageURL: "https://www.pokemon-card.com/assets/images/card/rarity/ic_rare_u.gif",
		JPID:           42,
		SetTotal:       "165",
	}
	if diff := cmp.Diff(want, card); diff != "" {
		t.Errorf("card mismatch (-want +got):\n%s", diff)
	}
}

func TestCardParser_ParseCard_Idempotent(t *testing.T) {
	t.Parallel()

	html := pokemonPage("リザード", "1&nbsp;進化", charmeleonAttacks+charmeleonEvolution+charmeleonStats)
	p := goquery.NewCardParser()

	first, err := p.ParseCard(42, html)
	require.NoError(t, err)
	second, err := p.ParseCard(42, html)
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(first, second))
}

func TestCardParser_ParseCard_Evolution(t *testing.T) {
	t.Parallel()

	t.Run("basic stage ignores evolution lines", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("ヒトカゲ", "たね", charmeleonAttacks+`<h2>進化</h2><div class="evolution ev_on"><a>ヒトカゲ</a></div>`)

		card, err := goquery.NewCardParser().ParseCard(1, html)

		require.NoError(t, err)
		assert.Empty(t, card.EvolveFrom)
	})

	t.Run("unresolved chain is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("リザード", "1&nbsp;進化", charmeleonAttacks+`<h2>進化</h2>
<div class="evolution ev_off"><a>リザードン</a></div>
<div class="evolution ev_on"><a>リザード</a></div>`)

		_, err := goquery.NewCardParser().ParseCard(42, html)

		require.Error(t, err)
		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
		assert.Contains(t, cardcrawl.ErrorMessage(err), "42")
		assert.Contains(t, cardcrawl.ErrorMessage(err), "リザード")
	})
}

func TestFindEvolveFrom(t *testing.T) {
	t.Parallel()

	t.Run("resolves link after active line", func(t *testing.T) {
		t.Parallel()

		lines := find(t, `<div id="evo">
<div class="evolution"><a>Charmander</a></div>
<div class="evolution"><span class="ev_on"><a>Charmeleon</a></span></div>
<div class="evolution"><a>Charizard</a><div class="arrow_off"></div></div>
</div>`, "#evo > *")

		got, ok := goquery.FindEvolveFrom(lines)

		require.True(t, ok)
		assert.Equal(t, "Charizard", got)
	})

	t.Run("skips lines with several links", func(t *testing.T) {
		t.Parallel()

		lines := find(t, `<div id="evo">
<div class="evolution ev_on"><a>Eevee</a></div>
<div class="evolution"><a>Vaporeon</a><a>Jolteon</a><div class="arrow_off"></div></div>
<div class="evolution"><a>Flareon</a><div class="arrow_off"></div></div>
</div>`, "#evo > *")

		got, ok := goquery.FindEvolveFrom(lines)

		require.True(t, ok)
		assert.Equal(t, "Flareon", got)
	})

	t.Run("reports missing line", func(t *testing.T) {
		t.Parallel()

		lines := find(t, `<div id="evo">
<div class="evolution"><a>Charmander</a></div>
<div class="evolution ev_on"><a>Charmeleon</a></div>
<div class="evolution"><a>Charizard</a><div class="arrow_on"></div></div>
</div>`, "#evo > *")

		_, ok := goquery.FindEvolveFrom(lines)

		assert.False(t, ok)
	})
}

func TestCardParser_ParseCard_Sections(t *testing.T) {
	t.Parallel()

	t.Run("ability adds entry and marker", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("ピカチュウ", "たね", `<h2>特性</h2><h4>ちくでん</h4><p>1回使える。</p><p><span class="icon icon-electric"></span>をつける。</p>`)

		card, err := goquery.NewCardParser().ParseCard(3, html)

		require.NoError(t, err)
		assert.Equal(t, []cardcrawl.Ability{{Name: "ちくでん", Effect: "1回使える。\n{L}をつける。"}}, card.Abilities)
		assert.Equal(t, "[特性]ちくでん\n1回使える。\n{L}をつける。", card.Text)
		assert.Empty(t, card.Tags)
	})

	t.Run("legacy traits add tags", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("ルギア", "たね", `<h2>ポケボディー</h2><h4>まもり</h4><p>ダメージを受けない。</p><h2>古代能力</h2><h4>Ωバリア</h4><p>効果を受けない。</p>`)

		card, err := goquery.NewCardParser().ParseCard(4, html)

		require.NoError(t, err)
		assert.Equal(t, []string{cardcrawl.TagPokeBody, cardcrawl.TagAncientTrait}, card.Tags)
		assert.Equal(t, "[ポケボディー]まもり\nダメージを受けない。\n\n[古代能力]Ωバリア\n効果を受けない。", card.Text)
		assert.Nil(t, card.Abilities)
	})

	t.Run("untitled tera notice adds tag", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("テラパゴス", "たね", `<p>`+goquery.TeraText+`</p>`+charmeleonAttacks)

		card, err := goquery.NewCardParser().ParseCard(5, html)

		require.NoError(t, err)
		assert.Contains(t, card.Tags, cardcrawl.TagTera)
		assert.Contains(t, card.Text, goquery.TeraText)
	})

	t.Run("vstar ability", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("アルセウスVSTAR", "V進化", `<h2>ワザ</h2><h2>VSTARパワー</h2><h4>特性</h4><h4>スターバース</h4><p>1回使える。</p>`)

		card, err := goquery.NewCardParser().ParseCard(6, html)

		require.NoError(t, err)
		assert.Equal(t, &cardcrawl.VstarPower{Type: cardcrawl.VstarAbility, Name: "スターバース", Effect: "1回使える。"}, card.VstarPower)
		assert.Equal(t, "[VSTAR特性]スターバース\n1回使える。", card.Text)
		assert.Equal(t, []string{cardcrawl.TagVstarPower}, card.Tags)
	})

	t.Run("vstar attack", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("アルセウスVSTAR", "V進化", `<h2>ワザ</h2><h2>VSTARパワー</h2><h4>ワザ</h4><h4><span class="icon icon-colorless"></span>スターバース<span class="f_right">250</span></h4><p>相手を倒す。</p>`)

		card, err := goquery.NewCardParser().ParseCard(6, html)

		require.NoError(t, err)
		assert.Equal(t, &cardcrawl.VstarPower{Type: cardcrawl.VstarAttack, Cost: "C", Name: "スターバース", Damage: "250", Effect: "相手を倒す。"}, card.VstarPower)
		assert.Equal(t, "[VSTARワザ]スターバース\nC 250\n相手を倒す。", card.Text)
	})

	t.Run("vstar with extra heading is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("アルセウスVSTAR", "V進化", `<h2>ワザ</h2><h2>VSTARパワー</h2><h4>特性</h4><h4>a</h4><h4>b</h4>`)

		_, err := goquery.NewCardParser().ParseCard(6, html)

		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
	})

	t.Run("unknown vstar type is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("アルセウスVSTAR", "V進化", `<h2>ワザ</h2><h2>VSTARパワー</h2><h4>どうぐ</h4><h4>a</h4>`)

		_, err := goquery.NewCardParser().ParseCard(6, html)

		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
	})

	t.Run("rule text yields tags", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("アルセウスVSTAR", "V進化", `<h2>ワザ</h2><h2>特別なルール</h2><p></p><p>ポケモンVSTARがきぜつしたとき、相手はサイドを2枚とる。</p>`)

		card, err := goquery.NewCardParser().ParseCard(6, html)

		require.NoError(t, err)
		assert.Equal(t, "ポケモンVSTARがきぜつしたとき、相手はサイドを2枚とる。", card.Rule)
		assert.Equal(t, []string{"VSTAR", "V"}, card.Tags)
		assert.Empty(t, card.Text)
	})

	t.Run("level up rule suppresses V", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("ディアルガLV.X", "レベルアップ", `<h2>ワザ</h2><h2>特別なルール</h2><p>LV.Xのポケモンはバトル場のポケモンに重ねる。</p>`)

		card, err := goquery.NewCardParser().ParseCard(8, html)

		require.NoError(t, err)
		assert.Contains(t, card.Tags, "LV.X")
		assert.NotContains(t, card.Tags, "V")
	})

	t.Run("unknown rule text is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("なにか", "たね", `<h2>ワザ</h2><h2>特別なルール</h2><p>ふしぎなきまり。</p>`)

		_, err := goquery.NewCardParser().ParseCard(9, html)

		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
		assert.Contains(t, cardcrawl.ErrorMessage(err), "ふしぎなきまり。")
	})

	t.Run("unknown section title is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("なにか", "たね", `<h2>ワザ</h2><h2>テラスタル</h2><p>x</p>`)

		_, err := goquery.NewCardParser().ParseCard(10, html)

		require.Error(t, err)
		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
		assert.Contains(t, cardcrawl.ErrorMessage(err), "テラスタル")
		assert.Contains(t, cardcrawl.ErrorMessage(err), "10")
		assert.Contains(t, cardcrawl.ErrorMessage(err), "なにか")
	})

	t.Run("type line sections are ignored", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("なにか", "たね", charmeleonAttacks+`<h2>スタジアム</h2><p>x</p>`)

		card, err := goquery.NewCardParser().ParseCard(11, html)

		require.NoError(t, err)
		assert.Len(t, card.Attacks, 2)
	})

	t.Run("stats table with wrong cell count is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("なにか", "たね", charmeleonAttacks+`<table><tr><td>a</td><td>b</td></tr></table>`)

		_, err := goquery.NewCardParser().ParseCard(12, html)

		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
	})

	t.Run("unknown attack span is a layout error", func(t *testing.T) {
		t.Parallel()

		html := pokemonPage("なにか", "たね", `<h2>ワザ</h2><h4>かみつく<span class="badge">new</span></h4>`)

		_, err := goquery.NewCardParser().ParseCard(13, html)

		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
	})
}

func TestCardParser_ParseAttacks(t *testing.T) {
	t.Parallel()

	t.Run("builds one attack per heading", func(t *testing.T) {
		t.Parallel()

		contents := find(t, `<div id="g">
<h4><span class="icon icon-fire"></span>Ember<span class="f_right">30</span></h4>
<p>Discard a card.</p>
<p>Flip a coin.</p>
<h4>Tackle<span class="f_right">10</span></h4>
</div>`, "#g > *")

		attacks, err := goquery.NewCardParser().ParseAttacks(contents)

		require.NoError(t, err)
		assert.Equal(t, []cardcrawl.Attack{
			{Cost: "R", Name: "Ember", Damage: "30", Effect: "Discard a card.\nFlip a coin."},
			{Cost: "", Name: "Tackle", Damage: "10", Effect: ""},
		}, attacks)
	})

	t.Run("paragraph before heading is a layout error", func(t *testing.T) {
		t.Parallel()

		contents := find(t, `<div id="g"><p>orphan</p><h4>Tackle</h4></div>`, "#g > *")

		_, err := goquery.NewCardParser().ParseAttacks(contents)

		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
	})
}

func TestCardParser_ParseCard_NonPokemon(t *testing.T) {
	t.Parallel()

	t.Run("supporter drops boilerplate paragraph", func(t *testing.T) {
		t.Parallel()

		html := `<h1 class="Heading1">博士の研究</h1>
<div class="RightBox-inner"><h2>サポート</h2>
<p>自分の手札をすべてトラッシュし、山札を7枚引く。</p>
<p>サポートは、自分の番に1枚しか使えない。</p>
<p>この効果は重ならない。</p></div>`

		card, err := goquery.NewCardParser().ParseCard(20, html)

		require.NoError(t, err)
		assert.Equal(t, cardcrawl.CardType{Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubSupporter}, card.Type)
		assert.Equal(t, "自分の手札をすべてトラッシュし、山札を7枚引く。\nこの効果は重ならない。", card.Text)
		assert.Nil(t, card.HP)
		assert.Nil(t, card.Pokedex)
		assert.Empty(t, card.Stage)
		require.NoError(t, card.Validate())
	})

	t.Run("tool drops item boilerplate", func(t *testing.T) {
		t.Parallel()

		html := `<h1 class="Heading1">きあいのハチマキ</h1><div><h2>ポケモンのどうぐ</h2>
<p>グッズは、自分の番に何枚でも使える。</p>
<p>このカードをつけているポケモンのHPは「+50」される。</p></div>`

		card, err := goquery.NewCardParser().ParseCard(21, html)

		require.NoError(t, err)
		assert.Equal(t, cardcrawl.CardType{Main: cardcrawl.MainTrainer, Sub: cardcrawl.SubItem}, card.Type)
		assert.Equal(t, "このカードをつけているポケモンのHPは「+50」される。", card.Text)
	})

	t.Run("basic energy", func(t *testing.T) {
		t.Parallel()

		html := `<h1 class="Heading1">基本炎エネルギー</h1><div><h2>基本エネルギー</h2></div>`

		card, err := goquery.NewCardParser().ParseCard(22, html)

		require.NoError(t, err)
		assert.Equal(t, cardcrawl.CardType{Main: cardcrawl.MainEnergy, Sub: cardcrawl.SubBasic}, card.Type)
		assert.Empty(t, card.Text)
		assert.Equal(t, []string{}, card.Artist)
	})

	t.Run("unknown type line is a layout error", func(t *testing.T) {
		t.Parallel()

		html := `<h1 class="Heading1">なにか</h1><div><h2>ふしぎ</h2></div>`

		_, err := goquery.NewCardParser().ParseCard(23, html)

		require.Error(t, err)
		assert.Equal(t, cardcrawl.ELAYOUT, cardcrawl.ErrorCode(err))
		assert.Contains(t, cardcrawl.ErrorMessage(err), "ふしぎ")
		assert.Contains(t, cardcrawl.ErrorMessage(err), "23")
	})
}

func TestCardParser_ParseCard_NoData(t *testing.T) {
	t.Parallel()

	_, err := goquery.NewCardParser().ParseCard(99, `<html><body><p>カードが見つかりません</p></body></html>`)

	require.Error(t, err)
	assert.Equal(t, cardcrawl.ENODATA, cardcrawl.ErrorCode(err))
}

func TestCardParser_ParseCard_CollectorNumber(t *testing.T) {
	t.Parallel()

	t.Run("promo number without total", func(t *testing.T) {
		t.Parallel()

		html := `<h1 class="Heading1">ボール</h1><div class="subtext"> 001 </div><div><h2>グッズ</h2><p>x</p></div>`

		card, err := goquery.NewCardParser().ParseCard(30, html)

		require.NoError(t, err)
		assert.Equal(t, "001", card.Number)
		assert.Empty(t, card.SetTotal)
	})

	t.Run("promo code with total", func(t *testing.T) {
		t.Parallel()

		html := `<h1 class="Heading1">ボール</h1><div class="subtext">123 / SV-P</div><div><h2>グッズ</h2><p>x</p></div>`

		card, err := goquery.NewCardParser().ParseCard(31, html)

		require.NoError(t, err)
		assert.Equal(t, "123", card.Number)
		assert.Equal(t, "SV-P", card.SetTotal)
	})
}

func TestPTCGSource(t *testing.T) {
	t.Parallel()

	t.Run("builds detail URL", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewPTCGSource(goquery.NewCardParser())

		assert.Equal(t, cardcrawl.SourcePTCG, s.Source())
		assert.Equal(t, "https://www.pokemon-card.com/card-search/details.php/card/42", s.CardURL(42))
	})

	t.Run("wraps card as record", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewPTCGSource(goquery.NewCardParser())
		rec, err := s.ParseCard(21, `<h1 class="Heading1">A&amp;B</h1><div><h2>グッズ</h2><p>x &lt; y</p></div>`)

		require.NoError(t, err)
		assert.Equal(t, 21, rec.SourceID)
		assert.Equal(t, "A&B", rec.Name)
		assert.Contains(t, string(rec.Data), `"name": "A&B"`)
		assert.Contains(t, string(rec.Data), `"text": "x < y"`)
	})

	t.Run("passes through no data", func(t *testing.T) {
		t.Parallel()

		s := goquery.NewPTCGSource(goquery.NewCardParser())
		_, err := s.ParseCard(1, `<p>none</p>`)

		assert.Equal(t, cardcrawl.ENODATA, cardcrawl.ErrorCode(err))
	})
}
