package cardcrawl

import (
	"slices"
	"strings"
)

// Tags added by section structure rather than by rule text.
const (
	TagTera         = "tera"
	TagAncientTrait = "ancient_trait"
	TagPokePower    = "poke_power"
	TagPokeBody     = "poke_body"
	TagHeldItem     = "held_item"
	TagHeldBerry    = "held_berry"
	TagVstarPower   = "vstar_power"
)

// RuleTags is the controlled vocabulary recognized in special-rule text.
// A rule paragraph contributes every entry it contains as a substring, so
// order matters only for the order tags are reported in.
var RuleTags = []string{
	"ACE SPEC",
	"ex",
	"Tera",
	"かがやく",
	"Radiant",
	"VMAX",
	"VSTAR",
	"V-UNION",
	"V",
	"TAG TEAM",
	"プリズムスター",
	"Prism Star",
	"GX",
	"EX",
	"M進化",
	"Mega",
	"ゲンシ",
	"Primal",
	"BREAK",
	"LEGEND",
	"レベルアップ",
	"LV.X",
	"☆",
	"Star",
	"賞",
	"公式大会では使えない",
	"何枚でも",
	"レギュレーション",
	"ポケモンのどうぐは",
	"サポートは",
	"スタジアムは",
	"Baby",
	"Shining",
	"稜柱之星",
	"光輝",
}

// tagSuppression lists tags that remove a shorter overlapping tag when present.
var tagSuppression = []struct {
	present  string
	suppress string
}{
	{"LV.X", "V"},
	{"Prism Star", "Star"},
	{"獎賞卡", "賞"},
}

// MatchRuleTags returns the vocabulary entries contained in text, in
// vocabulary order. The result is empty when text matches nothing.
func MatchRuleTags(text string) []string {
	var tags []string
	for _, tag := range RuleTags {
		if strings.Contains(text, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

// SuppressTags drops tags shadowed by a more specific tag in the same set.
// The input slice is not modified.
func SuppressTags(tags []string) []string {
	out := slices.Clone(tags)
	for _, rule := range tagSuppression {
		if slices.Contains(out, rule.present) {
			out = slices.DeleteFunc(out, func(t string) bool { return t == rule.suppress })
		}
	}
	return out
}

// AddTags appends tags that are not already present.
func AddTags(tags []string, add ...string) []string {
	for _, t := range add {
		if !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags
}
