// Package nextjs extracts card payloads from pages hydrated by the Next.js
// app router, which streams its React tree to the browser through
// self.__next_f.push calls.
package nextjs

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/fwojciec/cardcrawl"
)

// Marker is the global the streaming hydration script pushes into.
const Marker = "__next_f"

var (
	pushPrefixRe = regexp.MustCompile(`^self\.__next_f\.push\(\[\d+,"\d+:`)
	pushSuffixRe = regexp.MustCompile(`\]\)\s*;?$`)
)

// Unwrap strips the push-call wrapper from a hydration script and decodes
// the doubly encoded payload. The first decode yields a JSON string whose
// content is itself the JSON tree.
func Unwrap(script string) (cardcrawl.Value, error) {
	s := strings.TrimSpace(script)
	s = pushPrefixRe.ReplaceAllLiteralString(s, `"`)
	s = pushSuffixRe.ReplaceAllLiteralString(s, "")

	var inner string
	if err := json.Unmarshal([]byte(s), &inner); err != nil {
		return cardcrawl.Null(), cardcrawl.Errorf(cardcrawl.EINVALID, "decode hydration string: %v", err)
	}

	tree, err := cardcrawl.ParseValue([]byte(inner))
	if err != nil {
		return cardcrawl.Null(), cardcrawl.Errorf(cardcrawl.EINVALID, "decode hydration tree: %v", err)
	}
	return tree, nil
}
