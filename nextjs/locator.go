package nextjs

import "github.com/fwojciec/cardcrawl"

// Ensure Locator implements cardcrawl.PayloadLocator.
var _ cardcrawl.PayloadLocator = Locator{}

// Locator finds the card payload in a decoded React Server Components
// tree. It follows the fixed positions the renderer uses rather than
// searching every branch: element tuples keep their props at index 3, and
// a fragment wraps its children in a leading array.
type Locator struct{}

// Locate returns the value of the first non-null "card" property reached.
func (Locator) Locate(tree cardcrawl.Value) (cardcrawl.Value, bool) {
	v := tree
	for {
		switch v.Kind() {
		case cardcrawl.KindNull:
			return cardcrawl.Null(), false
		case cardcrawl.KindObject:
			if card, ok := v.Get("card"); ok && !card.IsNull() {
				return card, true
			}
			children, ok := v.Get("children")
			if !ok {
				return cardcrawl.Null(), false
			}
			v = children
		case cardcrawl.KindArray:
			v = props(v)
		default:
			return cardcrawl.Null(), false
		}
	}
}

// props returns the element slot of an array node. Missing positions
// yield null.
func props(v cardcrawl.Value) cardcrawl.Value {
	for _, i := range []int{0, 1} {
		if head, ok := v.Index(i); ok && head.Kind() == cardcrawl.KindArray {
			next, _ := head.Index(3)
			return next
		}
	}
	next, _ := v.Index(3)
	return next
}
