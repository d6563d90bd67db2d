package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// ComputeHash computes a hash of the content using xxhash.
func ComputeHash(content string) string {
	return fmt.Sprintf("%x", xxhash.Sum64String(content))
}

// FormatResult summarizes a crawl for display.
func FormatResult(r *Result) string {
	return fmt.Sprintf("%d saved, %d empty, %d failed, %d skipped", r.Saved, r.Empty, r.Failed, r.Skipped)
}

// TruncateName shortens a card name for display, keeping the start.
func TruncateName(name string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(name)
	if len(runes) <= maxRunes {
		return name
	}
	if maxRunes < 2 {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-1]) + "…"
}
