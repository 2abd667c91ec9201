// Package textfit shortens labels without splitting grapheme clusters.
package textfit

import (
	"strings"

	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// Len returns the number of user-perceived characters in s.
func Len(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Truncate keeps the first limit-1 characters of s and appends an
// ellipsis when s is longer than limit.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if Len(s) <= limit {
		return s
	}
	var b strings.Builder
	g := uniseg.NewGraphemes(s)
	for n := 0; n < limit-1 && g.Next(); n++ {
		b.WriteString(g.Str())
	}
	b.WriteString(ellipsis)
	return b.String()
}

// TruncateLeft keeps the last limit-1 characters of s behind an ellipsis.
// Paths read better this way since the file name survives.
func TruncateLeft(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	total := Len(s)
	if total <= limit {
		return s
	}
	skip := total - (limit - 1)
	var b strings.Builder
	b.WriteString(ellipsis)
	g := uniseg.NewGraphemes(s)
	for n := 0; g.Next(); n++ {
		if n >= skip {
			b.WriteString(g.Str())
		}
	}
	return b.String()
}
