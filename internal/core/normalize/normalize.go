// Package normalize prepares chat text for rule matching
// Pipeline order for Fold
// 1 Sanitize control bytes and invalid UTF-8
// 2 Remove format chars (zero-width joiners, BOM)
// 3 Width fold fullwidth forms to ASCII
// 4 Lower-case
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// transformers are stateful so each caller takes its own chain
var chainPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			runes.Remove(runes.In(unicode.Cf)),
			width.Fold,
			cases.Lower(language.Und),
		)
	},
}

// Clean strips unwanted bytes and surrounding whitespace but keeps casing
// extractors read this form so captured codes and names keep their case
func Clean(s string) string {
	return strings.TrimSpace(Sanitize(s))
}

// Fold returns the lower-cased matching form of s
func Fold(s string) string {
	s = Clean(s)
	if s == "" {
		return ""
	}

	tr := chainPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	chainPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}
