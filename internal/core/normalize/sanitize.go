package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize drops invalid UTF-8 and control characters other than newline, carriage return and tab
// clean input is returned as is
func Sanitize(s string) string {
	if utf8.ValidString(s) && strings.IndexFunc(s, dropped) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if dropped(r) {
			return -1
		}
		return r
	}, s)
}

// dropped covers C0, DEL and C1; ranging over invalid UTF-8 yields RuneError
func dropped(r rune) bool {
	switch r {
	case '\n', '\r', '\t':
		return false
	case utf8.RuneError:
		return true
	}
	return unicode.IsControl(r)
}
