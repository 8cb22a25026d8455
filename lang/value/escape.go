package value

import "strings"

// Unescape decodes IPPcode23 string escapes: every maximal run of the form
// \ddd (a backslash followed by exactly three decimal digits) is replaced,
// left to right, by the single Unicode code point whose ordinal is ddd. A
// backslash not followed by three decimal digits is passed through
// unchanged, along with every other byte.
//
// Decoding is idempotent on strings that contain no backslash, and is a
// single left-to-right pass, so a replacement never re-triggers on bytes it
// just produced.
func Unescape(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '\\' || i+3 >= len(runes) {
			b.WriteRune(r)
			continue
		}

		d1, d2, d3 := runes[i+1], runes[i+2], runes[i+3]
		if !isDecimalDigit(d1) || !isDecimalDigit(d2) || !isDecimalDigit(d3) {
			b.WriteRune(r)
			continue
		}

		code := (int(d1-'0') * 100) + (int(d2-'0') * 10) + int(d3-'0')
		b.WriteRune(rune(code))
		i += 3
	}
	return b.String()
}

func isDecimalDigit(r rune) bool { return r >= '0' && r <= '9' }
