package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnescape(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no backslash", "hello world", "hello world"},
		{"single escape", `\032`, " "},
		{"escape at start and end", `\104i\033`, "Hi!"},
		{"trailing backslash with no digits", `foo\`, `foo\`},
		{"backslash followed by too few digits", `\12`, `\12`},
		{"backslash followed by non-digits", `\12a`, `\12a`},
		{"consecutive escapes", `\065\066`, "AB"},
		{"left-to-right: replacement never re-triggers", `\092048`, `\048`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape(tt.in))
		})
	}
}

func TestUnescapeIdempotentWithoutBackslash(t *testing.T) {
	for _, s := range []string{"", "plain", "with spaces and punctuation!?"} {
		assert.Equal(t, s, Unescape(s))
	}
}
