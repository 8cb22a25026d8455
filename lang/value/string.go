package value

// String is the type of a string value. It holds decoded text: escape
// sequences of the form \ddd have already been resolved to their code point
// by the loader, so operations here work on the final rune sequence.
type String string

func (s String) String() string { return string(s) }
func (s String) Type() string   { return "string" }

// Len returns the number of Unicode code points (runes) in s, the unit used
// by STRLEN, STRI2INT, GETCHAR and SETCHAR.
func (s String) Len() int { return len([]rune(s)) }
