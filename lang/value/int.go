package value

import "strconv"

// Int is the type of a signed 64-bit integer value.
type Int int64

func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }
func (i Int) Type() string   { return "int" }

// Cmp compares two Int values for the LT/GT/EQ relational opcodes.
func (i Int) Cmp(y Int) int {
	switch {
	case i < y:
		return -1
	case i > y:
		return +1
	default:
		return 0
	}
}
