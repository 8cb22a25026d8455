package value

// Kind names one of the four value types a Literal or TypeTag argument may
// declare. It is a plain string type so XML attribute text ("int", "string",
// "bool", "nil") can be used directly without an intermediate lookup table.
type Kind string

const (
	KindInt    Kind = "int"
	KindString Kind = "string"
	KindBool   Kind = "bool"
	KindNil    Kind = "nil"
)

// Valid reports whether k is one of the four declared literal/type kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindInt, KindString, KindBool, KindNil:
		return true
	default:
		return false
	}
}
