package value

// NilType is the type of Nil. Its only legal value is Nil. It is represented
// as an empty struct type rather than a pointer so that Nil is a single,
// comparable constant.
type NilType struct{}

// Nil is the single instance of NilType.
var Nil = NilType{}

func (NilType) String() string { return "nil" }
func (NilType) Type() string   { return "nil" }
