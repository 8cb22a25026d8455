// Package value implements the tagged runtime values manipulated by the
// machine package: integers, strings, booleans, nil, and the sentinel
// marking a variable that has been declared but never assigned.
package value

// Value is the interface implemented by every runtime value the engine
// manipulates.
type Value interface {
	// String returns the textual form used by DPRINT and BREAK, and by WRITE
	// for every value except Nil, which WRITE prints as the empty string.
	String() string

	// Type returns the short type tag used by the TYPE opcode and by error
	// messages: "int", "string", "bool" or "nil". Uninitialized reports
	// "" since it has no assigned type.
	Type() string
}

var (
	_ Value = Int(0)
	_ Value = String("")
	_ Value = Bool(false)
	_ Value = Nil
	_ Value = Uninitialized
)
