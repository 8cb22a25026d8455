package program

import "github.com/mna/ippcode23/lang/value"

// FrameKind identifies which of the three variable containers a Variable
// argument refers to.
type FrameKind uint8

const (
	GlobalFrame FrameKind = iota
	TemporaryFrame
	LocalFrame
)

func (k FrameKind) String() string {
	switch k {
	case GlobalFrame:
		return "GF"
	case TemporaryFrame:
		return "TF"
	case LocalFrame:
		return "LF"
	default:
		return "?F"
	}
}

// Arg is the interface implemented by each of the four argument shapes an
// Instruction may carry (spec §3): Variable, Literal, Label and TypeTag.
type Arg interface {
	argMarker()
}

// Variable is a frame-qualified variable reference, e.g. GF@counter.
type Variable struct {
	Frame FrameKind
	Name  string
}

func (Variable) argMarker() {}

// Literal is a typed constant argument: its Kind is one of "int", "string",
// "bool" or "nil" and Text is the (already escape-decoded, for strings)
// textual form.
type Literal struct {
	Kind value.Kind
	Text string
}

func (Literal) argMarker() {}

// Label is a bare identifier naming a jump/call target.
type Label struct {
	Name string
}

func (Label) argMarker() {}

// TypeTag is one of the four value-type names, used as the second argument
// of READ.
type TypeTag struct {
	Kind value.Kind
}

func (TypeTag) argMarker() {}
