// Package ipperr defines the closed set of error kinds the interpreter can
// raise and their mapping to process exit codes (spec §6, §7). It plays the
// role nenuphar's small typed sentinel errors (e.g. machine.NoSuchAttrError)
// play for that project: a fault is always identifiable by kind, never by
// sniffing a message string.
package ipperr

import (
	"errors"
	"fmt"
)

// Kind identifies one of the fault categories the interpreter can raise. All
// errors are fatal: the engine halts on the first one raised.
type Kind int

const (
	// BadInvocation covers bad CLI usage: unknown flags, stray positional
	// arguments, or omitting both --source and --input.
	BadInvocation Kind = iota
	// InputOpen means a source or input file could not be opened for reading.
	InputOpen
	// OutputOpen means an output file could not be opened for writing. Nothing
	// in this CLI currently opens an output file, so this kind is reserved: it
	// exists for completeness of the exit-code table, as it does in the
	// original interpreter this was distilled from.
	OutputOpen
	// XmlMalformed means the source document was not well-formed XML.
	XmlMalformed
	// XmlStructure means the document was well-formed XML but violated the
	// program/instruction/argument grammar.
	XmlStructure
	// SemanticError covers static violations discovered before or during
	// execution that are not XML shape issues: unknown opcodes, wrong arity,
	// duplicate DEFVAR, duplicate LABEL, jumping/calling an unknown label.
	SemanticError
	// OperandType means an operand resolved to a value of the wrong type for
	// the opcode, or a destination variable's current type conflicts with the
	// type being assigned to it.
	OperandType
	// UndefinedVariable means a frame lookup found no binding by that name.
	UndefinedVariable
	// FrameMissing means an operation required the Temporary frame or the top
	// of the Local frame stack to exist, and it did not.
	FrameMissing
	// MissingValue means a read targeted a variable, the data stack, or the
	// call stack and found nothing there to read (Uninitialized variable,
	// empty data stack on POPS, empty call stack on RETURN).
	MissingValue
	// OperandValue means an operand had the right type but an out-of-domain
	// value: division by zero, an EXIT code outside [0,49].
	OperandValue
	// StringError covers string-indexing faults: an out-of-range index for
	// STRI2INT/GETCHAR/SETCHAR, or an empty replacement string for SETCHAR, or
	// an out-of-range code point for INT2CHAR.
	StringError
	// InternalInvariant marks a condition that should be unreachable if the
	// rest of the interpreter is correct, such as an opcode present in the
	// dispatch table's arity list but missing its handler.
	InternalInvariant
)

// exitCodes maps each Kind to the numeric process exit code from spec §6.
var exitCodes = [...]int{
	BadInvocation:      10,
	InputOpen:          11,
	OutputOpen:         12,
	XmlMalformed:       31,
	XmlStructure:       32,
	SemanticError:      52,
	OperandType:        53,
	UndefinedVariable:  54,
	FrameMissing:       55,
	MissingValue:       56,
	OperandValue:       57,
	StringError:        58,
	InternalInvariant:  99,
}

// names gives a short human-readable label for each Kind, used in the
// stderr diagnostic line (spec §7: "stderr carries a human-readable line
// naming the error kind").
var names = [...]string{
	BadInvocation:     "bad invocation",
	InputOpen:         "input file unreadable",
	OutputOpen:        "output file unwritable",
	XmlMalformed:      "malformed XML",
	XmlStructure:      "invalid XML structure",
	SemanticError:     "semantic error",
	OperandType:       "operand type error",
	UndefinedVariable: "undefined variable",
	FrameMissing:      "frame missing",
	MissingValue:      "missing value",
	OperandValue:      "operand value error",
	StringError:       "string error",
	InternalInvariant: "internal invariant violation",
}

// Code returns the process exit code for k.
func (k Kind) Code() int { return exitCodes[k] }

func (k Kind) String() string { return names[k] }

// Error is a fault raised by the loader or the engine. It always carries a
// Kind so the CLI boundary can translate it to the right exit code without
// inspecting the message.
type Error struct {
	Kind Kind
	// Context is an optional short string naming where the fault occurred
	// (e.g. an opcode or variable name), printed alongside the kind.
	Context string
	// Err is the underlying cause, if any (e.g. a strconv error).
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Context != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Context, e.Err)
	case e.Context != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Context)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error of the given kind with no further context.
func New(kind Kind) *Error { return &Error{Kind: kind} }

// Newf builds an *Error of the given kind with a formatted context string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given kind around an underlying cause.
func Wrap(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// CodeOf returns the exit code that should terminate the process for err: the
// Kind's code if err is (or wraps) an *Error, or 99 (InternalInvariant) for
// any other, unexpected error.
func CodeOf(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind.Code()
	}
	return InternalInvariant.Code()
}
