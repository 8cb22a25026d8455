package machine

import (
	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

// resolveSource resolves a Variable-or-Literal argument to a concrete Value
// (spec §4.5.2). A Variable bound to Uninitialized fails with MissingValue:
// this is the "source" resolution path used everywhere except TYPE's operand
// and a destination's own current-value read.
func (e *Engine) resolveSource(arg program.Arg) (value.Value, error) {
	v, err := e.resolveAny(arg)
	if err != nil {
		return nil, err
	}
	if value.IsUninitialized(v) {
		return nil, ipperr.New(ipperr.MissingValue)
	}
	return v, nil
}

// resolveAllowUninit is like resolveSource but lets an Uninitialized variable
// through unchanged, for TYPE's operand. (A destination's current-value read
// in assignChecked goes to the FrameStore directly.)
func (e *Engine) resolveAllowUninit(arg program.Arg) (value.Value, error) {
	return e.resolveAny(arg)
}

func (e *Engine) resolveAny(arg program.Arg) (value.Value, error) {
	switch a := arg.(type) {
	case program.Variable:
		return e.frames.Get(a.Frame, a.Name)
	case program.Literal:
		v, err := value.ParseLiteral(a.Kind, a.Text)
		if err != nil {
			return nil, ipperr.Wrap(ipperr.OperandType, "", err)
		}
		return v, nil
	default:
		// A sym operand position fed a TypeTag or Label argument (e.g. PUSHS
		// given a type-tag operand) is a program shape error, not an engine
		// bug (spec §4.5.3: "TypeTag/Label operands → OperandType").
		return nil, ipperr.New(ipperr.OperandType)
	}
}

// asVariable requires arg to be a Variable, used for assignment destinations
// and DEFVAR. A literal/label/type-tag in a variable position is a shape
// mismatch the operand-resolution discipline reports as OperandType.
func asVariable(arg program.Arg) (program.Variable, error) {
	v, ok := arg.(program.Variable)
	if !ok {
		return program.Variable{}, ipperr.New(ipperr.OperandType)
	}
	return v, nil
}

// asLabel requires arg to be a Label.
func asLabel(arg program.Arg) (program.Label, error) {
	l, ok := arg.(program.Label)
	if !ok {
		return program.Label{}, ipperr.New(ipperr.OperandType)
	}
	return l, nil
}

// asTypeTag requires arg to be a TypeTag, used by READ's second argument.
func asTypeTag(arg program.Arg) (program.TypeTag, error) {
	t, ok := arg.(program.TypeTag)
	if !ok {
		return program.TypeTag{}, ipperr.New(ipperr.OperandType)
	}
	return t, nil
}

// assignChecked writes newVal to the variable argument dest, enforcing the
// type-transition invariant from spec §3: a variable may move from
// Uninitialized to any type, but thereafter may only be overwritten by a
// value of the same type.
func (e *Engine) assignChecked(dest program.Arg, newVal value.Value) error {
	v, err := asVariable(dest)
	if err != nil {
		return err
	}
	cur, err := e.frames.Get(v.Frame, v.Name)
	if err != nil {
		return err
	}
	if !value.IsUninitialized(cur) && cur.Type() != newVal.Type() {
		return ipperr.New(ipperr.OperandType)
	}
	return e.frames.Set(v.Frame, v.Name, newVal)
}
