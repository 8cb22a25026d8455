package machine

import (
	"bufio"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

func (e *Engine) execMove(args []program.Arg) error {
	v, err := e.resolveSource(args[1])
	if err != nil {
		return err
	}
	return e.assignChecked(args[0], v)
}

func (e *Engine) execDefvar(args []program.Arg) error {
	v, err := asVariable(args[0])
	if err != nil {
		return err
	}
	return e.frames.Define(v.Frame, v.Name)
}

func (e *Engine) execCall(args []program.Arg) error {
	lbl, err := asLabel(args[0])
	if err != nil {
		return err
	}
	idx, ok := e.prog.LookupLabel(lbl.Name)
	if !ok {
		return ipperr.Newf(ipperr.SemanticError, "call to undefined label %q", lbl.Name)
	}
	e.calls.push(e.ip)
	e.ip = idx
	return nil
}

func (e *Engine) execReturn() error {
	idx, ok := e.calls.pop()
	if !ok {
		return ipperr.New(ipperr.MissingValue)
	}
	e.ip = idx
	return nil
}

func (e *Engine) execPushs(args []program.Arg) error {
	v, err := e.resolveSource(args[0])
	if err != nil {
		return err
	}
	e.data.push(v)
	return nil
}

func (e *Engine) execPops(args []program.Arg) error {
	v, ok := e.data.pop()
	if !ok {
		return ipperr.New(ipperr.MissingValue)
	}
	return e.assignChecked(args[0], v)
}

// execArith implements ADD, SUB, MUL and IDIV (spec §4.5.3): both operands
// must be Int, overflow wraps (Go's normal int64 semantics), and IDIV floors
// toward negative infinity to match the floor division the original
// interpreter's arithmetic was distilled from, rather than truncating
// toward zero.
func (e *Engine) execArith(op program.Opcode, args []program.Arg) error {
	x, err := e.intOperand(args[1])
	if err != nil {
		return err
	}
	y, err := e.intOperand(args[2])
	if err != nil {
		return err
	}

	var result value.Int
	switch op {
	case program.ADD:
		result = x + y
	case program.SUB:
		result = x - y
	case program.MUL:
		result = x * y
	case program.IDIV:
		if y == 0 {
			return ipperr.New(ipperr.OperandValue)
		}
		result = floorDiv(x, y)
	}
	return e.assignChecked(args[0], result)
}

func floorDiv(x, y value.Int) value.Int {
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return q
}

func (e *Engine) intOperand(arg program.Arg) (value.Int, error) {
	v, err := e.resolveSource(arg)
	if err != nil {
		return 0, err
	}
	n, ok := v.(value.Int)
	if !ok {
		return 0, ipperr.New(ipperr.OperandType)
	}
	return n, nil
}

// execRelational implements LT, GT and EQ (spec §4.5.3 / §8 property 6). LT
// and GT require both operands to share one of the three ordered types
// (Int, Bool, String); EQ additionally allows Nil, comparing equal only to
// Nil and unequal to every concrete value of any type.
func (e *Engine) execRelational(op program.Opcode, args []program.Arg) error {
	x, err := e.resolveSource(args[1])
	if err != nil {
		return err
	}
	y, err := e.resolveSource(args[2])
	if err != nil {
		return err
	}

	var result bool
	switch op {
	case program.LT, program.GT:
		cmp, err := orderedCompare(x, y)
		if err != nil {
			return err
		}
		if op == program.LT {
			result = cmp < 0
		} else {
			result = cmp > 0
		}
	case program.EQ:
		eq, err := equalCompare(x, y)
		if err != nil {
			return err
		}
		result = eq
	}
	return e.assignChecked(args[0], value.Bool(result))
}

func orderedCompare(x, y value.Value) (int, error) {
	if x.Type() != y.Type() {
		return 0, ipperr.New(ipperr.OperandType)
	}
	switch xv := x.(type) {
	case value.Int:
		return xv.Cmp(y.(value.Int)), nil
	case value.String:
		return strings.Compare(string(xv), string(y.(value.String))), nil
	case value.Bool:
		yv := y.(value.Bool)
		switch {
		case xv == yv:
			return 0, nil
		case !xv && yv:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, ipperr.New(ipperr.OperandType)
	}
}

func equalCompare(x, y value.Value) (bool, error) {
	_, xNil := x.(value.NilType)
	_, yNil := y.(value.NilType)
	if xNil || yNil {
		return xNil && yNil, nil
	}
	if x.Type() != y.Type() {
		return false, ipperr.New(ipperr.OperandType)
	}
	switch xv := x.(type) {
	case value.Int:
		return xv.Cmp(y.(value.Int)) == 0, nil
	case value.String:
		return xv == y.(value.String), nil
	case value.Bool:
		return xv == y.(value.Bool), nil
	default:
		return false, ipperr.New(ipperr.OperandType)
	}
}

// execLogical implements AND and OR: both operands must be Bool.
func (e *Engine) execLogical(op program.Opcode, args []program.Arg) error {
	x, err := e.boolOperand(args[1])
	if err != nil {
		return err
	}
	y, err := e.boolOperand(args[2])
	if err != nil {
		return err
	}
	var result value.Bool
	if op == program.AND {
		result = x && y
	} else {
		result = x || y
	}
	return e.assignChecked(args[0], result)
}

// execNot implements NOT as literal Boolean negation. The original
// interpreter this was distilled from fed the operand's string form through
// Python's str.capitalize()/eval(), a bug spec §9 explicitly calls out as
// not to be reproduced.
func (e *Engine) execNot(args []program.Arg) error {
	x, err := e.boolOperand(args[1])
	if err != nil {
		return err
	}
	return e.assignChecked(args[0], !x)
}

func (e *Engine) boolOperand(arg program.Arg) (value.Bool, error) {
	v, err := e.resolveSource(arg)
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Bool)
	if !ok {
		return false, ipperr.New(ipperr.OperandType)
	}
	return b, nil
}

// execInt2Char converts an integer code point to a single-rune string.
// StringError covers any ordinal outside the valid Unicode range.
func (e *Engine) execInt2Char(args []program.Arg) error {
	n, err := e.intOperand(args[1])
	if err != nil {
		return err
	}
	if n < 0 || n > utf8.MaxRune {
		return ipperr.New(ipperr.StringError)
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return ipperr.New(ipperr.StringError)
	}
	return e.assignChecked(args[0], value.String(r))
}

// execStri2Int reads the code point at a rune index of a string operand.
func (e *Engine) execStri2Int(args []program.Arg) error {
	s, err := e.stringOperand(args[1])
	if err != nil {
		return err
	}
	idx, err := e.intOperand(args[2])
	if err != nil {
		return err
	}
	runes := []rune(s)
	if idx < 0 || int(idx) >= len(runes) {
		return ipperr.New(ipperr.StringError)
	}
	return e.assignChecked(args[0], value.Int(runes[idx]))
}

func (e *Engine) stringOperand(arg program.Arg) (value.String, error) {
	v, err := e.resolveSource(arg)
	if err != nil {
		return "", err
	}
	s, ok := v.(value.String)
	if !ok {
		return "", ipperr.New(ipperr.OperandType)
	}
	return s, nil
}

// execRead parses one line of Stdin per the declared type (spec §4.5.3):
// EOF or a parse failure assigns Nil rather than raising a fault. The
// assignment still goes through the type-transition invariant in
// assignChecked, so a READ that fails into Nil against a variable already
// holding a concrete, different-typed value is itself an OperandType fault.
func (e *Engine) execRead(args []program.Arg) error {
	tag, err := asTypeTag(args[1])
	if err != nil {
		return err
	}

	line, ok := e.readLine()
	var v value.Value = value.Nil
	if ok {
		if parsed, err := value.ParseLiteral(tag.Kind, line); err == nil {
			v = parsed
		}
	}
	return e.assignChecked(args[0], v)
}

func (e *Engine) readLine() (string, bool) {
	if e.stdin == nil {
		e.stdin = bufio.NewReader(e.Stdin)
	}
	line, err := e.stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, "\r\n"), true
}

// execWrite prints a single operand's textual form to Stdout with no
// trailing separator (spec §4.5.3): Nil prints as the empty string, Bool
// prints lower-case, everything else prints its natural String() form.
func (e *Engine) execWrite(args []program.Arg) error {
	v, err := e.resolveSource(args[0])
	if err != nil {
		return err
	}
	if _, isNil := v.(value.NilType); isNil {
		return nil
	}
	_, err = fmt.Fprint(e.Stdout, v.String())
	return err
}

func (e *Engine) execDprint(args []program.Arg) error {
	v, err := e.resolveSource(args[0])
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(e.Stderr, v.String())
	return err
}

func (e *Engine) execConcat(args []program.Arg) error {
	x, err := e.stringOperand(args[1])
	if err != nil {
		return err
	}
	y, err := e.stringOperand(args[2])
	if err != nil {
		return err
	}
	return e.assignChecked(args[0], x+y)
}

func (e *Engine) execStrlen(args []program.Arg) error {
	s, err := e.stringOperand(args[1])
	if err != nil {
		return err
	}
	return e.assignChecked(args[0], value.Int(s.Len()))
}

func (e *Engine) execGetchar(args []program.Arg) error {
	s, err := e.stringOperand(args[1])
	if err != nil {
		return err
	}
	idx, err := e.intOperand(args[2])
	if err != nil {
		return err
	}
	runes := []rune(s)
	if idx < 0 || int(idx) >= len(runes) {
		return ipperr.New(ipperr.StringError)
	}
	return e.assignChecked(args[0], value.String(runes[idx]))
}

// execSetchar overwrites one rune of an existing String variable in place.
// Unlike every other assigning opcode, the destination must already hold a
// String — there is no "may start Uninitialized" case, since there is
// nothing to mutate a character of yet.
func (e *Engine) execSetchar(args []program.Arg) error {
	destVar, err := asVariable(args[0])
	if err != nil {
		return err
	}
	cur, err := e.frames.Get(destVar.Frame, destVar.Name)
	if err != nil {
		return err
	}
	dest, ok := cur.(value.String)
	if !ok {
		return ipperr.New(ipperr.OperandType)
	}

	idx, err := e.intOperand(args[1])
	if err != nil {
		return err
	}
	repl, err := e.stringOperand(args[2])
	if err != nil {
		return err
	}
	if repl.Len() == 0 {
		return ipperr.New(ipperr.StringError)
	}

	runes := []rune(dest)
	if idx < 0 || int(idx) >= len(runes) {
		return ipperr.New(ipperr.StringError)
	}
	runes[idx] = []rune(repl)[0]
	return e.frames.Set(destVar.Frame, destVar.Name, value.String(runes))
}

// execType writes the type name of an operand that is allowed to be
// Uninitialized, in which case it writes the empty string rather than
// failing with MissingValue (spec §4.5.3, the one opcode exempt from the
// general source-resolution rule).
func (e *Engine) execType(args []program.Arg) error {
	v, err := e.resolveAllowUninit(args[1])
	if err != nil {
		return err
	}
	return e.assignChecked(args[0], value.String(v.Type()))
}

func (e *Engine) execJump(args []program.Arg) error {
	lbl, err := asLabel(args[0])
	if err != nil {
		return err
	}
	idx, ok := e.prog.LookupLabel(lbl.Name)
	if !ok {
		return ipperr.Newf(ipperr.SemanticError, "jump to undefined label %q", lbl.Name)
	}
	e.ip = idx
	return nil
}

func (e *Engine) execJumpIf(args []program.Arg, wantEqual bool) error {
	lbl, err := asLabel(args[0])
	if err != nil {
		return err
	}
	x, err := e.resolveSource(args[1])
	if err != nil {
		return err
	}
	y, err := e.resolveSource(args[2])
	if err != nil {
		return err
	}
	eq, err := equalCompare(x, y)
	if err != nil {
		return err
	}
	if eq != wantEqual {
		return nil
	}
	idx, ok := e.prog.LookupLabel(lbl.Name)
	if !ok {
		return ipperr.Newf(ipperr.SemanticError, "jump to undefined label %q", lbl.Name)
	}
	e.ip = idx
	return nil
}

// execExit validates and reports the process exit code for an EXIT
// instruction: the operand must be Int in [0,49] (spec §4.5.3/§6).
func (e *Engine) execExit(args []program.Arg) (halt bool, code int, err error) {
	n, err := e.intOperand(args[0])
	if err != nil {
		return false, 0, err
	}
	if n < 0 || n > 49 {
		return false, 0, ipperr.New(ipperr.OperandValue)
	}
	return true, int(n), nil
}

// execBreak writes a diagnostic snapshot to Stderr: the instruction pointer,
// the Global frame's bindings, whether the Temporary frame exists (and its
// bindings if so), each frame on the Local frame stack (innermost last), and
// the number of instructions executed so far. The content mirrors the
// original interpreter's break_() dump, expressed as one line per section
// rather than a serialized dict.
func (e *Engine) execBreak() {
	fmt.Fprintf(e.Stderr, "-- BREAK at instruction %d (order %d), %d instruction(s) executed --\n", e.ip, e.prog.At(e.ip-1).Order, e.steps)
	fmt.Fprintf(e.Stderr, "GF: %s\n", formatFrame(e.frames.global.snapshot()))
	if e.frames.TemporaryExists() {
		fmt.Fprintf(e.Stderr, "TF: %s\n", formatFrame(e.frames.temp.snapshot()))
	} else {
		fmt.Fprintln(e.Stderr, "TF: absent")
	}
	locals := e.frames.LocalSnapshots()
	fmt.Fprintf(e.Stderr, "LF stack depth: %d\n", len(locals))
	for i, vars := range locals {
		fmt.Fprintf(e.Stderr, "LF[%d]: %s\n", i, formatFrame(vars))
	}
}

func formatFrame(vars map[string]value.Value) string {
	if len(vars) == 0 {
		return "(empty)"
	}
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		v := vars[name]
		if value.IsUninitialized(v) {
			fmt.Fprintf(&b, "%s=<uninitialized>", name)
		} else {
			fmt.Fprintf(&b, "%s=%s(%s)", name, v.Type(), v.String())
		}
	}
	return b.String()
}
