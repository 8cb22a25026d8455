// Package machine implements the Engine component from spec §4.5: the
// fetch/decode/execute loop that walks a *program.Program, the FrameStore
// backing the three variable containers from spec §3, and the Data and Call
// stacks from spec §4.3.
package machine

import (
	"bufio"
	"io"
	"os"

	"github.com/mna/ippcode23/lang/ipperr"
	"github.com/mna/ippcode23/lang/program"
	"github.com/mna/ippcode23/lang/value"
)

// State is the Engine's run state.
type State int

const (
	Ready State = iota
	Running
	Halted
)

func (s State) String() string {
	switch s {
	case Ready:
		return "ready"
	case Running:
		return "running"
	case Halted:
		return "halted"
	default:
		return "invalid"
	}
}

// Engine executes a *program.Program to completion. Its IO ports are plain
// io.Reader/io.Writer fields, not a context.Context, since spec §5 excludes
// cancellation from this interpreter's scope; the CLI layer above it is
// still free to use its own signal handling for the process as a whole.
type Engine struct {
	prog   *program.Program
	frames *FrameStore
	data   stack[value.Value]
	calls  stack[int]

	ip    int
	steps uint64
	state State

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	stdin *bufio.Reader
}

// New builds an Engine ready to run prog, with Stdin/Stdout/Stderr defaulted
// to the process's own standard streams. Callers running under a test
// harness or a CLI that redirects IO should overwrite these fields before
// calling Run.
func New(prog *program.Program) *Engine {
	return &Engine{
		prog:   prog,
		frames: NewFrameStore(),
		state:  Ready,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// State reports the Engine's current run state.
func (e *Engine) State() State { return e.state }

// Run executes instructions from the start of the program until one of:
// the instruction sequence is exhausted (exit code 0), an EXIT instruction
// sets a terminal code, or a fault is raised. The returned error is nil in
// both of the first two cases; CodeOf(err) extracts the process exit code
// from the ipperr.Error it wraps.
//
// The instruction pointer is advanced past the fetched instruction before
// that instruction executes (spec §4.5), so CALL captures the correct
// return address and JUMP/JUMPIFEQ/JUMPIFNEQ/CALL/RETURN are free to
// overwrite it afterward without any special-casing of "the next ip".
func (e *Engine) Run() (int, error) {
	e.state = Running
	for e.ip < e.prog.Len() {
		instr := e.prog.At(e.ip)
		e.ip++
		e.steps++

		halt, code, err := e.step(instr)
		if err != nil {
			e.state = Halted
			return ipperr.CodeOf(err), err
		}
		if halt {
			e.state = Halted
			return code, nil
		}
	}
	e.state = Halted
	return 0, nil
}

// step dispatches and executes a single instruction (spec §4.5.1): it
// resolves the raw opcode mnemonic, checks declared arity, and calls the
// matching handler. halt is true only for EXIT.
func (e *Engine) step(instr program.Instruction) (halt bool, code int, err error) {
	op, ok := program.ParseOpcode(instr.OpName)
	if !ok {
		return false, 0, ipperr.Newf(ipperr.SemanticError, "unknown opcode %q at order %d", instr.OpName, instr.Order)
	}
	if len(instr.Args) != op.Arity() {
		return false, 0, ipperr.Newf(ipperr.SemanticError, "%s at order %d: expected %d argument(s), got %d", op, instr.Order, op.Arity(), len(instr.Args))
	}

	switch op {
	case program.LABEL:
		return false, 0, nil // resolved once, up front, by program.New
	case program.MOVE:
		return false, 0, e.execMove(instr.Args)
	case program.CREATEFRAME:
		e.frames.CreateTemporary()
		return false, 0, nil
	case program.PUSHFRAME:
		return false, 0, e.frames.PushTemporaryAsLocal()
	case program.POPFRAME:
		return false, 0, e.frames.PopLocalToTemporary()
	case program.DEFVAR:
		return false, 0, e.execDefvar(instr.Args)
	case program.CALL:
		return false, 0, e.execCall(instr.Args)
	case program.RETURN:
		return false, 0, e.execReturn()
	case program.PUSHS:
		return false, 0, e.execPushs(instr.Args)
	case program.POPS:
		return false, 0, e.execPops(instr.Args)
	case program.ADD, program.SUB, program.MUL, program.IDIV:
		return false, 0, e.execArith(op, instr.Args)
	case program.LT, program.GT, program.EQ:
		return false, 0, e.execRelational(op, instr.Args)
	case program.AND, program.OR:
		return false, 0, e.execLogical(op, instr.Args)
	case program.NOT:
		return false, 0, e.execNot(instr.Args)
	case program.INT2CHAR:
		return false, 0, e.execInt2Char(instr.Args)
	case program.STRI2INT:
		return false, 0, e.execStri2Int(instr.Args)
	case program.READ:
		return false, 0, e.execRead(instr.Args)
	case program.WRITE:
		return false, 0, e.execWrite(instr.Args)
	case program.CONCAT:
		return false, 0, e.execConcat(instr.Args)
	case program.STRLEN:
		return false, 0, e.execStrlen(instr.Args)
	case program.GETCHAR:
		return false, 0, e.execGetchar(instr.Args)
	case program.SETCHAR:
		return false, 0, e.execSetchar(instr.Args)
	case program.TYPE:
		return false, 0, e.execType(instr.Args)
	case program.JUMP:
		return false, 0, e.execJump(instr.Args)
	case program.JUMPIFEQ:
		return false, 0, e.execJumpIf(instr.Args, true)
	case program.JUMPIFNEQ:
		return false, 0, e.execJumpIf(instr.Args, false)
	case program.EXIT:
		return e.execExit(instr.Args)
	case program.DPRINT:
		return false, 0, e.execDprint(instr.Args)
	case program.BREAK:
		e.execBreak()
		return false, 0, nil
	default:
		return false, 0, ipperr.Newf(ipperr.InternalInvariant, "opcode %s has no handler", op)
	}
}
