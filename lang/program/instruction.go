package program

// Instruction is one decoded IPPcode23 operation: an opcode mnemonic plus its
// 0-3 arguments, already reordered to positional (arg1, arg2, arg3) order by
// the loader regardless of which of the two XML tag conventions produced
// them.
//
// OpName is kept as the raw, upper-cased mnemonic text rather than resolved
// to an Opcode constant at load time: spec §4.5.1 makes "opcode recognized"
// a dispatch-time (execution-time) check, not a loader concern, so an
// instruction naming an opcode outside the closed set loads successfully and
// only faults if the engine ever reaches it.
type Instruction struct {
	// Order is the source document's order attribute. It determines load-time
	// sequencing only; once the Program is built, control flow (JUMP, CALL,
	// fallthrough) always addresses instructions by their Program index, never
	// by Order.
	Order  int
	OpName string
	Args   []Arg
}
