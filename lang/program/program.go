// Package program holds the decoded, executable form of an IPPcode23
// document: the Instruction sequence and the Opcode/Arg vocabulary it is
// built from. It plays the role compiler.Program plays for nenuphar's
// bytecode-compiled language, minus the actual bytecode: IPPcode23 has no
// compilation step, so a Program is simply the XML loader's output, indexed
// and label-resolved once so the machine package never has to re-scan it.
package program

import "github.com/mna/ippcode23/lang/ipperr"

// Program is an ordered, indexable sequence of Instructions plus the label
// name → instruction index map used by CALL, JUMP, JUMPIFEQ and JUMPIFNEQ.
type Program struct {
	instructions []Instruction
	labels       map[string]int
}

// New builds a Program from instructions, which must already be sorted in
// ascending Order (the loader guarantees this). It scans for LABEL
// instructions to build the label map; a duplicate label name is a
// SemanticError (spec §4.2, §8 property 8/S8), as is a LABEL instruction
// whose single argument is not a Label.
func New(instructions []Instruction) (*Program, error) {
	labels := make(map[string]int, len(instructions))
	for i, instr := range instructions {
		if instr.OpName != "LABEL" {
			continue
		}
		if len(instr.Args) != 1 {
			return nil, ipperr.Newf(ipperr.SemanticError, "LABEL at order %d: expected exactly one argument", instr.Order)
		}
		lbl, ok := instr.Args[0].(Label)
		if !ok {
			return nil, ipperr.Newf(ipperr.SemanticError, "LABEL at order %d: argument is not a label", instr.Order)
		}
		if _, dup := labels[lbl.Name]; dup {
			return nil, ipperr.Newf(ipperr.SemanticError, "duplicate label %q", lbl.Name)
		}
		labels[lbl.Name] = i
	}

	return &Program{instructions: instructions, labels: labels}, nil
}

// Len returns the number of instructions in the program.
func (p *Program) Len() int { return len(p.instructions) }

// At returns the instruction at index i, which must satisfy 0 <= i < Len().
func (p *Program) At(i int) Instruction { return p.instructions[i] }

// Instructions returns the raw, ordered instruction list for inspection.
func (p *Program) Instructions() []Instruction { return p.instructions }

// LookupLabel resolves a label name to its instruction index.
func (p *Program) LookupLabel(name string) (int, bool) {
	idx, ok := p.labels[name]
	return idx, ok
}
