package asm

import (
	"strings"

	"github.com/tis100/core/node"
)

// InstructionLine pairs a decoded instruction with the 0-based source line
// it originated from, so a UI can highlight the current line even when
// blank or label-only lines existed in source.
type InstructionLine struct {
	Instruction node.Instruction
	SourceLine  int
}

// Executable is an ordered sequence of InstructionLine plus a mapping from
// each distinct label that appeared in source to an instruction index.
// Immutable once returned by Parse.
type Executable struct {
	Lines  []InstructionLine
	Labels map[node.Label]int
}

// Len returns the number of instructions in the program.
func (e *Executable) Len() int {
	if e == nil {
		return 0
	}
	return len(e.Lines)
}

// InstructionAt returns the instruction at instruction-index pc.
func (e *Executable) InstructionAt(pc int) node.Instruction {
	return e.Lines[pc].Instruction
}

// SourceLineAt returns the 0-based source line the instruction at
// instruction-index pc came from.
func (e *Executable) SourceLineAt(pc int) int {
	return e.Lines[pc].SourceLine
}

// LabelIndex resolves a label to its instruction index. The bool is false
// only if label was never seen during parsing — Parse guarantees every J
// target resolves, so this should only fail for programmer-constructed
// Executables.
func (e *Executable) LabelIndex(label node.Label) (int, bool) {
	idx, ok := e.Labels[label]
	return idx, ok
}

// String disassembles the program back to text, one instruction per line,
// annotated with any label that resolves to it. Useful for debug dumps and
// round-trip tests; not guaranteed to reproduce the original source
// byte-for-byte (comments and blank-line layout are not preserved).
func (e *Executable) String() string {
	labelsByIndex := make(map[int][]node.Label, len(e.Labels))
	for label, idx := range e.Labels {
		labelsByIndex[idx] = append(labelsByIndex[idx], label)
	}

	var b strings.Builder
	for i, line := range e.Lines {
		for _, label := range labelsByIndex[i] {
			b.WriteString(label)
			b.WriteString(":\n")
		}
		b.WriteString(line.Instruction.String())
		if i != len(e.Lines)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
