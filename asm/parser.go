// Package asm parses TIS-100-style assembly source into an Executable: an
// ordered instruction list annotated with source lines, plus a label to
// instruction-index table.
package asm

import (
	"strings"

	"github.com/tis100/core/node"
)

// parsedLine is the per-source-line result of splitting + decoding, before
// label resolution runs as a second pass.
type parsedLine struct {
	label      string // "" if none
	hasLabel   bool
	insn       node.Instruction
	hasInsn    bool
	sourceLine int
}

// Parse transforms source text into an Executable, or returns a
// *ParseError (wrapped with a stack trace via github.com/pkg/errors)
// describing which rule failed.
//
// Lexical model: case-insensitive — the entire line is uppercased before
// matching, so labels, opcodes and operand keywords may be written in any
// case. Lines are newline-separated; each line is parsed independently.
func Parse(source string) (*Executable, error) {
	rawLines := strings.Split(source, "\n")
	parsed := make([]parsedLine, 0, len(rawLines))

	for i, raw := range rawLines {
		pl, err := parseLine(stripComment(strings.ToUpper(raw)), i)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, pl)
	}

	return resolveExecutable(parsed)
}

// parseLine decodes one already-uppercased, comment-stripped source line.
func parseLine(line string, sourceLine int) (parsedLine, error) {
	label, rest, hasLabel := splitLine(line)
	pl := parsedLine{label: label, hasLabel: hasLabel, sourceLine: sourceLine}

	if rest == "" {
		return pl, nil
	}

	insn, err := parseInstruction(rest, sourceLine)
	if err != nil {
		return parsedLine{}, err
	}
	pl.insn = insn
	pl.hasInsn = true
	return pl, nil
}

// parseInstruction decodes the instruction portion of a line (after any
// label has been stripped) per the opcode arity table.
func parseInstruction(text string, sourceLine int) (node.Instruction, error) {
	words := strings.Fields(text)

	switch len(words) {
	case 1:
		return parseArity0(words[0], sourceLine, text)
	case 2:
		return parseArity1(words[0], words[1], sourceLine, text)
	case 3:
		return parseArity2(words[0], words[1], words[2], sourceLine, text)
	default:
		return node.Instruction{}, newParseError(WrongArgCount, sourceLine, "%q", text)
	}
}

func parseArity0(opcode string, sourceLine int, text string) (node.Instruction, error) {
	switch opcode {
	case "NOP":
		return node.Instruction{Op: node.OpNop}, nil
	case "SWP":
		return node.Instruction{Op: node.OpSwp}, nil
	case "SAV":
		return node.Instruction{Op: node.OpSav}, nil
	case "NEG":
		return node.Instruction{Op: node.OpNeg}, nil
	default:
		return node.Instruction{}, newParseError(BadOpcodeArity, sourceLine, "%q", text)
	}
}

var jumpConditions = map[string]node.Condition{
	"JMP": node.Unconditional,
	"JEZ": node.Ez,
	"JNZ": node.Nz,
	"JGZ": node.Gz,
	"JLZ": node.Lz,
}

func parseArity1(opcode, arg string, sourceLine int, text string) (node.Instruction, error) {
	switch opcode {
	case "ADD":
		op, err := parseOperand(arg)
		if err != nil {
			return node.Instruction{}, newParseError(InvalidOperand, sourceLine, "%q", arg)
		}
		return node.Instruction{Op: node.OpAdd, Src: op}, nil
	case "SUB":
		op, err := parseOperand(arg)
		if err != nil {
			return node.Instruction{}, newParseError(InvalidOperand, sourceLine, "%q", arg)
		}
		return node.Instruction{Op: node.OpSub, Src: op}, nil
	case "JRO":
		op, err := parseOperand(arg)
		if err != nil {
			return node.Instruction{}, newParseError(InvalidOperand, sourceLine, "%q", arg)
		}
		return node.Instruction{Op: node.OpJro, Src: op}, nil
	default:
		if cond, ok := jumpConditions[opcode]; ok {
			return node.Instruction{Op: node.OpJ, Cond: cond, Label: arg}, nil
		}
		return node.Instruction{}, newParseError(BadOpcodeArity, sourceLine, "%q", text)
	}
}

func parseArity2(opcode, srcTok, dstTok string, sourceLine int, text string) (node.Instruction, error) {
	if opcode != "MOV" {
		return node.Instruction{}, newParseError(BadOpcodeArity, sourceLine, "%q", text)
	}

	src, err := parseOperand(srcTok)
	if err != nil {
		return node.Instruction{}, newParseError(InvalidOperand, sourceLine, "%q", srcTok)
	}
	dst, err := parseOperand(dstTok)
	if err != nil {
		return node.Instruction{}, newParseError(InvalidOperand, sourceLine, "%q", dstTok)
	}
	if dst.IsLiteral() {
		return node.Instruction{}, newParseError(LiteralAsMovDest, sourceLine, "%q", text)
	}
	return node.Instruction{Op: node.OpMov, Src: src, Dst: dst}, nil
}

// resolveExecutable runs the second pass: building the instruction list,
// binding labels to instruction indices, and verifying every J target
// resolves.
func resolveExecutable(parsed []parsedLine) (*Executable, error) {
	exe := &Executable{
		Lines:  make([]InstructionLine, 0, len(parsed)),
		Labels: make(map[node.Label]int),
	}

	labelSourceLine := make(map[node.Label]int)
	for _, pl := range parsed {
		if pl.hasInsn {
			exe.Lines = append(exe.Lines, InstructionLine{Instruction: pl.insn, SourceLine: pl.sourceLine})
		}
		if pl.hasLabel {
			if prev, seen := labelSourceLine[pl.label]; seen && prev != pl.sourceLine {
				return nil, newParseError(DuplicateLabel, pl.sourceLine, "%q already defined at line %d", pl.label, prev)
			}
			labelSourceLine[pl.label] = pl.sourceLine
		}
	}

	wrapped := make(map[node.Label]bool, len(labelSourceLine))
	for label, srcLine := range labelSourceLine {
		idx, ok := firstInstructionAtOrAfter(exe.Lines, srcLine)
		if ok {
			exe.Labels[label] = idx
			continue
		}
		// Dangling label with no following instruction anywhere in
		// source: bind via wrap-around to index 0 so the label map still
		// holds every label (even in a program with no instructions), but
		// remember the binding is a fallback so a later *reference* to it
		// still fails.
		exe.Labels[label] = 0
		wrapped[label] = true
	}

	for _, line := range exe.Lines {
		if line.Instruction.Op != node.OpJ {
			continue
		}
		idx, ok := exe.Labels[line.Instruction.Label]
		if !ok {
			return nil, newParseError(UndefinedLabel, -1, "%q", line.Instruction.Label)
		}
		if wrapped[line.Instruction.Label] {
			return nil, newParseError(UndefinedLabel, -1, "%q has no instruction following it in source", line.Instruction.Label)
		}
		_ = idx
	}

	return exe, nil
}

// firstInstructionAtOrAfter returns the index, within lines, of the first
// entry whose SourceLine is >= srcLine.
func firstInstructionAtOrAfter(lines []InstructionLine, srcLine int) (int, bool) {
	for i, l := range lines {
		if l.SourceLine >= srcLine {
			return i, true
		}
	}
	return 0, false
}
