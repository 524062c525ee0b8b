package asm

import (
	"strconv"
	"strings"

	"github.com/tis100/core/node"
)

// splitLine separates a single already-uppercased, comment-stripped source
// line into an optional label and the remaining instruction text.
//
// Grammar: [LABEL ":"] [INSN [OPERANDS...]], either part may be absent. The
// label is carved out of the leading whitespace-delimited run by its last
// colon, not by requiring that whitespace follow the colon — so "TOP:NOP"
// splits into label "TOP" and insn "NOP" with no space required, and
// "FOO:: NOP" yields label "FOO:" (the final colon is the delimiter, an
// earlier one stays part of the label). A colon as the very first
// character never starts a label, since a label token must be non-empty.
func splitLine(line string) (label string, rest string, hasLabel bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", "", false
	}

	firstSpace := strings.IndexAny(trimmed, " \t")
	var run, remainder string
	if firstSpace < 0 {
		run, remainder = trimmed, ""
	} else {
		run, remainder = trimmed[:firstSpace], strings.TrimSpace(trimmed[firstSpace:])
	}

	if colon := strings.LastIndex(run, ":"); colon >= 1 {
		rest = strings.TrimSpace(run[colon+1:] + " " + remainder)
		return run[:colon], rest, true
	}
	return "", trimmed, false
}

// stripComment removes a trailing "# ..." comment, if any. Comments are an
// optional convenience layered on top of the core grammar, not part of it.
func stripComment(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// parseOperand resolves a single uppercased token to an Operand: ACC, a
// port/meta direction, or a signed decimal integer.
func parseOperand(tok string) (node.Operand, error) {
	if tok == "ACC" {
		return node.Acc(), nil
	}
	if dir, ok := node.ParseDirection(tok); ok {
		return node.PortOperand(dir), nil
	}
	v, err := strconv.ParseInt(tok, 10, 32)
	if err != nil {
		return node.Operand{}, err
	}
	return node.Lit(int32(v)), nil
}
