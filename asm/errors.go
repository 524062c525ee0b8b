package asm

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind discriminates the parse failure categories. Callers should
// switch on Kind rather than match error strings.
type ErrorKind int

const (
	// BadOpcodeArity: the opcode token is not valid for the number of
	// operands present on the line.
	BadOpcodeArity ErrorKind = iota
	// WrongArgCount: the line has a number of whitespace-separated
	// tokens that no instruction shape accepts (not 1, 2, or 3 words).
	WrongArgCount
	// InvalidOperand: an operand token parses as neither ACC, a port
	// direction, nor a signed decimal integer.
	InvalidOperand
	// LiteralAsMovDest: MOV's second operand evaluated to a literal.
	LiteralAsMovDest
	// UndefinedLabel: a J instruction names a label with no resolvable
	// binding — either never declared, or declared but with no
	// instruction following it anywhere in source (a dangling label).
	UndefinedLabel
	// UnparsedLine: defensive fallback for a line that matches no
	// grammar shape at all. The grammar in this package is permissive
	// enough (every line is either blank, label-only, or carries an
	// instruction) that this should be unreachable in practice.
	UnparsedLine
	// DuplicateLabel: the same case-folded label is defined on two
	// different source lines.
	DuplicateLabel
)

func (k ErrorKind) String() string {
	switch k {
	case BadOpcodeArity:
		return "bad-opcode-for-arity"
	case WrongArgCount:
		return "wrong-number-of-arguments"
	case InvalidOperand:
		return "invalid-operand"
	case LiteralAsMovDest:
		return "literal-as-mov-destination"
	case UndefinedLabel:
		return "jump-to-undefined-label"
	case UnparsedLine:
		return "unparsed-line"
	case DuplicateLabel:
		return "duplicate-label"
	default:
		return "?unknown-parse-error?"
	}
}

// ParseError reports which rule failed and the 0-based source line it
// failed on. Line is -1 for errors detected only after a full pass over
// the program (dangling/undefined label checks).
type ParseError struct {
	Kind ErrorKind
	Line int
	Text string
}

func (e *ParseError) Error() string {
	if e.Line >= 0 {
		return fmt.Sprintf("%s at line %d: %s", e.Kind, e.Line, e.Text)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Text)
}

func newParseError(kind ErrorKind, line int, format string, args ...any) error {
	return errors.WithStack(&ParseError{Kind: kind, Line: line, Text: fmt.Sprintf(format, args...)})
}

// Kind extracts the ErrorKind from err if it is (or wraps) a *ParseError.
func Kind(err error) (ErrorKind, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind, true
	}
	return 0, false
}
