package cpu

import "github.com/tis100/core/node"

// ModeKind tags which of the three execution phases a node is in.
type ModeKind int

const (
	ModeExec ModeKind = iota
	ModeRead
	ModeWrite
)

func (k ModeKind) String() string {
	switch k {
	case ModeExec:
		return "EXEC"
	case ModeRead:
		return "READ"
	case ModeWrite:
		return "WRITE"
	default:
		return "?unknown-mode?"
	}
}

// Mode is a node's execution mode: EXEC, or READ/WRITE parameterized by
// the port direction being waited on. Port is meaningless when Kind is
// ModeExec. For READ/WRITE it may be ANY — a node can be blocked probing
// all four neighbors at once just as easily as waiting on one of them.
type Mode struct {
	Kind ModeKind
	Port node.Direction
}

func (m Mode) String() string {
	if m.Kind == ModeExec {
		return m.Kind.String()
	}
	return m.Kind.String() + "(" + m.Port.String() + ")"
}

// State is the read-only view of a node's registers exposed to callers
// (a debugger, a grid driver's trace log, a front-end).
type State struct {
	Acc  int32
	Bak  int32
	Mode Mode
	Last node.Direction
}

// pendingWrite is the write queued by execute() and not yet deposited
// into the port fabric by commit(). Direction may be ANY (unresolved
// until a consumer's probe lands on one of the four slots) or a cardinal
// direction already resolved from a LAST operand.
type pendingWrite struct {
	dir   node.Direction
	value int32
}
