// Package cpu is the per-node execution engine: a state machine that
// advances one instruction per two-phase tick (Execute, then Commit),
// with blocking reads, blocking writes, and ANY/LAST port selection.
//
// The split tick exists so a grid driver can call Execute on every node
// and only then Commit on every node, making the grid's behavior
// independent of the order nodes are visited within a tick: a write
// committed this tick is never visible to a read until the next tick's
// Execute.
package cpu

import (
	"github.com/pkg/errors"

	"github.com/tis100/core/asm"
	"github.com/tis100/core/node"
	"github.com/tis100/core/port"
)

// ErrUncommittedWrite signals an engine-invariant violation: Execute was
// called again while a write queued by a previous Execute has not yet
// been committed. The grid driver is responsible for always pairing one
// Commit with every Execute; reaching this indicates a caller broke that
// contract, not a user-visible runtime error.
var ErrUncommittedWrite = errors.New("cpu: execute called with an uncommitted pending write")

// ErrCorruptInstruction signals an engine-invariant violation: the
// Executable driving this Cpu holds a shape the parser should have
// rejected (a literal as a MOV destination, an operand with no
// recognized kind). Parsing guarantees this cannot happen for any
// Executable produced by asm.Parse; reaching it means the caller
// constructed one by hand and it does not honor the parser's invariants.
var ErrCorruptInstruction = errors.New("cpu: executable violates instruction shape invariants")

// Cpu is one node's execution engine: an Executable it steps through, a
// Bank of its own outgoing write slots, and a Neighbors handle into its
// four orthogonal neighbors' banks.
type Cpu struct {
	exe       *asm.Executable
	bank      *port.Bank
	neighbors *port.Neighbors

	acc, bak int32
	pc       int
	mode     Mode
	last     node.Direction
	pending  *pendingWrite
	running  bool
}

// New constructs a Cpu at its reset state: acc = bak = 0, pc = 0, mode =
// EXEC, last = UP. bank is where this node's outgoing writes land;
// neighbors is where it reads incoming values from. Either may hold nil
// handles on an edge of the grid with no neighbor in that direction.
func New(exe *asm.Executable, bank *port.Bank, neighbors *port.Neighbors) *Cpu {
	return &Cpu{
		exe:       exe,
		bank:      bank,
		neighbors: neighbors,
		mode:      Mode{Kind: ModeExec},
		last:      node.Up,
		running:   exe.Len() > 0,
	}
}

// Execute runs the fetch/evaluate phase of one tick. It returns false iff
// the Executable is empty (nothing to run, ever); otherwise it returns
// true whether or not this tick made progress.
//
// If the node is in WRITE mode (an earlier tick's write has not yet been
// drained by a neighbor), Execute does nothing. Otherwise it fetches the
// instruction at pc and attempts it: a blocked port read sets mode to
// READ(p) and leaves pc untouched so the next Execute retries the same
// instruction; a port-directed write queues a pending write for Commit
// to deposit; anything else updates registers and pc directly.
func (c *Cpu) Execute() bool {
	if !c.running {
		return false
	}
	if c.pending != nil {
		panic(ErrUncommittedWrite)
	}
	if c.mode.Kind == ModeWrite {
		return true
	}

	insn := c.exe.InstructionAt(c.pc)
	switch insn.Op {
	case node.OpNop:
		c.advance(1)
	case node.OpSwp:
		c.acc, c.bak = c.bak, c.acc
		c.advance(1)
	case node.OpSav:
		c.bak = c.acc
		c.advance(1)
	case node.OpNeg:
		c.acc = -c.acc
		c.advance(1)
	case node.OpAdd:
		v, ok := c.evalOperand(insn.Src)
		if !ok {
			return true
		}
		c.acc += v
		c.advance(1)
	case node.OpSub:
		v, ok := c.evalOperand(insn.Src)
		if !ok {
			return true
		}
		c.acc -= v
		c.advance(1)
	case node.OpJro:
		v, ok := c.evalOperand(insn.Src)
		if !ok {
			return true
		}
		c.pc = wrapIndex(c.pc+int(v), c.exe.Len())
	case node.OpJ:
		c.executeJump(insn)
	case node.OpMov:
		c.executeMov(insn)
	default:
		panic(ErrCorruptInstruction)
	}

	return true
}

func (c *Cpu) executeJump(insn node.Instruction) {
	if insn.Cond.Holds(c.acc) {
		idx, ok := c.exe.LabelIndex(insn.Label)
		if !ok {
			panic(ErrCorruptInstruction)
		}
		c.pc = idx
		return
	}
	c.advance(1)
}

func (c *Cpu) executeMov(insn node.Instruction) {
	v, ok := c.evalOperand(insn.Src)
	if !ok {
		return
	}

	switch insn.Dst.Kind {
	case node.OperandAcc:
		c.acc = v
		c.advance(1)
	case node.OperandPort:
		dir := c.resolveDirection(insn.Dst.Port)
		c.pending = &pendingWrite{dir: dir, value: v}
	default:
		panic(ErrCorruptInstruction)
	}
}

// evalOperand evaluates op against the current register state and port
// fabric. For a port operand it resolves LAST against the node's
// remembered direction, then reads (draining the slot on success);
// reading ANY updates last to whichever cardinal direction answered.
func (c *Cpu) evalOperand(op node.Operand) (int32, bool) {
	switch op.Kind {
	case node.OperandLiteral:
		return op.Literal, true
	case node.OperandAcc:
		return c.acc, true
	case node.OperandPort:
		return c.readPort(c.resolveDirection(op.Port))
	default:
		panic(ErrCorruptInstruction)
	}
}

func (c *Cpu) readPort(dir node.Direction) (int32, bool) {
	if dir == node.Any {
		v, resolved, ok := c.neighbors.ReadAny()
		if !ok {
			c.mode = Mode{Kind: ModeRead, Port: node.Any}
			return 0, false
		}
		c.last = resolved
		c.mode = Mode{Kind: ModeExec}
		return v, true
	}

	v, ok := c.neighbors.ReadCardinal(dir)
	if !ok {
		c.mode = Mode{Kind: ModeRead, Port: dir}
		return 0, false
	}
	c.mode = Mode{Kind: ModeExec}
	return v, true
}

// resolveDirection substitutes LAST with the node's remembered direction;
// every other direction (including ANY) passes through unchanged.
func (c *Cpu) resolveDirection(dir node.Direction) node.Direction {
	if dir == node.Last {
		return c.last
	}
	return dir
}

// Commit runs the deposit/advance phase of one tick. A pending write from
// this tick's Execute is deposited into the fabric and the node enters
// WRITE mode; an outstanding WRITE from an earlier tick that has now been
// drained returns the node to EXEC and advances pc.
func (c *Cpu) Commit() {
	if c.pending != nil {
		pw := c.pending
		c.pending = nil
		c.bank.Write(pw.dir, pw.value)
		c.mode = Mode{Kind: ModeWrite, Port: pw.dir}
		return
	}

	if c.mode.Kind != ModeWrite {
		return
	}
	if !c.bank.WriteFinished() {
		return
	}
	if c.mode.Port == node.Any {
		c.last = c.bank.GetLast()
	}
	c.mode = Mode{Kind: ModeExec}
	c.advance(1)
}

// advance moves pc forward by delta instructions, wrapping to stay within
// [0, len).
func (c *Cpu) advance(delta int) {
	c.pc = wrapIndex(c.pc+delta, c.exe.Len())
}

func wrapIndex(i, n int) int {
	if n == 0 {
		return 0
	}
	m := i % n
	if m < 0 {
		m += n
	}
	return m
}

// CurrentLine returns the 0-based source line of the instruction at pc,
// for UI highlighting. Returns 0 on an empty Executable.
func (c *Cpu) CurrentLine() uint32 {
	if c.exe.Len() == 0 {
		return 0
	}
	return uint32(c.exe.SourceLineAt(c.pc))
}

// State returns a read-only snapshot of the node's registers.
func (c *Cpu) State() State {
	return State{Acc: c.acc, Bak: c.bak, Mode: c.mode, Last: c.last}
}
