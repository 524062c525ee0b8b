package port

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/tis100/core/node"
)

// ErrWriteAlreadyPending signals an engine-invariant violation: a node
// attempted a second write before the first was consumed. The execution
// engine guarantees this never happens in practice (a node enters WRITE
// mode and refuses to execute further instructions until the pending
// write drains) — reaching it indicates engine corruption, so Bank.Write
// panics with it rather than returning an error a caller might paper
// over.
var ErrWriteAlreadyPending = errors.New("port: write already pending on this node")

// ReadPort is the non-owning, consumer-side view of a single producer
// slot: read-only, with a side-effecting drain on success.
type ReadPort interface {
	// Read returns the slot's value and true if it held one, clearing it;
	// otherwise returns (0, false) and leaves the slot untouched.
	Read() (int32, bool)
}

// Bank is the four write-side slots a single node owns, one per cardinal
// direction. It is produced by exactly one node; each of its four cells is
// consumed by exactly one neighbor through a ReadPort handle obtained via
// ReadPortFor.
type Bank struct {
	mu         sync.Mutex
	cells      [4]cell
	anyPending bool
	last       node.Direction
}

// NewBank returns an empty Bank with last defaulting to UP, the chosen
// answer for what LAST means before any successful operation has
// happened.
func NewBank() *Bank {
	return &Bank{last: node.Up}
}

func cardinalIndex(dir node.Direction) int {
	switch dir {
	case node.Up:
		return 0
	case node.Down:
		return 1
	case node.Left:
		return 2
	case node.Right:
		return 3
	default:
		panic("port: not a cardinal direction: " + dir.String())
	}
}

// Write deposits value. For a cardinal direction it fills that one cell.
// For ANY it fills all four cells simultaneously — the first consumer to
// read any one of them clears all four and records its direction as Last.
// Precondition: WriteFinished() is true; violating it panics with
// ErrWriteAlreadyPending.
//
// Locked so a grid driver may run one goroutine per node and still have
// concurrent neighbors drain this bank's slots safely during the same
// execute-phase barrier.
func (b *Bank) Write(dir node.Direction, value int32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.writeFinishedLocked() {
		panic(ErrWriteAlreadyPending)
	}

	if dir == node.Any {
		for i := range b.cells {
			b.cells[i].set(value)
		}
		b.anyPending = true
		return
	}

	b.cells[cardinalIndex(dir)].set(value)
}

// WriteFinished reports whether all four slots are empty.
func (b *Bank) WriteFinished() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writeFinishedLocked()
}

func (b *Bank) writeFinishedLocked() bool {
	for i := range b.cells {
		if b.cells[i].peekFull() {
			return false
		}
	}
	return true
}

// GetLast returns the direction of the most recent successful read from
// this bank, whether the write was cardinal or ANY; meaningful only after
// at least one such read — before that it returns the UP default.
func (b *Bank) GetLast() node.Direction {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// drain is called by the ReadPort handle for dir. It is the single place
// that understands the all-four-collapse-together behavior of an
// outstanding ANY write.
func (b *Bank) drain(dir node.Direction) (int32, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := cardinalIndex(dir)
	v, ok := b.cells[i].drain()
	if !ok {
		return 0, false
	}

	if b.anyPending {
		for j := range b.cells {
			b.cells[j] = cell{}
		}
		b.anyPending = false
	}
	b.last = dir
	return v, true
}

// readHandle is the ReadPort a consumer holds for one specific direction
// into a neighbor's Bank.
type readHandle struct {
	bank *Bank
	dir  node.Direction
}

func (h readHandle) Read() (int32, bool) {
	return h.bank.drain(h.dir)
}

// ReadPortFor returns a handle a neighbor can hold for the rest of the
// program's lifetime to observe (and drain) this bank's dir slot. Dir must
// be cardinal.
func (b *Bank) ReadPortFor(dir node.Direction) ReadPort {
	return readHandle{bank: b, dir: dir}
}

// Neighbors is the consumer side of the fabric: the four read handles a
// node holds into its orthogonal neighbors' banks. It deliberately has no
// notion of LAST of its own — LAST mixes read and write history into one
// CPU-level field, so resolving it belongs to the cpu package; Neighbors
// only ever sees a cardinal direction or ANY.
type Neighbors struct {
	ports [4]ReadPort
}

// NewNeighbors wires a node's four neighbor read handles. Any handle may
// be nil if that side of the grid has no neighbor (e.g. an edge node);
// reading from a nil handle behaves as an always-empty port.
func NewNeighbors(up, down, left, right ReadPort) *Neighbors {
	return &Neighbors{ports: [4]ReadPort{up, down, left, right}}
}

// ReadCardinal reads a single named direction. Neighbors keeps no LAST of
// its own; a successful read still records dir as the producer Bank's last.
func (n *Neighbors) ReadCardinal(dir node.Direction) (int32, bool) {
	p := n.ports[cardinalIndex(dir)]
	if p == nil {
		return 0, false
	}
	return p.Read()
}

// ReadAny probes UP, DOWN, LEFT, RIGHT in that fixed order and returns the
// value and direction of the first full slot. The probe order is part of
// the contract — test vectors depend on it.
func (n *Neighbors) ReadAny() (value int32, dir node.Direction, ok bool) {
	for _, d := range node.Cardinal {
		if v, ok := n.ReadCardinal(d); ok {
			return v, d, true
		}
	}
	return 0, 0, false
}
