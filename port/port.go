// Package port implements the one-slot mailboxes a node's four cardinal
// write-side slots are built from, plus the ANY broadcast/collapse
// semantics shared by the producer and consumer sides.
//
// Ownership is strictly producer-side: a slot is created and mutated by
// its producing node; the neighbor consumer is handed a non-owning
// ReadPort that may only observe and drain it. This mirrors a hardware
// device model where a device owns its own state and callers interact
// through a narrow interface rather than reaching in directly.
package port

// cell is a single optional integer: a one-slot mailbox. full tracks
// occupancy explicitly rather than using a sentinel value, since any
// int32 (including 0) is a legal payload.
type cell struct {
	value int32
	full  bool
}

func (c *cell) set(v int32) {
	c.value, c.full = v, true
}

// drain empties the cell and returns what it held, if anything.
func (c *cell) drain() (int32, bool) {
	if !c.full {
		return 0, false
	}
	v := c.value
	c.value, c.full = 0, false
	return v, true
}

func (c *cell) peekFull() bool { return c.full }
