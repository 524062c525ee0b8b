package port

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tis100/core/node"
)

func TestBankCardinalWriteRead(t *testing.T) {
	b := NewBank()
	assert.True(t, b.WriteFinished())

	b.Write(node.Down, 10)
	assert.False(t, b.WriteFinished())

	rp := b.ReadPortFor(node.Down)
	v, ok := rp.Read()
	require.True(t, ok)
	assert.Equal(t, int32(10), v)
	assert.True(t, b.WriteFinished())

	_, ok = rp.Read()
	assert.False(t, ok, "slot should be empty after drain")
}

func TestBankWriteAlreadyPendingPanics(t *testing.T) {
	b := NewBank()
	b.Write(node.Up, 1)
	assert.PanicsWithValue(t, ErrWriteAlreadyPending, func() {
		b.Write(node.Down, 2)
	})
}

func TestBankAnyWriteCollapsesOnFirstRead(t *testing.T) {
	b := NewBank()
	b.Write(node.Any, 99)

	right := b.ReadPortFor(node.Right)
	v, ok := right.Read()
	require.True(t, ok)
	assert.Equal(t, int32(99), v)
	assert.Equal(t, node.Right, b.GetLast())
	assert.True(t, b.WriteFinished(), "reading one sibling drains all four")

	up := b.ReadPortFor(node.Up)
	_, ok = up.Read()
	assert.False(t, ok)
}

// TestAnySequence checks that four ANY writes each land on a distinct
// neighbor in probe order UP, DOWN, LEFT, RIGHT, then a write to the
// bank's own last-drained direction lands on RIGHT.
func TestAnySequence(t *testing.T) {
	b := NewBank()
	up, down, left, right := b.ReadPortFor(node.Up), b.ReadPortFor(node.Down), b.ReadPortFor(node.Left), b.ReadPortFor(node.Right)

	b.Write(node.Any, 10)
	v, ok := up.Read()
	require.True(t, ok)
	assert.Equal(t, int32(10), v)

	b.Write(node.Any, 20)
	v, ok = down.Read()
	require.True(t, ok)
	assert.Equal(t, int32(20), v)

	b.Write(node.Any, 30)
	v, ok = left.Read()
	require.True(t, ok)
	assert.Equal(t, int32(30), v)

	b.Write(node.Any, 40)
	v, ok = right.Read()
	require.True(t, ok)
	assert.Equal(t, int32(40), v)
	assert.Equal(t, node.Right, b.GetLast())

	b.Write(b.GetLast(), 50)
	v, ok = right.Read()
	require.True(t, ok)
	assert.Equal(t, int32(50), v)
}

func TestNeighborsAnyProbeOrder(t *testing.T) {
	upBank, downBank, leftBank, rightBank := NewBank(), NewBank(), NewBank(), NewBank()
	n := NewNeighbors(upBank.ReadPortFor(node.Up), downBank.ReadPortFor(node.Down), leftBank.ReadPortFor(node.Left), rightBank.ReadPortFor(node.Right))

	// Nothing available yet.
	_, _, ok := n.ReadAny()
	assert.False(t, ok)

	// Fill DOWN and LEFT; ANY should still prefer DOWN (first in probe
	// order among the full ones) since UP is empty.
	downBank.Write(node.Down, 2)
	leftBank.Write(node.Left, 3)

	v, d, ok := n.ReadAny()
	require.True(t, ok)
	assert.Equal(t, int32(2), v)
	assert.Equal(t, node.Down, d)

	v, d, ok = n.ReadAny()
	require.True(t, ok)
	assert.Equal(t, int32(3), v)
	assert.Equal(t, node.Left, d)
}

func TestNeighborsCardinalReadIgnoresOtherDirections(t *testing.T) {
	downBank, leftBank := NewBank(), NewBank()
	n := NewNeighbors(nil, downBank.ReadPortFor(node.Down), leftBank.ReadPortFor(node.Left), nil)

	downBank.Write(node.Down, 1)
	leftBank.Write(node.Left, 7)

	v, ok := n.ReadCardinal(node.Left)
	require.True(t, ok)
	assert.Equal(t, int32(7), v)

	v, ok = n.ReadCardinal(node.Down)
	require.True(t, ok)
	assert.Equal(t, int32(1), v)
}

func TestNeighborsNilHandleReadsEmpty(t *testing.T) {
	n := NewNeighbors(nil, nil, nil, nil)
	_, ok := n.ReadCardinal(node.Up)
	assert.False(t, ok)
}
