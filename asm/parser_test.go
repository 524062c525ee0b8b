package asm

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tis100/core/node"
)

func TestParseEdgeCases(t *testing.T) {
	t.Run("label then instruction", func(t *testing.T) {
		e, err := Parse("foo: NOP")
		require.NoError(t, err)
		require.Equal(t, 1, e.Len())
		assert.Equal(t, node.OpNop, e.InstructionAt(0).Op)
		idx, ok := e.LabelIndex("FOO")
		require.True(t, ok)
		assert.Equal(t, 0, idx)
	})

	t.Run("double colon label", func(t *testing.T) {
		e, err := Parse("foo:: NOP")
		require.NoError(t, err)
		_, ok := e.LabelIndex("FOO:")
		assert.True(t, ok)
	})

	t.Run("whitespace only instruction", func(t *testing.T) {
		e, err := Parse(" NOP ")
		require.NoError(t, err)
		require.Equal(t, 1, e.Len())
		assert.Empty(t, e.Labels)
	})

	t.Run("empty program", func(t *testing.T) {
		e, err := Parse("")
		require.NoError(t, err)
		assert.Equal(t, 0, e.Len())
		assert.Empty(t, e.Labels)
	})

	t.Run("sub wrong opcode for arity", func(t *testing.T) {
		_, err := Parse("SUB b c")
		kind, ok := Kind(err)
		require.True(t, ok)
		assert.Equal(t, BadOpcodeArity, kind)
	})

	t.Run("too many tokens", func(t *testing.T) {
		_, err := Parse("a b c d")
		kind, ok := Kind(err)
		require.True(t, ok)
		assert.Equal(t, WrongArgCount, kind)
	})

	t.Run("literal as mov destination", func(t *testing.T) {
		_, err := Parse("MOV UP 10")
		kind, ok := Kind(err)
		require.True(t, ok)
		assert.Equal(t, LiteralAsMovDest, kind)
	})

	t.Run("jump to undefined label", func(t *testing.T) {
		_, err := Parse("JMP NOWHERE\nNOP")
		kind, ok := Kind(err)
		require.True(t, ok)
		assert.Equal(t, UndefinedLabel, kind)
	})
}

func TestParseCaseInsensitive(t *testing.T) {
	lower := "top: mov 10 acc\nadd up\njmp top"
	upper := "TOP: MOV 10 ACC\nADD UP\nJMP TOP"

	eLower, err := Parse(lower)
	require.NoError(t, err)
	eUpper, err := Parse(upper)
	require.NoError(t, err)

	if diff := cmp.Diff(eUpper.Lines, eLower.Lines); diff != "" {
		t.Fatalf("case-insensitivity violated (-upper +lower):\n%s", diff)
	}
	if diff := cmp.Diff(eUpper.Labels, eLower.Labels); diff != "" {
		t.Fatalf("label maps differ (-upper +lower):\n%s", diff)
	}
}

func TestParseMovPortsAndAcc(t *testing.T) {
	e, err := Parse("MOV UP DOWN\nMOV DOWN ACC")
	require.NoError(t, err)
	require.Equal(t, 2, e.Len())

	i0 := e.InstructionAt(0)
	assert.Equal(t, node.OpMov, i0.Op)
	assert.Equal(t, node.PortOperand(node.Up), i0.Src)
	assert.Equal(t, node.PortOperand(node.Down), i0.Dst)

	i1 := e.InstructionAt(1)
	assert.Equal(t, node.PortOperand(node.Down), i1.Src)
	assert.Equal(t, node.Acc(), i1.Dst)
}

func TestParseLabelBindsToNextRealInstruction(t *testing.T) {
	e, err := Parse("TOP:\nNOP\nJMP TOP")
	require.NoError(t, err)
	idx, ok := e.LabelIndex("TOP")
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	e2, err := Parse("\nTOP:NOP\nJMP TOP")
	require.NoError(t, err)
	require.Equal(t, e.Len(), e2.Len())
	for i := range e.Lines {
		assert.Equal(t, e.Lines[i].Instruction, e2.Lines[i].Instruction)
	}
}

func TestParseDanglingLabelOnlyFailsWhenReferenced(t *testing.T) {
	_, err := Parse("NOP\nDEAD:")
	assert.NoError(t, err)

	_, err = Parse("NOP\nJMP DEAD\nDEAD:")
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, UndefinedLabel, kind)
}

func TestParseDuplicateLabel(t *testing.T) {
	_, err := Parse("A: NOP\nA: NOP")
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, DuplicateLabel, kind)
}

func TestParseAllOpcodes(t *testing.T) {
	src := "NOP\nSWP\nSAV\nNEG\nADD 1\nSUB ACC\nJRO -1\nL: JMP L\nJEZ L\nJNZ L\nJGZ L\nJLZ L\nMOV 1 ACC"
	e, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, 13, e.Len())
}

func TestParseInvalidOperand(t *testing.T) {
	_, err := Parse("ADD FOO")
	kind, ok := Kind(err)
	require.True(t, ok)
	assert.Equal(t, InvalidOperand, kind)
}

func TestExecutableStringDisassembles(t *testing.T) {
	e, err := Parse("TOP: NOP\nJMP TOP")
	require.NoError(t, err)
	assert.Contains(t, e.String(), "TOP:")
	assert.Contains(t, e.String(), "JMP TOP")
}
