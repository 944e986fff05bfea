package cell

import (
	"github.com/stretchr/testify/require"
	"github.com/tonkeeper/tongo/boc"
	"testing"
)

func TestAddChildLimits(t *testing.T) {
	root := NewCell()
	for i := 0; i < MaxCellRefs; i++ {
		require.NoError(t, root.AddChild(NewCell()))
	}
	require.ErrorIs(t, root.AddChild(NewCell()), ErrTooManyReferences)
	require.Equal(t, MaxCellRefs, root.RefsCount())
	require.Nil(t, root.Ref(MaxCellRefs))
}

func TestAddChildOwnership(t *testing.T) {
	a, b, c := NewCell(), NewCell(), NewCell()
	require.NoError(t, a.AddChild(b))
	require.NoError(t, b.AddChild(c))

	require.ErrorIs(t, c.AddChild(a), ErrCycle)
	require.ErrorIs(t, a.AddChild(a), ErrCycle)
	require.ErrorIs(t, NewCell().AddChild(c), ErrAlreadyAttached)
	require.Error(t, a.AddChild(nil))
	require.Equal(t, 2, a.Depth())
}

func TestSerializeMatchesTongo(t *testing.T) {
	root := NewCell()
	require.NoError(t, root.Bits().WriteUint64(0x595f07bc, 32))
	require.NoError(t, root.Bits().WriteUint64(5, 3))
	child := NewCell()
	require.NoError(t, child.Bits().WriteBytes([]byte("hello")))
	require.NoError(t, root.AddChild(child))

	ours, err := root.Serialize()
	require.NoError(t, err)

	expRoot := boc.NewCell()
	require.NoError(t, expRoot.WriteUint(0x595f07bc, 32))
	require.NoError(t, expRoot.WriteUint(5, 3))
	expChild := boc.NewCell()
	for _, x := range []byte("hello") {
		require.NoError(t, expChild.WriteUint(uint64(x), 8))
	}
	require.NoError(t, expRoot.AddRef(expChild))
	theirs, err := expRoot.ToBoc()
	require.NoError(t, err)
	require.Equal(t, theirs, ours)

	again, err := root.Serialize()
	require.NoError(t, err)
	require.Equal(t, ours, again)

	ourHash, err := root.Hash()
	require.NoError(t, err)
	theirHash, err := expRoot.Hash()
	require.NoError(t, err)
	require.Equal(t, theirHash, ourHash)
}

func TestSerializeFreezesTree(t *testing.T) {
	root := NewCell()
	child := NewCell()
	require.NoError(t, root.AddChild(child))
	_, err := root.Serialize()
	require.NoError(t, err)
	require.ErrorIs(t, root.Bits().WriteBit(true), ErrFrozen)
	require.ErrorIs(t, child.Bits().WriteBit(true), ErrFrozen)
	require.ErrorIs(t, root.AddChild(NewCell()), ErrFrozen)
}

func TestFromBocRoundTrip(t *testing.T) {
	root := NewCell()
	require.NoError(t, root.Bits().WriteUint64(0xdeadbeef, 32))
	require.NoError(t, root.Bits().WriteUint64(1, 1))
	next := NewCell()
	require.NoError(t, next.Bits().WriteBytes([]byte("tail")))
	require.NoError(t, root.AddChild(next))
	data, err := root.Serialize()
	require.NoError(t, err)

	decoded, err := FromBoc(data)
	require.NoError(t, err)
	require.Equal(t, root.Bits().Len(), decoded.Bits().Len())
	require.Equal(t, root.Bits().Bytes(), decoded.Bits().Bytes())
	require.Equal(t, 1, decoded.RefsCount())
	require.Equal(t, []byte("tail"), decoded.Ref(0).Bits().Bytes())

	b64, err := root.SerializeBase64()
	require.NoError(t, err)
	decoded, err = FromBocBase64(b64)
	require.NoError(t, err)
	require.Equal(t, root.Bits().String(), decoded.Bits().String())
}

func TestFromBocSharedCells(t *testing.T) {
	shared := boc.NewCell()
	require.NoError(t, shared.WriteUint(0xab, 8))
	root := boc.NewCell()
	require.NoError(t, root.AddRef(shared))
	require.NoError(t, root.AddRef(shared))
	data, err := root.ToBoc()
	require.NoError(t, err)

	decoded, err := FromBoc(data)
	require.NoError(t, err)
	require.Equal(t, 2, decoded.RefsCount())
	require.NotSame(t, decoded.Ref(0), decoded.Ref(1))
	require.Equal(t, []byte{0xab}, decoded.Ref(0).Bits().Bytes())
	require.Equal(t, []byte{0xab}, decoded.Ref(1).Bits().Bytes())
}

// sharedChain builds a bag where every cell references the next one twice.
func sharedChain(t *testing.T, depth int) []byte {
	c := boc.NewCell()
	require.NoError(t, c.WriteUint(1, 8))
	for i := 0; i < depth; i++ {
		next := boc.NewCell()
		require.NoError(t, next.WriteUint(uint64(i), 8))
		require.NoError(t, next.AddRef(c))
		require.NoError(t, next.AddRef(c))
		c = next
	}
	data, err := c.ToBoc()
	require.NoError(t, err)
	return data
}

func TestFromBocExpansionLimit(t *testing.T) {
	decoded, err := FromBoc(sharedChain(t, 10))
	require.NoError(t, err)
	require.Equal(t, 10, decoded.Depth())

	_, err = FromBoc(sharedChain(t, 20))
	require.ErrorIs(t, err, ErrTooManyCells)
}

func TestFromBocInvalid(t *testing.T) {
	_, err := FromBoc([]byte{1, 2, 3})
	require.Error(t, err)
	_, err = FromBocBase64("!!!")
	require.Error(t, err)
}
