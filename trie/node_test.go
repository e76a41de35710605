package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeafEncodeDecodeRoundTrip(t *testing.T) {
	n := &shortNode{Key: hexToCompact([]byte{1, 2, 3, 16}), Val: valueNode("hello")}
	blob := nodeToBytes(n)

	decoded, err := decodeNode(nil, blob)
	require.NoError(t, err)

	sn, ok := decoded.(*shortNode)
	require.True(t, ok)
	require.True(t, hasTerm(sn.Key))
	require.Equal(t, valueNode("hello"), sn.Val)
}

func TestBranchWithEmbeddedLeafEncodeDecodeRoundTrip(t *testing.T) {
	leaf := &shortNode{Key: hexToCompact([]byte{4, 5, 16}), Val: valueNode("leafval")}
	full := &fullNode{}
	full.Children[3] = leaf

	blob := nodeToBytes(full)
	decoded, err := decodeNode(nil, blob)
	require.NoError(t, err)

	fn, ok := decoded.(*fullNode)
	require.True(t, ok)
	require.NotNil(t, fn.Children[3])
}

func TestHashDataIsDeterministic(t *testing.T) {
	h := newHasher()
	defer returnHasherToPool(h)

	a := h.hashData([]byte("same input"))
	b := h.hashData([]byte("same input"))
	require.Equal(t, a, b)

	c := h.hashData([]byte("different input"))
	require.NotEqual(t, a, c)
}

func TestDecodeNodeRejectsMalformedList(t *testing.T) {
	// An RLP list of three short strings (0xc3 'a' 'b' 'c') is neither a
	// 2-element short node nor a 17-element full node, and must surface
	// as corruption rather than a missing-node condition.
	_, err := decodeNode(nil, []byte{0xc3, 'a', 'b', 'c'})
	require.Error(t, err)
	require.True(t, IsCorruption(err))
}
