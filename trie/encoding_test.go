package trie

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Published compact-encoding vectors: [nibbles] with leaf/extension parity
// combinations, each with its expected compact-encoded bytes.
func TestHexToCompactVectors(t *testing.T) {
	cases := []struct {
		name string
		hex  []byte
		want []byte
	}{
		{"extension odd", []byte{1, 2, 3, 4, 5}, []byte{0x11, 0x23, 0x45}},
		{"extension even", []byte{0, 1, 2, 3, 4, 5}, []byte{0x00, 0x01, 0x23, 0x45}},
		{"leaf even", []byte{0, 0xf, 1, 0xc, 0xb, 8, 16}, []byte{0x20, 0x0f, 0x1c, 0xb8}},
		{"leaf odd", []byte{0xf, 1, 0xc, 0xb, 8, 16}, []byte{0x3f, 0x1c, 0xb8}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.Equal(t, c.want, hexToCompact(c.hex))
			require.Equal(t, c.hex, compactToHex(c.want))
		})
	}
}

func TestKeybytesRoundTrip(t *testing.T) {
	key := []byte{0xde, 0xad, 0xbe, 0xef}
	hex := keybytesToHex(key)
	require.True(t, hasTerm(hex))
	require.Equal(t, key, hexToKeybytes(hex))
}

func TestPrefixLen(t *testing.T) {
	require.Equal(t, 3, prefixLen([]byte{1, 2, 3, 4}, []byte{1, 2, 3, 9}))
	require.Equal(t, 0, prefixLen([]byte{1}, []byte{2}))
	require.Equal(t, 2, prefixLen([]byte{1, 2}, []byte{1, 2, 3}))
}

func TestPrefixConcatAllocatesFreshSlice(t *testing.T) {
	a := []byte{1, 2}
	got := prefixConcat(a, 3, 4)
	require.Equal(t, []byte{1, 2, 3, 4}, got)
	// Mutating the result must not alias a's backing array.
	got[0] = 0xff
	require.Equal(t, byte(1), a[0])
}
