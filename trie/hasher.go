package trie

import (
	"sync"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"golang.org/x/crypto/sha3"
)

// hasher computes node hashes: hash(node) = Keccak256(encode(node)).
// It carries its own scratch buffer and Keccak state so repeated hashing
// during a single Commit doesn't reallocate. The trie is single-threaded,
// so hasher carries no concurrency of its own; the pool exists purely to
// amortize allocation across separate Commit calls.
type hasher struct {
	sha    crypto.KeccakState
	tmp    []byte
	encbuf rlp.EncoderBuffer
}

var hasherPool = sync.Pool{
	New: func() any {
		return &hasher{
			tmp:    make([]byte, 0, 550), // as large as a full fullNode's encoding
			sha:    sha3.NewLegacyKeccak256().(crypto.KeccakState),
			encbuf: rlp.NewEncoderBuffer(nil),
		}
	},
}

func newHasher() *hasher {
	return hasherPool.Get().(*hasher)
}

func returnHasherToPool(h *hasher) {
	hasherPool.Put(h)
}

// hash collapses n into a hashNode (or leaves it embedded if its encoding
// is under 32 bytes and force is false), returning both the collapsed form
// and a copy of n with its computed hash cached for reuse by Commit.
func (h *hasher) hash(n node, force bool) (hashed node, cached node) {
	if hash, _ := n.cache(); hash != nil {
		return hash, n
	}
	switch n := n.(type) {
	case *shortNode:
		collapsed, cached := h.hashShortNodeChildren(n)
		hashed := h.shortnodeToHash(collapsed, force)
		if hn, ok := hashed.(hashNode); ok {
			cached.flags.hash = hn
		} else {
			cached.flags.hash = nil
		}
		return hashed, cached
	case *fullNode:
		collapsed, cached := h.hashFullNodeChildren(n)
		hashed := h.fullnodeToHash(collapsed, force)
		if hn, ok := hashed.(hashNode); ok {
			cached.flags.hash = hn
		} else {
			cached.flags.hash = nil
		}
		return hashed, cached
	default:
		// hashNode and valueNode have no children of their own.
		return n, n
	}
}

// hashShortNodeChildren hashes the child of a Leaf/Extension node and
// packs the path into compact form. The returned collapsed node holds a
// live reference to Key and must not be modified further.
func (h *hasher) hashShortNodeChildren(n *shortNode) (collapsed, cached *shortNode) {
	collapsed, cached = n.copy(), n.copy()
	collapsed.Key = hexToCompact(n.Key)
	switch n.Val.(type) {
	case *fullNode, *shortNode:
		collapsed.Val, cached.Val = h.hash(n.Val, false)
	}
	return collapsed, cached
}

func (h *hasher) hashFullNodeChildren(n *fullNode) (collapsed, cached *fullNode) {
	collapsed, cached = n.copy(), n.copy()
	for i := 0; i < 16; i++ {
		if child := n.Children[i]; child != nil {
			collapsed.Children[i], cached.Children[i] = h.hash(child, false)
		} else {
			collapsed.Children[i] = nilValueNode
		}
	}
	return collapsed, cached
}

// shortnodeToHash creates a hashNode from a shortNode whose Key is already
// in compact form (hashShortNodeChildren converts it beforehand). If the
// RLP encoding is under 32 bytes, the node itself is returned unchanged so
// it can be embedded in its parent instead.
func (h *hasher) shortnodeToHash(n *shortNode, force bool) node {
	n.encode(h.encbuf)
	enc := h.encodedBytes()
	if len(enc) < 32 && !force {
		return n
	}
	return h.hashData(enc)
}

func (h *hasher) fullnodeToHash(n *fullNode, force bool) node {
	n.encode(h.encbuf)
	enc := h.encodedBytes()
	if len(enc) < 32 && !force {
		return n
	}
	return h.hashData(enc)
}

// encodedBytes drains the last encoding operation on h.encbuf into h.tmp
// and resets the buffer for the next call. All node encoding for hashing
// purposes must follow this node.encode / h.encodedBytes() pairing.
func (h *hasher) encodedBytes() []byte {
	h.tmp = h.encbuf.AppendToBytes(h.tmp[:0])
	h.encbuf.Reset(nil)
	return h.tmp
}

func (h *hasher) hashData(data []byte) hashNode {
	n := make(hashNode, 32)
	h.sha.Reset()
	h.sha.Write(data)
	h.sha.Read(n)
	return n
}
