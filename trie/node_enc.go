package trie

import "github.com/ethereum/go-ethereum/rlp"

// encode implements the node wire form. Each variant writes
// itself as an RLP list of byte-strings; a child that is still a node (not a
// hashNode) recurses through the same EncoderBuffer and is written inline,
// whatever its size. Which children stay inline (those under 32 bytes) and
// which become hashNode references is decided beforehand by the hasher.

func (n *fullNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	for _, c := range n.Children {
		if c != nil {
			c.encode(w)
		} else {
			w.Write(rlp.EmptyString)
		}
	}
	w.ListEnd(offset)
}

func (n *shortNode) encode(w rlp.EncoderBuffer) {
	offset := w.List()
	w.WriteBytes(n.Key)
	if n.Val != nil {
		n.Val.encode(w)
	} else {
		w.Write(rlp.EmptyString)
	}
	w.ListEnd(offset)
}

func (n hashNode) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

func (n valueNode) encode(w rlp.EncoderBuffer) {
	w.WriteBytes(n)
}

// nodeToBytes renders a node's wire-form encoding into a standalone byte
// slice, used outside of hashing (e.g. when persisting via a Batch).
func nodeToBytes(n node) []byte {
	w := rlp.NewEncoderBuffer(nil)
	n.encode(w)
	out := w.AppendToBytes(nil)
	w.Reset(nil)
	return out
}
